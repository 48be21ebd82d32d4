package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xeipuuv/gojsonschema"
)

func TestFormatJSONValidatesAgainstSchema(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", "report", "check-report.schema.json"))
	if err != nil {
		t.Fatalf("resolve schema path: %v", err)
	}

	for name, reportData := range map[string]CheckReport{
		"empty":  {},
		"sample": sampleReport(),
	} {
		formatted, err := NewFormatter().Format(reportData, FormatJSON)
		if err != nil {
			t.Fatalf("format %s: %v", name, err)
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(schemaPath)),
			gojsonschema.NewStringLoader(formatted),
		)
		if err != nil {
			t.Fatalf("validate %s: %v", name, err)
		}
		if result.Valid() {
			continue
		}

		messages := make([]string, 0, len(result.Errors()))
		for _, item := range result.Errors() {
			messages = append(messages, item.String())
		}
		t.Fatalf("%s report failed schema validation: %s", name, strings.Join(messages, "; "))
	}
}

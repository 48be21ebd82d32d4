package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
)

type Formatter struct{}

func NewFormatter() Formatter {
	return Formatter{}
}

func (f Formatter) Format(report CheckReport, format Format) (string, error) {
	switch format {
	case FormatTable:
		return formatTable(report), nil
	case FormatJSON:
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload) + "\n", nil
	default:
		return "", ErrUnknownFormat
	}
}

func formatTable(report CheckReport) string {
	var buffer bytes.Buffer
	if !report.HasIssues() {
		buffer.WriteString("No dependency issues found.\n")
	}

	appendList(&buffer, "Unused dependencies", report.Dependencies)
	appendList(&buffer, "Unused devDependencies", report.DevDependencies)
	appendMissing(&buffer, report)
	appendInvalid(&buffer, "Files that could not be analysed", report.RootDir, report.InvalidFiles)
	appendInvalid(&buffer, "Directories that could not be read", report.RootDir, report.InvalidDirs)
	return buffer.String()
}

func appendList(buffer *bytes.Buffer, title string, names []string) {
	if len(names) == 0 {
		return
	}
	buffer.WriteString(title)
	buffer.WriteString("\n")
	for _, name := range names {
		buffer.WriteString("* ")
		buffer.WriteString(name)
		buffer.WriteString("\n")
	}
}

func appendMissing(buffer *bytes.Buffer, report CheckReport) {
	if len(report.Missing) == 0 {
		return
	}
	buffer.WriteString("Missing dependencies\n")
	writer := tabwriter.NewWriter(buffer, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(report.Missing) {
		files := report.Missing[name]
		display := make([]string, 0, len(files))
		for _, file := range files {
			display = append(display, displayPath(report.RootDir, file))
		}
		_, _ = fmt.Fprintf(writer, "* %s\t%s\n", name, strings.Join(display, ", "))
	}
	_ = writer.Flush()
}

func appendInvalid(buffer *bytes.Buffer, title, rootDir string, errs map[string]error) {
	if len(errs) == 0 {
		return
	}
	buffer.WriteString(title)
	buffer.WriteString("\n")
	writer := tabwriter.NewWriter(buffer, 0, 0, 2, ' ', 0)
	for _, path := range sortedKeys(errs) {
		message := "unknown error"
		if err := errs[path]; err != nil {
			message = err.Error()
		}
		_, _ = fmt.Fprintf(writer, "* %s\t%s\n", displayPath(rootDir, path), message)
	}
	_ = writer.Flush()
}

// displayPath shows paths under rootDir relative to it, in the ./x form.
func displayPath(rootDir, path string) string {
	if rootDir == "" {
		return path
	}
	rel, err := filepath.Rel(rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return "./" + filepath.ToSlash(rel)
}

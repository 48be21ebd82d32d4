package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

const SchemaVersion = "1.0.0"

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
}

// CheckReport is the outcome of one dependency check. File lists hold
// absolute paths; dependency lists and file lists are sorted.
type CheckReport struct {
	RootDir         string
	Dependencies    []string
	DevDependencies []string
	Missing         map[string][]string
	Using           map[string][]string
	InvalidFiles    map[string]error
	InvalidDirs     map[string]error
}

// HasIssues reports whether anything is unused or missing. Unreadable files
// and directories alone do not count.
func (r CheckReport) HasIssues() bool {
	return len(r.Dependencies) > 0 || len(r.DevDependencies) > 0 || len(r.Missing) > 0
}

// Partial reports whether some files or directories could not be analysed.
func (r CheckReport) Partial() bool {
	return len(r.InvalidFiles) > 0 || len(r.InvalidDirs) > 0
}

type checkReportJSON struct {
	SchemaVersion   string              `json:"schemaVersion"`
	RootDir         string              `json:"rootDir"`
	Dependencies    []string            `json:"dependencies"`
	DevDependencies []string            `json:"devDependencies"`
	Missing         map[string][]string `json:"missing"`
	Using           map[string][]string `json:"using"`
	InvalidFiles    map[string]string   `json:"invalidFiles"`
	InvalidDirs     map[string]string   `json:"invalidDirs"`
}

// MarshalJSON writes errors as their messages and empty collections as []
// or {} rather than null.
func (r CheckReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(checkReportJSON{
		SchemaVersion:   SchemaVersion,
		RootDir:         r.RootDir,
		Dependencies:    nonNil(r.Dependencies),
		DevDependencies: nonNil(r.DevDependencies),
		Missing:         nonNilIndex(r.Missing),
		Using:           nonNilIndex(r.Using),
		InvalidFiles:    errorMessages(r.InvalidFiles),
		InvalidDirs:     errorMessages(r.InvalidDirs),
	})
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func nonNilIndex(index map[string][]string) map[string][]string {
	out := make(map[string][]string, len(index))
	for name, files := range index {
		out[name] = nonNil(files)
	}
	return out
}

func errorMessages(errs map[string]error) map[string]string {
	out := make(map[string]string, len(errs))
	for path, err := range errs {
		if err == nil {
			out[path] = ""
			continue
		}
		out[path] = err.Error()
	}
	return out
}

func sortedKeys[V any](items map[string]V) []string {
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

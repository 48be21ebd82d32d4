package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := run([]string{"--help"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("expected exit code 0 for help, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected usage output on stdout, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no stderr output for help, got %q", errOut.String())
	}
}

func TestRunParseError(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := run([]string{"--nope"}, &out, &errOut)
	if code != 2 {
		t.Fatalf("expected parse error exit code 2, got %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown flag") {
		t.Fatalf("expected parse error details on stderr, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "Usage:") {
		t.Fatalf("expected usage text on stderr for parse error, got %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output for parse error, got %q", out.String())
	}
}

func TestRunMissingManifest(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := run([]string{t.TempDir()}, &out, &errOut)
	if code != 1 {
		t.Fatalf("expected runtime error exit code 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "invalid project manifest") {
		t.Fatalf("expected manifest error on stderr, got %q", errOut.String())
	}
}

func TestRunReportsIssuesAsJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{
  "name": "fixture",
  "dependencies": {"used": "^1.0.0", "unused": "^1.0.0"},
  "devDependencies": {"mocha": "^10.0.0"}
}`)
	writeFile(t, filepath.Join(root, "index.js"), "const used = require('used');\nconst pad = require('left-pad');\n")
	writeFile(t, filepath.Join(root, "test", "index.test.js"), "import assert from 'node:assert';\n")

	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{"--json", root}, &out, &errOut)
	if code != 3 {
		t.Fatalf("expected issues exit code 3, got %d (stderr %q)", code, errOut.String())
	}

	var payload struct {
		Dependencies    []string            `json:"dependencies"`
		DevDependencies []string            `json:"devDependencies"`
		Missing         map[string][]string `json:"missing"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(payload.Dependencies) != 1 || payload.Dependencies[0] != "unused" {
		t.Fatalf("unexpected unused dependencies: %#v", payload.Dependencies)
	}
	if len(payload.DevDependencies) != 1 || payload.DevDependencies[0] != "mocha" {
		t.Fatalf("unexpected unused devDependencies: %#v", payload.DevDependencies)
	}
	if files := payload.Missing["left-pad"]; len(files) != 1 || files[0] != filepath.Join(root, "index.js") {
		t.Fatalf("unexpected missing entry: %#v", payload.Missing)
	}
}

func TestRunCleanProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"react": "^18.0.0"}}`)
	writeFile(t, filepath.Join(root, "src", "app.tsx"), "import * as React from 'react';\nexport const App = () => <main />;\n")

	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{root}, &out, &errOut)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stdout %q, stderr %q)", code, out.String(), errOut.String())
	}
	if !strings.Contains(out.String(), "No dependency issues found.") {
		t.Fatalf("expected clean banner, got %q", out.String())
	}
}

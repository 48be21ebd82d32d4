package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func CanceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func MustWriteFile(t *testing.T, path string, content string) {
	MustWriteFileMode(t, path, content, 0o600)
}

func MustWriteFileMode(t *testing.T, path string, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFiles writes every slash-separated relative path in files under root.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// WritePackageJSON marshals manifest into dir/package.json.
func WritePackageJSON(t *testing.T, dir string, manifest map[string]any) {
	t.Helper()
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		t.Fatalf("marshal package.json: %v", err)
	}
	MustWriteFile(t, filepath.Join(dir, "package.json"), string(data))
}

// InstallPackage writes root/node_modules/<name>/package.json with the given
// extra fields.
func InstallPackage(t *testing.T, root, name string, fields map[string]any) {
	t.Helper()
	manifest := map[string]any{"name": name, "version": "1.0.0"}
	for key, value := range fields {
		manifest[key] = value
	}
	WritePackageJSON(t, filepath.Join(root, "node_modules", filepath.FromSlash(name)), manifest)
}

// Deps builds a dependency map with a placeholder range for each name.
func Deps(names ...string) map[string]string {
	deps := make(map[string]string, len(names))
	for _, name := range names {
		deps[name] = "^1.0.0"
	}
	return deps
}

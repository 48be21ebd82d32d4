package config

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/testutil"
)

const (
	loadConfigErrFmt = "load config: %v"
	rcName           = ".depsweeprc"
	rcYMLName        = ".depsweeprc.yml"
	rcJSONName       = ".depsweeprc.json"
	rcTOMLName       = ".depsweeprc.toml"
)

func TestLoadNoConfigFile(t *testing.T) {
	root := t.TempDir()
	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if result.Path != "" {
		t.Fatalf("expected no config path, got %q", result.Path)
	}

	req := analysis.Request{RootDir: root}
	result.Options.Apply(&req)
	if req.Ignores != nil || req.Parsers != nil || req.Concurrency != 0 || req.SkipMissing {
		t.Fatalf("expected untouched request, got %+v", req)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	root := t.TempDir()
	cfg := strings.Join([]string{
		"ignore-bin-package: true",
		"skip-missing: true",
		"ignores:",
		"  - eslint-*",
		"  - '@babel/*'",
		"ignore-dirs: [fixtures]",
		"prod-dependency-matches: ['src/**']",
		"parsers:",
		"  '**/*.ts': [typescript]",
		"  '**/*.js': [es6, jsx]",
		"detectors: [requireCallExpression]",
		"specials: []",
		"concurrency: 3",
		"",
	}, "\n")
	testutil.MustWriteFile(t, filepath.Join(root, rcYMLName), cfg)

	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if !strings.HasSuffix(result.Path, rcYMLName) {
		t.Fatalf("expected %s path, got %q", rcYMLName, result.Path)
	}

	var req analysis.Request
	result.Options.Apply(&req)
	if !req.IgnoreBinPackage || !req.SkipMissing {
		t.Fatalf("expected boolean options, got %+v", req)
	}
	if !slices.Equal(req.Ignores, []string{"eslint-*", "@babel/*"}) {
		t.Fatalf("unexpected ignores: %#v", req.Ignores)
	}
	if !slices.Equal(req.IgnoreDirs, []string{"fixtures"}) || !slices.Equal(req.ProdDependencyMatches, []string{"src/**"}) {
		t.Fatalf("unexpected dir options: %+v", req)
	}
	if len(req.Parsers) != 2 || req.Parsers[0].Pattern != "**/*.ts" || req.Parsers[1].Pattern != "**/*.js" {
		t.Fatalf("expected parser bindings in file order, got %#v", req.Parsers)
	}
	if !slices.Equal(req.Parsers[1].Parsers, []string{"es6", "jsx"}) {
		t.Fatalf("unexpected parser bindings: %#v", req.Parsers)
	}
	if !slices.Equal(req.Detectors, []string{"requireCallExpression"}) {
		t.Fatalf("unexpected detectors: %#v", req.Detectors)
	}
	if req.Specials == nil || len(req.Specials) != 0 {
		t.Fatalf("expected explicit empty specials, got %#v", req.Specials)
	}
	if req.Concurrency != 3 {
		t.Fatalf("expected concurrency 3, got %d", req.Concurrency)
	}
}

func TestLoadJSONConfig(t *testing.T) {
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, rcJSONName), `{"ignores": ["lodash"], "skip-missing": false}`)

	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if !slices.Equal(result.Options.Ignores, []string{"lodash"}) {
		t.Fatalf("unexpected ignores: %#v", result.Options.Ignores)
	}
	if result.Options.SkipMissing == nil || *result.Options.SkipMissing {
		t.Fatalf("expected explicit false skip-missing")
	}
}

func TestLoadTOMLConfig(t *testing.T) {
	root := t.TempDir()
	cfg := strings.Join([]string{
		`ignores = ["typescript"]`,
		`concurrency = 2`,
		``,
		`[parsers]`,
		`"*.vue" = ["vue"]`,
		`"*.svelte" = ["svelte"]`,
		``,
	}, "\n")
	testutil.MustWriteFile(t, filepath.Join(root, rcTOMLName), cfg)

	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if result.Options.Concurrency == nil || *result.Options.Concurrency != 2 {
		t.Fatalf("unexpected concurrency: %v", result.Options.Concurrency)
	}
	parsers := result.Options.Parsers
	if len(parsers) != 2 || parsers[0].Pattern != "*.svelte" || parsers[1].Pattern != "*.vue" {
		t.Fatalf("expected TOML parsers sorted by pattern, got %#v", parsers)
	}
	if !slices.Equal(parsers[1].Parsers, []string{"vue"}) {
		t.Fatalf("unexpected parsers: %#v", parsers)
	}
}

func TestLoadPlainRCAcceptsJSONAndYAML(t *testing.T) {
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, rcName), `{"ignores": ["a"]}`)
	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if !slices.Equal(result.Options.Ignores, []string{"a"}) {
		t.Fatalf("unexpected ignores: %#v", result.Options.Ignores)
	}

	testutil.MustWriteFile(t, filepath.Join(root, rcName), "")
	result, err = Load(root, "")
	if err != nil {
		t.Fatalf("empty rc file: %v", err)
	}
	if result.Options.Ignores != nil {
		t.Fatalf("expected no options from empty rc file")
	}
}

func TestLoadDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, rcJSONName), `{"ignores": ["json"]}`)
	testutil.MustWriteFile(t, filepath.Join(root, rcYMLName), "ignores: [yml]\n")
	testutil.WritePackageJSON(t, root, map[string]any{PackageKey: map[string]any{"ignores": []string{"pkg"}}})

	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if !slices.Equal(result.Options.Ignores, []string{"yml"}) {
		t.Fatalf("expected .depsweeprc.yml to win, got %#v", result.Options.Ignores)
	}
}

func TestLoadFromPackageJSON(t *testing.T) {
	root := t.TempDir()
	testutil.WritePackageJSON(t, root, map[string]any{
		"name":     "app",
		PackageKey: map[string]any{"ignore-dirs": []string{"vendor"}, "specials": []string{"bin"}},
	})

	result, err := Load(root, "")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if filepath.Base(result.Path) != "package.json" {
		t.Fatalf("expected package.json source, got %q", result.Path)
	}
	if !slices.Equal(result.Options.IgnoreDirs, []string{"vendor"}) || !slices.Equal(result.Options.Specials, []string{"bin"}) {
		t.Fatalf("unexpected options: %+v", result.Options)
	}
}

func TestLoadIgnoresBrokenPackageJSON(t *testing.T) {
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "package.json"), "{broken")
	result, err := Load(root, "")
	if err != nil {
		t.Fatalf("expected broken manifest to be left to the analysis, got %v", err)
	}
	if result.Path != "" {
		t.Fatalf("expected no config path, got %q", result.Path)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, rcYMLName), "ignores: [discovered]\n")
	testutil.MustWriteFile(t, filepath.Join(root, "conf", "custom.yml"), "ignores: [explicit]\n")

	result, err := Load(root, "conf/custom.yml")
	if err != nil {
		t.Fatalf(loadConfigErrFmt, err)
	}
	if !slices.Equal(result.Options.Ignores, []string{"explicit"}) {
		t.Fatalf("expected explicit config to win, got %#v", result.Options.Ignores)
	}

	outside := filepath.Join(t.TempDir(), "shared.json")
	testutil.MustWriteFile(t, outside, `{"ignores": ["shared"]}`)
	result, err = Load(root, outside)
	if err != nil {
		t.Fatalf("load config outside root: %v", err)
	}
	if !slices.Equal(result.Options.Ignores, []string{"shared"}) {
		t.Fatalf("unexpected ignores: %#v", result.Options.Ignores)
	}

	if _, err := Load(root, "missing.yml"); err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
	}{
		"unknown yaml key":     {rcYMLName, "ignore-everything: true\n"},
		"unknown json key":     {rcJSONName, `{"ignoreBinPackage": true}`},
		"unknown toml key":     {rcTOMLName, "verbose = true\n"},
		"malformed yaml":       {rcYMLName, "ignores: [\n"},
		"trailing json":        {rcJSONName, `{} {}`},
		"negative concurrency": {rcYMLName, "concurrency: -1\n"},
		"bad ignore glob":      {rcYMLName, "ignores: ['[abc']\n"},
		"bad parser glob":      {rcJSONName, `{"parsers": {"[": ["jsx"]}}`},
		"empty parser list":    {rcJSONName, `{"parsers": {"*.js": []}}`},
		"parsers not object":   {rcJSONName, `{"parsers": ["jsx"]}`},
		"parsers not mapping":  {rcYMLName, "parsers: [jsx]\n"},
		"repeated json parser": {rcJSONName, `{"parsers": {"*.js": ["jsx"], "*.js": ["es6"]}}`},
		"bad prod glob":        {rcYMLName, "prod-dependency-matches: ['{a']\n"},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			root := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(root, tc.name), tc.content)
			if _, err := Load(root, ""); err == nil {
				t.Fatalf("expected error for %s", label)
			}
		})
	}
}

func TestLoadRejectsInvalidPackageKey(t *testing.T) {
	root := t.TempDir()
	testutil.WritePackageJSON(t, root, map[string]any{PackageKey: map[string]any{"unknown": 1}})
	if _, err := Load(root, ""); err == nil {
		t.Fatalf("expected error for unknown key in package.json")
	}
}

func TestParserMapKeepsJSONOrderAndCopies(t *testing.T) {
	options, err := Parse(rcJSONName, []byte(`{"parsers": {"*.vue": ["vue"], "*.js": ["es6", "jsx"], "*.ts": ["typescript"]}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bindings := options.Parsers.Bindings()
	patterns := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		patterns = append(patterns, binding.Pattern)
	}
	if !slices.Equal(patterns, []string{"*.vue", "*.js", "*.ts"}) {
		t.Fatalf("expected patterns in file order, got %#v", patterns)
	}

	bindings[1].Parsers[0] = "changed"
	if options.Parsers[1].Parsers[0] != "es6" {
		t.Fatalf("bindings must not alias the options")
	}

	cleared, err := Parse(rcJSONName, []byte(`{"parsers": null}`))
	if err != nil || cleared.Parsers != nil {
		t.Fatalf("expected null parsers to stay unset, got %#v %v", cleared.Parsers, err)
	}
}

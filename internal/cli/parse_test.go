package cli

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/report"
	"github.com/ben-ranford/depsweep/internal/testutil"
)

const parseArgsErrFmt = "parse args: %v"

func TestParseArgsDefaults(t *testing.T) {
	root := projectDir(t)
	inv, err := ParseArgs([]string{root})
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	req := inv.Request
	if req.RootDir != root || req.Format != report.FormatTable {
		t.Fatalf("unexpected request: %+v", req)
	}
	if inv.Verbose || inv.ConfigPath != "" || req.MetricsPath != "" {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	options := req.Options
	if options.Ignores != nil || options.Parsers != nil || options.Detectors != nil || options.Specials != nil {
		t.Fatalf("expected nil lists to select defaults, got %+v", options)
	}
	if options.IgnoreBinPackage || options.SkipMissing || options.Concurrency != 0 {
		t.Fatalf("unexpected option defaults: %+v", options)
	}
}

func TestParseArgsWithoutDirectory(t *testing.T) {
	inv, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	if inv.Request.RootDir != "." {
		t.Fatalf("expected current directory, got %q", inv.Request.RootDir)
	}
}

func TestParseArgsAllFlags(t *testing.T) {
	root := projectDir(t)
	inv, err := ParseArgs([]string{
		"--ignore-bin-package",
		"--skip-missing",
		"--json",
		"--ignores", "eslint-*, @babel/*",
		"--ignore-dirs=fixtures",
		"--prod-dependency-matches", "src/**,lib/**",
		"--parsers", "**/*.js:es6&jsx,**/*.ts:typescript",
		"--detectors", "requireCallExpression",
		"--specials=",
		"--concurrency", "7",
		"--metrics-file", "out.prom",
		"-v",
		root,
	})
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	req := inv.Request
	options := req.Options
	if !inv.Verbose || req.Format != report.FormatJSON || req.MetricsPath != "out.prom" {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if !options.IgnoreBinPackage || !options.SkipMissing || options.Concurrency != 7 {
		t.Fatalf("unexpected scalar options: %+v", options)
	}
	if !slices.Equal(options.Ignores, []string{"eslint-*", "@babel/*"}) {
		t.Fatalf("unexpected ignores: %#v", options.Ignores)
	}
	if !slices.Equal(options.IgnoreDirs, []string{"fixtures"}) || !slices.Equal(options.ProdDependencyMatches, []string{"src/**", "lib/**"}) {
		t.Fatalf("unexpected path options: %+v", options)
	}
	wantParsers := []analysis.ParserBinding{
		{Pattern: "**/*.js", Parsers: []string{"es6", "jsx"}},
		{Pattern: "**/*.ts", Parsers: []string{"typescript"}},
	}
	if len(options.Parsers) != len(wantParsers) {
		t.Fatalf("unexpected parsers: %#v", options.Parsers)
	}
	for i, want := range wantParsers {
		if options.Parsers[i].Pattern != want.Pattern || !slices.Equal(options.Parsers[i].Parsers, want.Parsers) {
			t.Fatalf("unexpected parser binding %d: %#v", i, options.Parsers[i])
		}
	}
	if !slices.Equal(options.Detectors, []string{"requireCallExpression"}) {
		t.Fatalf("unexpected detectors: %#v", options.Detectors)
	}
	if options.Specials == nil || len(options.Specials) != 0 {
		t.Fatalf("expected explicit empty specials, got %#v", options.Specials)
	}
}

func TestParseArgsFormatFlag(t *testing.T) {
	root := projectDir(t)
	inv, err := ParseArgs([]string{"--format", "JSON", root})
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	if inv.Request.Format != report.FormatJSON {
		t.Fatalf("expected json format, got %q", inv.Request.Format)
	}
	if _, err := ParseArgs([]string{"--format", "xml", root}); !errors.Is(err, report.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseArgsMergesConfig(t *testing.T) {
	root := projectDir(t)
	testutil.MustWriteFile(t, filepath.Join(root, ".depsweeprc.yml"), strings.Join([]string{
		"skip-missing: true",
		"ignores: [from-rc]",
		"detectors: [importDeclaration]",
		"concurrency: 2",
		"",
	}, "\n"))

	inv, err := ParseArgs([]string{"--ignores", "from-flag", "--concurrency", "0", root})
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	options := inv.Request.Options
	if !strings.HasSuffix(inv.ConfigPath, ".depsweeprc.yml") {
		t.Fatalf("expected rc path, got %q", inv.ConfigPath)
	}
	if !options.SkipMissing || !slices.Equal(options.Detectors, []string{"importDeclaration"}) {
		t.Fatalf("expected rc values to apply, got %+v", options)
	}
	if !slices.Equal(options.Ignores, []string{"from-flag"}) {
		t.Fatalf("expected flag to win over rc, got %#v", options.Ignores)
	}
	if options.Concurrency != 0 {
		t.Fatalf("expected explicit flag value to win, got %d", options.Concurrency)
	}
}

func TestParseArgsExplicitConfig(t *testing.T) {
	root := projectDir(t)
	testutil.MustWriteFile(t, filepath.Join(root, "ci", "depsweep.json"), `{"specials": ["bin"]}`)

	inv, err := ParseArgs([]string{"--config", "ci/depsweep.json", root})
	if err != nil {
		t.Fatalf(parseArgsErrFmt, err)
	}
	if !slices.Equal(inv.Request.Options.Specials, []string{"bin"}) {
		t.Fatalf("unexpected specials: %#v", inv.Request.Options.Specials)
	}
	if _, err := ParseArgs([]string{"--config", "missing.yml", root}); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestParseArgsRejectsInvalidInput(t *testing.T) {
	root := projectDir(t)
	cases := map[string][]string{
		"too many args":        {root, root},
		"negative concurrency": {"--concurrency", "-1", root},
		"bad concurrency":      {"--concurrency", "many", root},
		"parser without glob":  {"--parsers", "jsx", root},
		"parser without id":    {"--parsers", "*.js:", root},
		"unknown flag":         {"--fail-on-increase", root},
	}
	for label, args := range cases {
		t.Run(label, func(t *testing.T) {
			if _, err := ParseArgs(args); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestParseArgsHelpAndVersion(t *testing.T) {
	if _, err := ParseArgs([]string{"--help"}); !errors.Is(err, ErrHelpRequested) {
		t.Fatalf("expected ErrHelpRequested, got %v", err)
	}
	if _, err := ParseArgs([]string{"--version", "/does/not/exist"}); !errors.Is(err, ErrVersionRequested) {
		t.Fatalf("expected ErrVersionRequested, got %v", err)
	}
}

func TestParseParsersMergesRepeatedGlobs(t *testing.T) {
	bindings, err := parseParsers(" *.js:jsx , *.ts:typescript,*.js:es6 ,")
	if err != nil {
		t.Fatalf("parse parsers: %v", err)
	}
	if len(bindings) != 2 || bindings[0].Pattern != "*.js" || !slices.Equal(bindings[0].Parsers, []string{"jsx", "es6"}) {
		t.Fatalf("unexpected bindings: %#v", bindings)
	}
	empty, err := parseParsers("")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected explicit empty bindings, got %#v %v", empty, err)
	}
}

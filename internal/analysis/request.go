package analysis

import (
	"github.com/ben-ranford/depsweep/internal/manifest"
	"github.com/ben-ranford/depsweep/internal/telemetry"
)

// DefaultIgnoreDirs are never entered. Configured ignore dirs add to them.
var DefaultIgnoreDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	"node_modules",
	"dist",
	"build",
	"bower_components",
}

// ParserBinding assigns parsers, by id, to files whose base name matches
// Pattern.
type ParserBinding struct {
	Pattern string
	Parsers []string
}

// Request configures one run of the Service. Nil slices select the defaults;
// an empty non-nil slice selects nothing.
type Request struct {
	RootDir string
	// Package replaces RootDir/package.json when set.
	Package *manifest.Package

	IgnoreBinPackage      bool
	SkipMissing           bool
	Ignores               []string
	IgnoreDirs            []string
	ProdDependencyMatches []string

	Parsers   []ParserBinding
	Detectors []string
	Specials  []string

	Concurrency int
	Metrics     *telemetry.Metrics
}

package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
	"github.com/ben-ranford/depsweep/internal/pathmatch"
	"github.com/ben-ranford/depsweep/internal/report"
	"github.com/ben-ranford/depsweep/internal/telemetry"
	"github.com/charmbracelet/log"
)

// Input is everything one check needs. The dependency lists are read, never
// modified.
type Input struct {
	RootDir               string
	IgnoreDirs            []string
	ProdDependencyMatches []string
	SkipMissing           bool

	Deps         []string
	DevDeps      []string
	PeerDeps     []string
	OptionalDeps []string

	Parsers   *language.ParserTable
	Detectors []language.Detector

	// Resolver loads installed dependency manifests. A fresh one is used
	// when nil.
	Resolver *manifest.Resolver
	// Concurrency bounds parallel file extractions; DefaultConcurrency when
	// zero or negative.
	Concurrency int
	Metrics     *telemetry.Metrics
}

func DefaultConcurrency() int {
	return runtime.NumCPU() * 4
}

// Check walks in.RootDir and reports unused and missing dependencies.
// Unreadable files and directories end up in the report; only invalid input
// or cancellation of ctx fail the call.
func Check(ctx context.Context, in Input) (report.CheckReport, error) {
	if strings.TrimSpace(in.RootDir) == "" {
		return report.CheckReport{}, errors.New("root directory is empty")
	}
	if in.Parsers == nil {
		return report.CheckReport{}, errors.New("parser table is not configured")
	}
	prodMatchers, err := pathmatch.CompileAll(in.ProdDependencyMatches)
	if err != nil {
		return report.CheckReport{}, fmt.Errorf("prod dependency matches: %w", err)
	}

	rootDir, err := filepath.Abs(in.RootDir)
	if err != nil {
		return report.CheckReport{}, fmt.Errorf("resolve root directory: %w", err)
	}
	resolver := in.Resolver
	if resolver == nil {
		resolver = manifest.NewResolver()
	}
	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency()
	}

	logger := log.FromContext(ctx)
	declared := language.NewDependencySet(in.Deps, in.DevDeps)
	w := &walker{
		ignoreDirs:  stringSet(in.IgnoreDirs),
		table:       in.Parsers,
		concurrency: concurrency,
		metrics:     in.Metrics,
		logger:      logger.WithPrefix("walk"),
		extractor: &extractor{
			rootDir:   rootDir,
			declared:  declared,
			detectors: in.Detectors,
			peers:     peerResolver{resolver: resolver, rootDir: rootDir, declared: declared},
			logger:    logger.WithPrefix("extract"),
		},
	}

	started := time.Now()
	result, err := w.walk(ctx, rootDir)
	if err != nil {
		return report.CheckReport{}, err
	}
	checked := aggregate(result, declaredSets{
		deps:         in.Deps,
		devDeps:      in.DevDeps,
		peerDeps:     in.PeerDeps,
		optionalDeps: in.OptionalDeps,
	}, rootDir, prodMatchers, in.SkipMissing)

	in.Metrics.ObserveRun(time.Since(started))
	logger.Debug("check finished", "files", len(result.Using), "invalidFiles", len(result.InvalidFiles), "invalidDirs", len(result.InvalidDirs), "elapsed", time.Since(started).Round(time.Millisecond))
	return checked, nil
}

func stringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

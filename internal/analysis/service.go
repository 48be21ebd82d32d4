package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ben-ranford/depsweep/internal/lang/js"
	"github.com/ben-ranford/depsweep/internal/lang/special"
	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
	"github.com/ben-ranford/depsweep/internal/pathmatch"
	"github.com/ben-ranford/depsweep/internal/report"
	"github.com/ben-ranford/depsweep/internal/workspace"
	"github.com/charmbracelet/log"
)

type Analyzer interface {
	Run(ctx context.Context, req Request) (report.CheckReport, error)
}

// Service resolves a Request against the parser catalog and runs Check.
type Service struct {
	Registry *language.Registry
	Resolver *manifest.Resolver
	InitErr  error
}

func NewService() *Service {
	registry := language.NewRegistry()
	resolver := manifest.NewResolver()
	err := errors.Join(
		js.Register(registry),
		special.Register(registry, resolver),
	)

	return &Service{
		Registry: registry,
		Resolver: resolver,
		InitErr:  err,
	}
}

func (s *Service) Run(ctx context.Context, req Request) (report.CheckReport, error) {
	if s.InitErr != nil {
		return report.CheckReport{}, s.InitErr
	}
	if s.Registry == nil {
		return report.CheckReport{}, errors.New("language registry is not configured")
	}

	rootDir, err := workspace.NormalizeRootDir(req.RootDir)
	if err != nil {
		return report.CheckReport{}, err
	}
	pkg := req.Package
	if pkg == nil {
		pkg, err = manifest.Read(rootDir)
		if err != nil {
			return report.CheckReport{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	}

	table, err := s.parserTable(req)
	if err != nil {
		return report.CheckReport{}, err
	}
	detectors, err := s.Registry.Detectors(orDefault(req.Detectors, js.DefaultDetectors))
	if err != nil {
		return report.CheckReport{}, err
	}
	ignoreMatchers, err := pathmatch.CompileAll(req.Ignores)
	if err != nil {
		return report.CheckReport{}, fmt.Errorf("ignores: %w", err)
	}
	filter := dependencyFilter{
		ignores:   ignoreMatchers,
		ignoreBin: req.IgnoreBinPackage,
		resolver:  s.Resolver,
		rootDir:   rootDir,
	}

	checked, err := Check(ctx, Input{
		RootDir:               rootDir,
		IgnoreDirs:            union(DefaultIgnoreDirs, req.IgnoreDirs),
		ProdDependencyMatches: req.ProdDependencyMatches,
		SkipMissing:           req.SkipMissing,
		Deps:                  filter.keep(manifest.Names(pkg.Dependencies)),
		DevDeps:               filter.keep(manifest.Names(pkg.DevDependencies)),
		PeerDeps:              manifest.Names(pkg.PeerDependencies),
		OptionalDeps:          manifest.Names(pkg.OptionalDependencies),
		Parsers:               table,
		Detectors:             detectors,
		Resolver:              s.Resolver,
		Concurrency:           req.Concurrency,
		Metrics:               req.Metrics,
	})
	if err != nil {
		return report.CheckReport{}, err
	}

	for name := range checked.Missing {
		if filter.excluded(name) {
			delete(checked.Missing, name)
		}
	}

	req.Metrics.RecordDependencies("unused", len(checked.Dependencies))
	req.Metrics.RecordDependencies("unused_dev", len(checked.DevDependencies))
	req.Metrics.RecordDependencies("missing", len(checked.Missing))
	req.Metrics.RecordDependencies("used", len(checked.Using))
	log.FromContext(ctx).Debug("run finished", "root", rootDir, "unused", len(checked.Dependencies), "unusedDev", len(checked.DevDependencies), "missing", len(checked.Missing))
	return checked, nil
}

// parserTable builds the table from the requested bindings, or the defaults,
// and puts the special parsers under "*".
func (s *Service) parserTable(req Request) (*language.ParserTable, error) {
	bindings := req.Parsers
	if bindings == nil {
		bindings = make([]ParserBinding, 0, len(js.DefaultParsers))
		for _, item := range js.DefaultParsers {
			bindings = append(bindings, ParserBinding{Pattern: item.Pattern, Parsers: item.Parsers})
		}
	}

	table := language.NewParserTable()
	for _, binding := range bindings {
		parsers := make([]language.Parser, 0, len(binding.Parsers))
		for _, id := range binding.Parsers {
			parser, err := s.Registry.Parser(id)
			if err != nil {
				return nil, err
			}
			parsers = append(parsers, parser)
		}
		if err := table.Add(binding.Pattern, parsers...); err != nil {
			return nil, fmt.Errorf("parsers: %w", err)
		}
	}

	specials, err := s.Registry.Specials(orDefault(req.Specials, special.DefaultSpecials))
	if err != nil {
		return nil, err
	}
	if len(specials) > 0 {
		if err := table.Add("*", specials...); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// dependencyFilter drops dependencies matched by an ignore pattern and, when
// ignoreBin is set, dependencies that install executables.
type dependencyFilter struct {
	ignores   []pathmatch.Matcher
	ignoreBin bool
	resolver  *manifest.Resolver
	rootDir   string
}

func (f dependencyFilter) excluded(name string) bool {
	if pathmatch.MatchAny(f.ignores, name) {
		return true
	}
	if !f.ignoreBin {
		return false
	}
	pkg, ok := f.resolver.Load(name, f.rootDir)
	return ok && pkg.Bin.Present()
}

func (f dependencyFilter) keep(names []string) []string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if !f.excluded(name) {
			kept = append(kept, name)
		}
	}
	return kept
}

func orDefault(values, defaults []string) []string {
	if values == nil {
		return defaults
	}
	return values
}

func union(groups ...[]string) []string {
	return language.NewDependencySet(groups...).Names()
}

package analysis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ben-ranford/depsweep/internal/lang/js"
	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/safeio"
	"github.com/charmbracelet/log"
)

type extractor struct {
	rootDir   string
	declared  language.DependencySet
	detectors []language.Detector
	peers     peerResolver
	logger    *log.Logger
}

// extract runs one parser over one file and returns the normalized package
// names it references. Read and parse failures come back as
// *ExtractionError; detector failures only drop that detector's findings.
func (e *extractor) extract(ctx context.Context, path string, parser language.Parser) ([]string, error) {
	content, err := safeio.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Parser: parser.ID(), Op: OpRead, Err: err}
	}

	parsed, err := runParser(ctx, parser, language.ParseInput{
		Content:  content,
		Path:     path,
		Declared: e.declared,
		RootDir:  e.rootDir,
	})
	if err != nil {
		return nil, &ExtractionError{Path: path, Parser: parser.ID(), Op: OpParse, Err: err}
	}

	var raw []string
	switch parsed.Kind {
	case language.ResultNames:
		raw = parsed.Names
	case language.ResultTree:
		raw = e.detect(path, parsed.Tree)
	default:
		err := fmt.Errorf("parser returned result kind %d", parsed.Kind)
		return nil, &ExtractionError{Path: path, Parser: parser.ID(), Op: OpParse, Err: err}
	}

	names := normalizeNames(raw)
	if parser.Kind() == language.KindTypeScript {
		names = appendUnique(names, e.typesPackages(names)...)
	}
	names = appendUnique(names, e.peers.discover(names)...)
	names = filterNames(names)

	e.logger.Debug("extracted", "file", relativePath(e.rootDir, path), "parser", parser.ID(), "deps", names)
	return names, nil
}

func runParser(ctx context.Context, parser language.Parser, in language.ParseInput) (parsed language.Parsed, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("parser %s panicked: %v", parser.ID(), recovered)
		}
	}()
	return parser.Parse(ctx, in)
}

// detect runs every detector over every node, node by node.
func (e *extractor) detect(path string, tree language.Tree) []string {
	if tree == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var found []string
	for _, node := range tree.Nodes() {
		for _, detector := range e.detectors {
			for _, name := range e.runDetector(detector, node, path) {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				found = append(found, name)
			}
		}
	}
	return found
}

func (e *extractor) runDetector(detector language.Detector, node language.Node, path string) (names []string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.Debug("detector panicked", "detector", detector.ID(), "file", path, "panic", recovered)
			names = nil
		}
	}()
	names, err := detector.Detect(node, e.declared)
	if err != nil {
		e.logger.Debug("detector failed", "detector", detector.ID(), "file", path, "err", err)
		return nil
	}
	return names
}

// typesPackages returns the declared @types packages of names.
func (e *extractor) typesPackages(names []string) []string {
	var types []string
	for _, name := range names {
		if typesName := js.TypesPackageName(name); e.declared.Has(typesName) {
			types = append(types, typesName)
		}
	}
	return types
}

func normalizeNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		names = appendUnique(names, js.PackageRootName(item))
	}
	return names
}

// filterNames drops empty names, relative markers and Node.js builtins.
func filterNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || name == "." || name == ".." || js.IsBuiltin(name) {
			continue
		}
		out = appendUnique(out, name)
	}
	return out
}

func relativePath(rootDir, path string) string {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Package config loads depsweep options from an rc file in the project root
// or from the "depsweep" key of package.json.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/manifest"
	"github.com/ben-ranford/depsweep/internal/pathmatch"
	"github.com/ben-ranford/depsweep/internal/safeio"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	readConfigFileErrFmt = "read config file %s: %w"
	parseConfigErrFmt    = "parse config file %s: %w"

	// PackageKey is the package.json key read when no rc file exists.
	PackageKey = "depsweep"
)

// FileNames are the rc files looked up in the project root, in order.
var FileNames = []string{
	".depsweeprc",
	".depsweeprc.yml",
	".depsweeprc.yaml",
	".depsweeprc.json",
	".depsweeprc.toml",
}

// Options mirrors the command-line flags. Unset fields leave the request
// untouched.
type Options struct {
	IgnoreBinPackage      *bool               `yaml:"ignore-bin-package" json:"ignore-bin-package" toml:"ignore-bin-package"`
	SkipMissing           *bool               `yaml:"skip-missing" json:"skip-missing" toml:"skip-missing"`
	Ignores               []string            `yaml:"ignores" json:"ignores" toml:"ignores"`
	IgnoreDirs            []string            `yaml:"ignore-dirs" json:"ignore-dirs" toml:"ignore-dirs"`
	ProdDependencyMatches []string            `yaml:"prod-dependency-matches" json:"prod-dependency-matches" toml:"prod-dependency-matches"`
	Parsers               ParserMap           `yaml:"parsers" json:"parsers" toml:"-"`
	Detectors             []string            `yaml:"detectors" json:"detectors" toml:"detectors"`
	Specials              []string            `yaml:"specials" json:"specials" toml:"specials"`
	Concurrency           *int                `yaml:"concurrency" json:"concurrency" toml:"concurrency"`
}

type LoadResult struct {
	Options Options
	// Path is the file the options came from, empty when none was found.
	Path string
}

// Load finds and parses the configuration for rootDir. explicitPath, when
// set, replaces discovery and must exist.
func Load(rootDir, explicitPath string) (LoadResult, error) {
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return LoadResult{}, fmt.Errorf("resolve root directory: %w", err)
	}
	explicitPath = strings.TrimSpace(explicitPath)

	path, found, err := resolveConfigPath(rootAbs, explicitPath)
	if err != nil {
		return LoadResult{}, err
	}
	if !found {
		return loadFromManifest(rootAbs)
	}

	data, err := readConfigFile(rootAbs, path, explicitPath != "")
	if err != nil {
		return LoadResult{}, fmt.Errorf(readConfigFileErrFmt, path, err)
	}
	options, err := Parse(path, data)
	if err != nil {
		return LoadResult{}, fmt.Errorf(parseConfigErrFmt, path, err)
	}
	if err := options.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf(parseConfigErrFmt, path, err)
	}
	return LoadResult{Options: options, Path: path}, nil
}

func resolveConfigPath(rootDir, explicitPath string) (string, bool, error) {
	if explicitPath != "" {
		candidate := explicitPath
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(rootDir, candidate)
		}
		candidate = filepath.Clean(candidate)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file not found: %s", candidate)
			}
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
		return candidate, true, nil
	}

	for _, name := range FileNames {
		candidate := filepath.Join(rootDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
	}
	return "", false, nil
}

// loadFromManifest reads the PackageKey object of package.json. A missing or
// unreadable manifest yields no options; the analysis reports it.
func loadFromManifest(rootDir string) (LoadResult, error) {
	pkg, err := manifest.Read(rootDir)
	if err != nil || len(bytes.TrimSpace(pkg.Depsweep)) == 0 {
		return LoadResult{}, nil
	}

	path := filepath.Join(rootDir, manifest.FileName)
	options, err := decodeJSON(pkg.Depsweep)
	if err != nil {
		return LoadResult{}, fmt.Errorf("parse %s key of %s: %w", PackageKey, path, err)
	}
	if err := options.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf("parse %s key of %s: %w", PackageKey, path, err)
	}
	return LoadResult{Options: options, Path: path}, nil
}

func readConfigFile(rootDir, path string, explicitProvided bool) ([]byte, error) {
	if !explicitProvided || isPathUnderRoot(rootDir, path) {
		return safeio.ReadFileUnder(rootDir, path)
	}
	return safeio.ReadFile(path)
}

// Parse decodes data by the extension of path. Files without a known
// extension are YAML, which also covers JSON content.
func Parse(path string, data []byte) (Options, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".toml":
		var decoded tomlOptions
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&decoded); err != nil {
			return Options{}, fmt.Errorf("invalid TOML config: %w", err)
		}
		options := decoded.Options
		if decoded.Parsers != nil {
			options.Parsers = sortedParserMap(decoded.Parsers)
		}
		return options, nil
	default:
		var options Options
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&options); err != nil && !errors.Is(err, io.EOF) {
			return Options{}, fmt.Errorf("invalid YAML config: %w", err)
		}
		return options, nil
	}
}

func decodeJSON(data []byte) (Options, error) {
	var options Options
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&options); err != nil {
		return Options{}, fmt.Errorf("invalid JSON config: %w", err)
	}
	if decoder.More() {
		return Options{}, fmt.Errorf("invalid JSON config: multiple JSON values")
	}
	return options, nil
}

func (o Options) Validate() error {
	if o.Concurrency != nil && *o.Concurrency < 0 {
		return fmt.Errorf("concurrency must be zero or positive, got %d", *o.Concurrency)
	}
	if _, err := pathmatch.CompileAll(o.Ignores); err != nil {
		return fmt.Errorf("ignores: %w", err)
	}
	if _, err := pathmatch.CompileAll(o.ProdDependencyMatches); err != nil {
		return fmt.Errorf("prod-dependency-matches: %w", err)
	}
	for _, binding := range o.Parsers {
		if _, err := pathmatch.Compile(binding.Pattern); err != nil {
			return fmt.Errorf("parsers: %w", err)
		}
		if len(binding.Parsers) == 0 {
			return fmt.Errorf("parsers: pattern %q lists no parser", binding.Pattern)
		}
	}
	return nil
}

// Apply copies every option that is set onto req.
func (o Options) Apply(req *analysis.Request) {
	if o.IgnoreBinPackage != nil {
		req.IgnoreBinPackage = *o.IgnoreBinPackage
	}
	if o.SkipMissing != nil {
		req.SkipMissing = *o.SkipMissing
	}
	if o.Ignores != nil {
		req.Ignores = o.Ignores
	}
	if o.IgnoreDirs != nil {
		req.IgnoreDirs = o.IgnoreDirs
	}
	if o.ProdDependencyMatches != nil {
		req.ProdDependencyMatches = o.ProdDependencyMatches
	}
	if o.Parsers != nil {
		req.Parsers = o.Parsers.Bindings()
	}
	if o.Detectors != nil {
		req.Detectors = o.Detectors
	}
	if o.Specials != nil {
		req.Specials = o.Specials
	}
	if o.Concurrency != nil {
		req.Concurrency = *o.Concurrency
	}
}

// tomlOptions reads the parsers table into a map. TOML tables carry no key
// order, so patterns are applied sorted.
type tomlOptions struct {
	Options
	Parsers map[string][]string `toml:"parsers"`
}

// ParserMap binds file patterns to parser ids in the order the patterns are
// written.
type ParserMap []analysis.ParserBinding

func (m *ParserMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parsers must be a mapping", node.Line)
	}
	bindings := make(ParserMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var (
			pattern string
			ids     []string
		)
		if err := node.Content[i].Decode(&pattern); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&ids); err != nil {
			return fmt.Errorf("parsers %q: %w", pattern, err)
		}
		if err := bindings.add(pattern, ids); err != nil {
			return err
		}
	}
	*m = bindings
	return nil
}

func (m *ParserMap) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token == nil {
		*m = nil
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return errors.New("parsers must be an object")
	}

	bindings := ParserMap{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		pattern, _ := token.(string)
		var ids []string
		if err := decoder.Decode(&ids); err != nil {
			return fmt.Errorf("parsers %q: %w", pattern, err)
		}
		if err := bindings.add(pattern, ids); err != nil {
			return err
		}
	}
	*m = bindings
	return nil
}

func (m *ParserMap) add(pattern string, ids []string) error {
	for _, binding := range *m {
		if binding.Pattern == pattern {
			return fmt.Errorf("parsers: pattern %q is listed twice", pattern)
		}
	}
	*m = append(*m, analysis.ParserBinding{Pattern: pattern, Parsers: ids})
	return nil
}

// Bindings returns a copy of m for an analysis request.
func (m ParserMap) Bindings() []analysis.ParserBinding {
	bindings := make([]analysis.ParserBinding, 0, len(m))
	for _, binding := range m {
		bindings = append(bindings, analysis.ParserBinding{
			Pattern: binding.Pattern,
			Parsers: append([]string(nil), binding.Parsers...),
		})
	}
	return bindings
}

func sortedParserMap(parsers map[string][]string) ParserMap {
	patterns := make([]string, 0, len(parsers))
	for pattern := range parsers {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	bindings := make(ParserMap, 0, len(patterns))
	for _, pattern := range patterns {
		bindings = append(bindings, analysis.ParserBinding{Pattern: pattern, Parsers: parsers[pattern]})
	}
	return bindings
}

func isPathUnderRoot(rootPath, targetPath string) bool {
	relative, err := filepath.Rel(rootPath, targetPath)
	if err != nil {
		return false
	}
	return relative != ".." && !strings.HasPrefix(relative, ".."+string(os.PathSeparator))
}

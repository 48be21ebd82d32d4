package special

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
	"gopkg.in/yaml.v3"
)

const IstanbulID = "istanbul"

var nycConfigName = regexp.MustCompile(`^\.nycrc(\.(json|yml|yaml))?$`)

type nycConfig struct {
	Extends any `yaml:"extends" json:"extends"`
}

// istanbulParser credits packages named by the "extends" option of an nyc
// configuration, found in .nycrc files or under the "nyc" key of package.json.
type istanbulParser struct{}

func NewIstanbul() language.Parser {
	return istanbulParser{}
}

func (istanbulParser) ID() string                { return IstanbulID }
func (istanbulParser) Kind() language.ParserKind { return language.KindSpecial }

func (istanbulParser) Accepts(path string) bool {
	base := filepath.Base(path)
	return base == manifest.FileName || nycConfigName.MatchString(base)
}

func (istanbulParser) Parse(_ context.Context, in language.ParseInput) (language.Parsed, error) {
	var (
		raw  []byte
		base = filepath.Base(in.Path)
	)
	switch {
	case nycConfigName.MatchString(base):
		raw = in.Content
	case base == manifest.FileName:
		pkg, err := manifest.Parse(in.Path, in.Content)
		if err != nil {
			return language.RawNames(nil), err
		}
		raw = pkg.Nyc
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return language.RawNames(nil), nil
	}

	config, err := decodeNycConfig(raw)
	if err != nil {
		return language.RawNames(nil), fmt.Errorf("parse nyc config %s: %w", in.Path, err)
	}
	return language.RawNames(extendsDependencies(config.Extends, in.Declared)), nil
}

// decodeNycConfig reads JSON objects with encoding/json, which accepts tab
// indentation, and everything else as YAML.
func decodeNycConfig(raw []byte) (nycConfig, error) {
	var config nycConfig
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &config); err == nil {
			return config, nil
		}
	}
	err := yaml.Unmarshal(raw, &config)
	return config, err
}

func extendsDependencies(value any, declared language.DependencySet) []string {
	switch typed := value.(type) {
	case string:
		if typed == "" || filepath.IsAbs(typed) || strings.HasPrefix(typed, "/") {
			return nil
		}
		parts := strings.Split(typed, "/")
		name := parts[0]
		if strings.HasPrefix(name, "@") && len(parts) > 1 {
			name += "/" + parts[1]
		}
		if declared.Has(name) {
			return []string{name}
		}
	case []any:
		var out []string
		for _, item := range typed {
			out = append(out, extendsDependencies(item, declared)...)
		}
		return out
	}
	return nil
}

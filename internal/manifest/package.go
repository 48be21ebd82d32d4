// Package manifest reads package.json files and resolves installed
// dependencies the way Node's module resolution does.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ben-ranford/depsweep/internal/safeio"
)

const FileName = "package.json"

var ErrNotFound = errors.New("package.json not found")

type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Package struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Scripts              map[string]string `json:"scripts"`
	Bin                  Bin               `json:"bin"`
	Nyc                  json.RawMessage   `json:"nyc"`
	Depsweep             json.RawMessage   `json:"depsweep"`
}

// Bin is the package.json "bin" field, which is either a single path or a map
// of command name to path.
type Bin struct {
	Path  string
	Named map[string]string
}

func (b *Bin) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = Bin{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Path)
	}
	named := make(map[string]string)
	if err := json.Unmarshal(data, &named); err != nil {
		return fmt.Errorf("bin must be a string or an object: %w", err)
	}
	b.Named = named
	return nil
}

func (b Bin) Present() bool {
	return b.Path != "" || len(b.Named) > 0
}

// Read loads dir/package.json.
func Read(dir string) (*Package, error) {
	path := filepath.Join(dir, FileName)
	data, err := safeio.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

func Parse(path string, data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &pkg, nil
}

// Binaries returns the command name and relative path of every binary the
// package installs. A single-path bin is named after dependency, the name the
// package was installed under.
func (p *Package) Binaries(dependency string) [][2]string {
	if p == nil {
		return nil
	}
	if p.Bin.Path != "" {
		return [][2]string{{dependency, p.Bin.Path}}
	}
	out := make([][2]string, 0, len(p.Bin.Named))
	for _, name := range Names(p.Bin.Named) {
		out = append(out, [2]string{name, p.Bin.Named[name]})
	}
	return out
}

// Names returns the sorted keys of a dependency map.
func Names(deps map[string]string) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

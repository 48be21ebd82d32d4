package manifest

import (
	"path/filepath"
	"strings"
	"sync"
)

type cacheKey struct {
	dir  string
	name string
}

type cacheEntry struct {
	pkg *Package
}

// Resolver loads the manifests of installed dependencies. Results, including
// failures, are cached per (directory, dependency). Concurrent misses on the
// same key may both read the file; the first stored result wins.
type Resolver struct {
	cache sync.Map
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Load finds name's package.json by looking in node_modules of fromDir and of
// each of its ancestors. It reports false when the dependency cannot be
// resolved or its manifest does not parse.
func (r *Resolver) Load(name, fromDir string) (*Package, bool) {
	if !validDependencyName(name) {
		return nil, false
	}
	key := cacheKey{dir: filepath.Clean(fromDir), name: name}
	if r == nil {
		entry := resolve(key)
		return entry.pkg, entry.pkg != nil
	}
	if cached, ok := r.cache.Load(key); ok {
		entry := cached.(*cacheEntry)
		return entry.pkg, entry.pkg != nil
	}

	stored, _ := r.cache.LoadOrStore(key, resolve(key))
	entry := stored.(*cacheEntry)
	return entry.pkg, entry.pkg != nil
}

func resolve(key cacheKey) *cacheEntry {
	for _, dir := range searchDirs(key.dir) {
		pkg, err := Read(filepath.Join(dir, filepath.FromSlash(key.name)))
		if err == nil {
			return &cacheEntry{pkg: pkg}
		}
	}
	return &cacheEntry{}
}

func searchDirs(fromDir string) []string {
	var dirs []string
	current := fromDir
	for {
		if filepath.Base(current) != "node_modules" {
			dirs = append(dirs, filepath.Join(current, "node_modules"))
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dirs
		}
		current = parent
	}
}

func validDependencyName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return false
	}
	parts := strings.Split(name, "/")
	if strings.HasPrefix(name, "@") {
		return len(parts) == 2 && parts[1] != "" && parts[1] != "." && parts[1] != ".."
	}
	return len(parts) == 1
}

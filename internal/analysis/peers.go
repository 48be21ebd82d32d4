package analysis

import (
	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
)

// peerResolver finds declared dependencies that are used implicitly because
// a used dependency lists them as peer or optional dependencies.
type peerResolver struct {
	resolver *manifest.Resolver
	rootDir  string
	declared language.DependencySet
}

func (p peerResolver) discover(names []string) []string {
	var found []string
	for _, name := range names {
		pkg, ok := p.resolver.Load(name, p.rootDir)
		if !ok {
			continue
		}
		found = appendUnique(found, p.declared.Intersect(manifest.Names(pkg.PeerDependencies))...)
		found = appendUnique(found, p.declared.Intersect(manifest.Names(pkg.OptionalDependencies))...)
	}
	return found
}

package analysis

import "github.com/ben-ranford/depsweep/internal/manifest"

// isSubModule reports whether dir holds its own loadable package.json, which
// makes it an installed package the walk must not enter.
func isSubModule(dir string) bool {
	_, err := manifest.Read(dir)
	return err == nil
}

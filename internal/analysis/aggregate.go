package analysis

import (
	"sort"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/pathmatch"
	"github.com/ben-ranford/depsweep/internal/report"
)

type declaredSets struct {
	deps         []string
	devDeps      []string
	peerDeps     []string
	optionalDeps []string
}

// aggregate turns per-file findings into the report. Production usage is
// the usage of files whose root-relative path matches one of prodMatchers;
// with no matchers every file is production. Missing dependencies are taken
// from the usage of all files.
func aggregate(result DetectionResult, declared declaredSets, rootDir string, prodMatchers []pathmatch.Matcher, skipMissing bool) report.CheckReport {
	all := invert(result.Using, nil)
	prod := invert(result.Using, func(file string) bool {
		return len(prodMatchers) == 0 || pathmatch.MatchAny(prodMatchers, relativePath(rootDir, file))
	})

	checked := report.CheckReport{
		RootDir:         rootDir,
		Dependencies:    unusedNames(declared.deps, prod),
		DevDependencies: unusedNames(declared.devDeps, all),
		Missing:         map[string][]string{},
		Using:           all,
		InvalidFiles:    result.InvalidFiles,
		InvalidDirs:     result.InvalidDirs,
	}

	if !skipMissing {
		known := language.NewDependencySet(declared.deps, declared.devDeps, declared.peerDeps, declared.optionalDeps)
		for name, files := range all {
			if !known.Has(name) {
				checked.Missing[name] = append([]string(nil), files...)
			}
		}
	}
	return checked
}

// invert builds a dependency to sorted file list index over the files keep
// accepts, or over every file when keep is nil.
func invert(using map[string][]string, keep func(file string) bool) map[string][]string {
	index := make(map[string][]string)
	for file, names := range using {
		if keep != nil && !keep(file) {
			continue
		}
		for _, name := range names {
			index[name] = append(index[name], file)
		}
	}
	for name := range index {
		sort.Strings(index[name])
	}
	return index
}

func unusedNames(declared []string, used map[string][]string) []string {
	unused := make([]string, 0)
	for _, name := range declared {
		if _, ok := used[name]; ok {
			continue
		}
		unused = appendUnique(unused, name)
	}
	sort.Strings(unused)
	return unused
}

package special

import (
	"context"
	"path"
	"strings"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
)

const BinID = "bin"

// binParser marks a declared dependency as used when one of its executables
// is invoked from package.json scripts or Travis CI commands.
type binParser struct {
	resolver *manifest.Resolver
}

func NewBin(resolver *manifest.Resolver) language.Parser {
	return &binParser{resolver: resolver}
}

func (p *binParser) ID() string                { return BinID }
func (p *binParser) Kind() language.ParserKind { return language.KindSpecial }

// Accepts limits the parser to the files Scripts understands.
func (p *binParser) Accepts(path string) bool {
	return HasScripts(path)
}

func (p *binParser) Parse(_ context.Context, in language.ParseInput) (language.Parsed, error) {
	scripts, err := Scripts(in.Path, in.Content)
	if err != nil || len(scripts) == 0 {
		return language.RawNames(nil), err
	}

	padded := make([]string, len(scripts))
	for i, script := range scripts {
		padded[i] = " " + script + " "
	}

	var used []string
	for _, dep := range in.Declared.Names() {
		pkg, ok := p.resolver.Load(dep, in.RootDir)
		if !ok {
			continue
		}
		if binaryInUse(dep, pkg.Binaries(dep), padded) {
			used = append(used, dep)
		}
	}
	return language.RawNames(used), nil
}

func binaryInUse(dep string, binaries [][2]string, paddedScripts []string) bool {
	for _, bin := range binaries {
		for _, feature := range binaryFeatures(dep, bin[0], bin[1]) {
			for _, script := range paddedScripts {
				if strings.Contains(script, " "+feature+" ") {
					return true
				}
			}
		}
	}
	return false
}

// binaryFeatures lists the spellings under which a script can invoke the
// executable name of dep, installed from binPath.
func binaryFeatures(dep, name, binPath string) []string {
	installed := path.Join("node_modules", dep, strings.ReplaceAll(binPath, `\`, "/"))
	return []string{
		name,
		"--require " + name,
		"--require " + name + "/register",
		"$(npm bin)/" + name,
		"node_modules/.bin/" + name,
		"./node_modules/.bin/" + name,
		installed,
		"./" + installed,
	}
}

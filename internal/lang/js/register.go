package js

import (
	"errors"

	"github.com/ben-ranford/depsweep/internal/language"
)

// DefaultParsers maps the default file patterns to parser ids, in table order.
var DefaultParsers = []struct {
	Pattern string
	Parsers []string
}{
	{"**/*.js", []string{ParserJSX}},
	{"**/*.jsx", []string{ParserJSX}},
	{"**/*.mjs", []string{ParserJSX}},
	{"**/*.cjs", []string{ParserJSX}},
	{"**/*.ts", []string{ParserTypeScript}},
	{"**/*.tsx", []string{ParserTypeScript}},
	{"**/*.mts", []string{ParserTypeScript}},
	{"**/*.cts", []string{ParserTypeScript}},
	{"**/*.vue", []string{ParserVue}},
	{"**/*.svelte", []string{ParserSvelte}},
}

// Register adds the JavaScript family parsers and detectors to reg.
func Register(reg *language.Registry) error {
	var errs []error
	errs = append(errs,
		reg.RegisterParser(newJavaScriptParser(ParserES6, language.KindES6), "es7"),
		reg.RegisterParser(newJavaScriptParser(ParserJSX, language.KindJSX)),
		reg.RegisterParser(newTypeScriptParser(), "ts"),
		reg.RegisterParser(&componentParser{id: ParserVue, kind: language.KindVue}),
		reg.RegisterParser(&componentParser{id: ParserSvelte, kind: language.KindSvelte}),
	)
	for _, detector := range detectors() {
		errs = append(errs, reg.RegisterDetector(detector))
	}
	return errors.Join(errs...)
}

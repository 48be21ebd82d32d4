package analysis

import (
	"path/filepath"

	"github.com/ben-ranford/depsweep/internal/language"
)

// classify returns the parsers whose pattern matches the base name of
// filename, in table order, dropping parsers that do not accept the file.
// Dotfiles match like any other name.
func classify(filename string, table *language.ParserTable) []language.Parser {
	base := filepath.Base(filename)
	var parsers []language.Parser
	for _, entry := range table.Entries() {
		if entry.Matcher.Match(base) {
			for _, parser := range entry.Parsers {
				if language.Accepts(parser, filename) {
					parsers = append(parsers, parser)
				}
			}
		}
	}
	return parsers
}

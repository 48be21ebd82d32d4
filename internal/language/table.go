package language

import (
	"errors"
	"strings"

	"github.com/ben-ranford/depsweep/internal/pathmatch"
)

type TableEntry struct {
	Pattern string
	Matcher pathmatch.Matcher
	Parsers []Parser
}

// ParserTable maps glob patterns to parsers. Entries keep the position of the
// first Add for their pattern.
type ParserTable struct {
	entries []TableEntry
	index   map[string]int
}

func NewParserTable() *ParserTable {
	return &ParserTable{index: make(map[string]int)}
}

func (t *ParserTable) Add(pattern string, parsers ...Parser) error {
	if t == nil {
		return errors.New("parser table is nil")
	}
	pattern = strings.TrimSpace(pattern)
	for _, parser := range parsers {
		if parser == nil {
			return errors.New("parser is nil")
		}
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}

	if pos, ok := t.index[pattern]; ok {
		t.entries[pos].Parsers = append(t.entries[pos].Parsers, parsers...)
		return nil
	}

	matcher, err := pathmatch.Compile(pattern)
	if err != nil {
		return err
	}
	t.index[pattern] = len(t.entries)
	t.entries = append(t.entries, TableEntry{
		Pattern: pattern,
		Matcher: matcher,
		Parsers: append([]Parser(nil), parsers...),
	})
	return nil
}

func (t *ParserTable) Entries() []TableEntry {
	if t == nil {
		return nil
	}
	return append([]TableEntry(nil), t.entries...)
}

func (t *ParserTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

package language

import (
	"context"
	"errors"
)

// ParserKind tags the built-in parser families. Extraction keys behaviour off
// the kind, never off parser identity.
type ParserKind string

const (
	KindES6        ParserKind = "es6"
	KindJSX        ParserKind = "jsx"
	KindTypeScript ParserKind = "typescript"
	KindVue        ParserKind = "vue"
	KindSvelte     ParserKind = "svelte"
	KindSpecial    ParserKind = "special"
	KindCustom     ParserKind = "custom"
)

type ParseInput struct {
	Content  []byte
	Path     string
	Declared DependencySet
	RootDir  string
}

type Parser interface {
	ID() string
	Kind() ParserKind
	Parse(ctx context.Context, in ParseInput) (Parsed, error)
}

// FileFilter is implemented by parsers that only handle some file names.
// Files a parser does not accept are never read for it.
type FileFilter interface {
	Accepts(path string) bool
}

// Accepts reports whether parser handles path. Parsers without a FileFilter
// accept every file their pattern matched.
func Accepts(parser Parser, path string) bool {
	if filter, ok := parser.(FileFilter); ok {
		return filter.Accepts(path)
	}
	return true
}

type ResultKind uint8

const (
	ResultNames ResultKind = iota + 1
	ResultTree
)

// Parsed is either a literal list of dependency names or a syntax tree that
// still has to go through the detectors.
type Parsed struct {
	Kind  ResultKind
	Names []string
	Tree  Tree
}

func RawNames(names []string) Parsed {
	return Parsed{Kind: ResultNames, Names: names}
}

func SyntaxTree(tree Tree) Parsed {
	return Parsed{Kind: ResultTree, Tree: tree}
}

type Node interface {
	Type() string
}

type Tree interface {
	// Nodes returns every node of the tree in pre-order.
	Nodes() []Node
}

type Detector interface {
	ID() string
	Detect(node Node, declared DependencySet) ([]string, error)
}

type ParseFunc func(ctx context.Context, in ParseInput) (Parsed, error)

type DetectFunc func(node Node, declared DependencySet) ([]string, error)

type funcParser struct {
	id   string
	kind ParserKind
	fn   ParseFunc
}

// NewParser wraps fn as a Parser. It is the extension point for parsers that
// are not built in; kind defaults to KindCustom.
func NewParser(id string, kind ParserKind, fn ParseFunc) Parser {
	if kind == "" {
		kind = KindCustom
	}
	return &funcParser{id: id, kind: kind, fn: fn}
}

func (p *funcParser) ID() string       { return p.id }
func (p *funcParser) Kind() ParserKind { return p.kind }

func (p *funcParser) Parse(ctx context.Context, in ParseInput) (Parsed, error) {
	if p.fn == nil {
		return Parsed{}, errors.New("parser has no implementation")
	}
	return p.fn(ctx, in)
}

type funcDetector struct {
	id string
	fn DetectFunc
}

func NewDetector(id string, fn DetectFunc) Detector {
	return &funcDetector{id: id, fn: fn}
}

func (d *funcDetector) ID() string { return d.id }

func (d *funcDetector) Detect(node Node, declared DependencySet) ([]string, error) {
	if d.fn == nil {
		return nil, nil
	}
	return d.fn(node, declared)
}

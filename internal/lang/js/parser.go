package js

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ben-ranford/depsweep/internal/language"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
)

const (
	ParserES6        = "es6"
	ParserJSX        = "jsx"
	ParserTypeScript = "typescript"
	ParserVue        = "vue"
	ParserSvelte     = "svelte"
)

// SyntaxError reports the first error or missing node tree-sitter recovered
// from. Positions are 1-based.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at line %d, column %d", e.Path, e.Line, e.Column)
}

type grammarParser struct {
	id       string
	kind     language.ParserKind
	language func(path string) *sitter.Language
}

func newJavaScriptParser(id string, kind language.ParserKind) *grammarParser {
	return &grammarParser{
		id:   id,
		kind: kind,
		language: func(string) *sitter.Language {
			return javascript.GetLanguage()
		},
	}
}

func newTypeScriptParser() *grammarParser {
	return &grammarParser{
		id:       ParserTypeScript,
		kind:     language.KindTypeScript,
		language: typeScriptLanguageForPath,
	}
}

func typeScriptLanguageForPath(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return tsxlang.GetLanguage()
	default:
		return tslang.GetLanguage()
	}
}

func (p *grammarParser) ID() string                { return p.id }
func (p *grammarParser) Kind() language.ParserKind { return p.kind }

func (p *grammarParser) Parse(ctx context.Context, in language.ParseInput) (language.Parsed, error) {
	source, err := parseSource(ctx, p.language(in.Path), in.Path, in.Content, 0)
	if err != nil {
		return language.Parsed{}, err
	}
	return language.SyntaxTree(&SyntaxTree{sources: []sourceTree{source}}), nil
}

type sourceTree struct {
	tree    *sitter.Tree
	content []byte
}

// SyntaxTree is a tree-sitter parse of one file. Component files contribute
// one tree per script block.
type SyntaxTree struct {
	sources []sourceTree
}

func (t *SyntaxTree) Nodes() []language.Node {
	if t == nil {
		return nil
	}
	var nodes []language.Node
	for _, source := range t.sources {
		root := source.tree.RootNode()
		nodes = append(nodes, Node{node: root, content: source.content})
		walkNode(root, func(node *sitter.Node) {
			nodes = append(nodes, Node{node: node, content: source.content})
		})
	}
	return nodes
}

// Node is a named tree-sitter node together with the bytes it was parsed from.
type Node struct {
	node    *sitter.Node
	content []byte
}

func (n Node) Type() string {
	if n.node == nil {
		return ""
	}
	return n.node.Type()
}

func (n Node) Text() string {
	return nodeText(n.node, n.content)
}

func (n Node) Field(name string) (Node, bool) {
	if n.node == nil {
		return Node{}, false
	}
	child := n.node.ChildByFieldName(name)
	if child == nil {
		return Node{}, false
	}
	return Node{node: child, content: n.content}, true
}

func (n Node) NamedChildren() []Node {
	if n.node == nil {
		return nil
	}
	children := make([]Node, 0, n.node.NamedChildCount())
	for i := 0; i < int(n.node.NamedChildCount()); i++ {
		children = append(children, Node{node: n.node.NamedChild(i), content: n.content})
	}
	return children
}

// StringValue returns the value of a string literal or of a template literal
// without substitutions.
func (n Node) StringValue() (string, bool) {
	switch n.Type() {
	case "string":
		return extractStringLiteral(n.node, n.content)
	case "template_string":
		if firstNamedChildOfType(n.node, "template_substitution") != nil {
			return "", false
		}
		return extractStringLiteral(n.node, n.content)
	default:
		return "", false
	}
}

func parseSource(ctx context.Context, lang *sitter.Language, path string, content []byte, lineOffset int) (sourceTree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return sourceTree{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if root := tree.RootNode(); root.HasError() {
		syntaxErr := &SyntaxError{Path: path, Line: 1, Column: 1}
		if bad := firstErrorNode(root); bad != nil {
			point := bad.StartPoint()
			syntaxErr.Line = int(point.Row) + 1
			syntaxErr.Column = int(point.Column) + 1
		}
		syntaxErr.Line += lineOffset
		return sourceTree{}, syntaxErr
	}
	return sourceTree{tree: tree, content: content}, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

func walkNode(node *sitter.Node, visit func(*sitter.Node)) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		visit(child)
		walkNode(child, visit)
	}
}

func extractStringLiteral(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	text := nodeText(node, content)
	if len(text) < 2 {
		return "", false
	}
	quote := text[0]
	if (quote == '"' || quote == '\'' || quote == '`') && text[len(text)-1] == quote {
		return text[1 : len(text)-1], true
	}
	return "", false
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

func firstNamedChildOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		for _, typ := range types {
			if child.Type() == typ {
				return child
			}
		}
	}
	return nil
}

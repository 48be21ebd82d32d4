package js

import (
	"context"
	"regexp"
	"strings"

	"github.com/ben-ranford/depsweep/internal/language"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script\s*>`)
	scriptLangPattern  = regexp.MustCompile(`(?i)\blang\s*=\s*["']?(ts|typescript)["'\s>]?`)
)

// componentParser parses the <script> blocks of single-file components
// (Vue, Svelte). Markup and styles are ignored.
type componentParser struct {
	id   string
	kind language.ParserKind
}

func (p *componentParser) ID() string                { return p.id }
func (p *componentParser) Kind() language.ParserKind { return p.kind }

func (p *componentParser) Parse(ctx context.Context, in language.ParseInput) (language.Parsed, error) {
	blocks := scriptBlocks(in.Content)
	tree := &SyntaxTree{sources: make([]sourceTree, 0, len(blocks))}
	for _, block := range blocks {
		source, err := parseSource(ctx, block.language(), in.Path, block.content, block.line-1)
		if err != nil {
			return language.Parsed{}, err
		}
		tree.sources = append(tree.sources, source)
	}
	return language.SyntaxTree(tree), nil
}

type scriptBlock struct {
	content    []byte
	typescript bool
	line       int
}

func (b scriptBlock) language() *sitter.Language {
	if b.typescript {
		return tslang.GetLanguage()
	}
	return javascript.GetLanguage()
}

func scriptBlocks(content []byte) []scriptBlock {
	matches := scriptBlockPattern.FindAllSubmatchIndex(content, -1)
	blocks := make([]scriptBlock, 0, len(matches))
	for _, match := range matches {
		attrs := content[match[2]:match[3]]
		body := content[match[4]:match[5]]
		blocks = append(blocks, scriptBlock{
			content:    body,
			typescript: scriptLangPattern.Match(attrs),
			line:       1 + strings.Count(string(content[:match[4]]), "\n"),
		})
	}
	return blocks
}

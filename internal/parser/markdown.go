package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/aggregator/internal/bundle"
)

// MarkdownParser reads markdown aggregates through the goldmark AST
type MarkdownParser struct {
	markdown goldmark.Markdown
}

func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// headingFilePrefix is the heading text that names a section
var headingFilePrefix = strings.TrimPrefix(bundle.MarkdownHeadingPrefix, "## ")

// Parse pairs each level-2 "File:" heading with the fenced code block that
// follows it. Other nodes between the two are ignored.
func (p *MarkdownParser) Parse(r io.Reader) ([]Section, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	doc := p.markdown.Parser().Parse(text.NewReader(source))

	var sections []Section
	var pending string
	var havePending bool

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 {
				continue
			}
			heading := strings.TrimSpace(linesValue(node.Lines(), source))
			path, ok := strings.CutPrefix(heading, headingFilePrefix)
			if !ok {
				continue
			}
			if havePending {
				return nil, fmt.Errorf("section %s has no code block", pending)
			}
			pending, havePending = path, true

		case *ast.FencedCodeBlock:
			if !havePending {
				continue
			}
			sections = append(sections, Section{Path: pending, Content: linesValue(node.Lines(), source)})
			havePending = false
		}
	}

	if havePending {
		return nil, fmt.Errorf("section %s has no code block", pending)
	}

	return sections, nil
}

// linesValue concatenates the raw source of a block's lines
func linesValue(lines *text.Segments, source []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}

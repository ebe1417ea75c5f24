// Package parser reads aggregate files back into their sections.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/aggregator/internal/bundle"
)

// Format represents the layout of an aggregate file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported layout
	FormatUnknown Format = iota
	// FormatText represents comment-delimited sections
	FormatText
	// FormatMarkdown represents "## File:" headings with fenced code blocks
	FormatMarkdown
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Section is one source file recovered from an aggregate
type Section struct {
	Path    string
	Content string
}

// Aggregate is a parsed aggregate file
type Aggregate struct {
	Path     string
	Format   Format
	Sections []Section
}

// Bytes returns the total content size of all sections
func (a *Aggregate) Bytes() int {
	total := 0
	for _, s := range a.Sections {
		total += len(s.Content)
	}
	return total
}

// Parser is the interface that all aggregate parsers implement
type Parser interface {
	// Parse reads from an io.Reader and returns the sections in file order
	Parse(r io.Reader) ([]Section, error)
}

// DetectFormat picks the layout from the file extension, falling back to the
// first bytes of the file:
//   - .md, .markdown -> FormatMarkdown
//   - content starting with "## File: " -> FormatMarkdown
//   - everything else -> FormatText
func DetectFormat(filename string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}
	if bytes.HasPrefix(bytes.TrimLeft(head, "\r\n"), []byte(bundle.MarkdownHeadingPrefix)) {
		return FormatMarkdown
	}
	return FormatText
}

// NewParser creates a new parser instance for the specified format
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatText:
		return NewTextParser(), nil
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile detects the layout of the aggregate at path and parses it
func ParseFile(path string) (*Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aggregate: %w", err)
	}

	format := DetectFormat(path, data)
	parser, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	sections, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", path, format, err)
	}

	return &Aggregate{Path: path, Format: format, Sections: sections}, nil
}

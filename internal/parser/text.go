package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/aggregator/internal/bundle"
)

// TextParser reads comment-delimited aggregates
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

var (
	// sectionStart opens every text section
	sectionStart = "\n" + bundle.Delimiter + "\n" + bundle.HeaderPrefix
	// headerEnd closes the header and precedes the content
	headerEnd = bundle.Delimiter + "\n\n"
)

// Parse splits the aggregate at section headers. Content is everything between
// a header and the next one, minus the single newline the writer appends, so a
// file whose content itself contains a complete section header cannot be told
// apart from two files.
func (p *TextParser) Parse(r io.Reader) ([]Section, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	src := string(data)

	var sections []Section
	pos := 0
	for pos < len(src) {
		if !strings.HasPrefix(src[pos:], sectionStart) {
			return nil, fmt.Errorf("offset %d: expected section header", pos)
		}
		pos += len(sectionStart)

		nl := strings.IndexByte(src[pos:], '\n')
		if nl < 0 {
			return nil, fmt.Errorf("offset %d: unterminated header", pos)
		}
		path := src[pos : pos+nl]
		pos += nl + 1

		if !strings.HasPrefix(src[pos:], headerEnd) {
			return nil, fmt.Errorf("offset %d: malformed header for %s", pos, path)
		}
		pos += len(headerEnd)

		// The content's trailing newline is the first byte of the separator
		next := strings.Index(src[pos:], "\n"+sectionStart)
		var content string
		if next < 0 {
			if len(src) < pos+1 || !strings.HasSuffix(src, "\n") {
				return nil, fmt.Errorf("section %s: missing trailing newline", path)
			}
			content = src[pos : len(src)-1]
			pos = len(src)
		} else {
			content = src[pos : pos+next]
			pos += next + 1
		}

		sections = append(sections, Section{Path: path, Content: content})
	}

	return sections, nil
}

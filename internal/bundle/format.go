package bundle

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harrison/aggregator/internal/config"
)

// Delimiter is the comment line framing every text section header
const Delimiter = "# " + "----------------------------------------"

// HeaderPrefix starts the line naming the source file of a text section
const HeaderPrefix = "# File: "

// MarkdownHeadingPrefix starts the heading naming the source file of a markdown section
const MarkdownHeadingPrefix = "## File: "

// Format writes one section of an aggregate output
type Format interface {
	// Name returns the configuration name of the format
	Name() string
	// WriteSection writes the section for the file at path
	WriteSection(w io.Writer, path, content string) error
}

// NewFormat returns the format registered under name
func NewFormat(name string) (Format, error) {
	switch name {
	case config.FormatText, "":
		return TextFormat{}, nil
	case config.FormatMarkdown:
		return MarkdownFormat{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

// TextFormat writes comment-delimited sections
type TextFormat struct{}

func (TextFormat) Name() string { return config.FormatText }

// WriteSection writes a blank line, the framed header, a blank line, the
// content and a trailing newline.
func (TextFormat) WriteSection(w io.Writer, path, content string) error {
	var b strings.Builder
	b.Grow(len(content) + len(path) + 2*len(Delimiter) + 16)

	b.WriteString("\n")
	b.WriteString(Delimiter + "\n")
	b.WriteString(HeaderPrefix + path + "\n")
	b.WriteString(Delimiter + "\n")
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// MarkdownFormat writes a heading and a fenced code block per file
type MarkdownFormat struct{}

func (MarkdownFormat) Name() string { return config.FormatMarkdown }

// WriteSection writes "## File: <path>" followed by the content in a fence
// longer than any backtick run inside it.
func (MarkdownFormat) WriteSection(w io.Writer, path, content string) error {
	fence := strings.Repeat("`", fenceLength(content))

	var b strings.Builder
	b.Grow(len(content) + len(path) + 2*len(fence) + 32)

	b.WriteString(MarkdownHeadingPrefix + path + "\n")
	b.WriteString("\n")
	b.WriteString(fence + languageFor(path) + "\n")
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence + "\n")
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func fenceLength(content string) int {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return 3
	}
	return longest + 1
}

// languageFor maps a file name to a fenced code block info string
func languageFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "":
		return ""
	case ".env":
		return "dotenv"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/harrison/aggregator/internal/bundle"
)

func TestTextParser_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
	}{
		{"empty aggregate", nil},
		{"single section", []Section{{Path: "x.env", Content: "KEY=1"}}},
		{"mixed endings", sampleSections},
		{"blank lines around content", []Section{
			{Path: "a.js", Content: "\n\nconst a = 1;\n\n"},
			{Path: "b.js", Content: "\n"},
		}},
		{"header lookalike without separator", []Section{
			{Path: "notes.js", Content: "# File: not/a/header.js\n" + bundle.Delimiter + "\n"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := render(t, bundle.TextFormat{}, tt.sections)
			got, err := NewTextParser().Parse(strings.NewReader(src))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.sections) {
				t.Errorf("got %+v, want %+v", got, tt.sections)
			}
		})
	}
}

func TestTextParser_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not an aggregate", "hello world\n"},
		{"unterminated header", "\n" + bundle.Delimiter + "\n# File: a.js"},
		{"missing closing delimiter", "\n" + bundle.Delimiter + "\n# File: a.js\ncontent\n"},
		{"missing trailing newline", "\n" + bundle.Delimiter + "\n# File: a.js\n" + bundle.Delimiter + "\n\ncontent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTextParser().Parse(strings.NewReader(tt.src)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

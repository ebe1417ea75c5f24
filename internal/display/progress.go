package display

import (
	"fmt"
	"io"
)

// ProgressIndicator manages multi-step progress display
type ProgressIndicator struct {
	writer  io.Writer
	title   string
	total   int
	current int
	failed  int
	colors  *palette
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, title string, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		title:  title,
		total:  total,
		colors: newPalette(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "%s:\n", p.title)
}

// Step displays progress for the current item: [N/Total] item ok|missing
func (p *ProgressIndicator) Step(item string, ok bool) {
	p.current++
	status := p.colors.success.Sprint("ok")
	if !ok {
		p.failed++
		status = p.colors.warn.Sprint("missing")
	}
	fmt.Fprintf(p.writer, "  %s %s %s\n",
		p.colors.label.Sprintf("[%d/%d]", p.current, p.total), item, status)
}

// Failed returns the number of steps reported as not ok
func (p *ProgressIndicator) Failed() int {
	return p.failed
}

// Complete displays the closing line
func (p *ProgressIndicator) Complete() {
	if p.failed == 0 {
		fmt.Fprintf(p.writer, "%s %d of %d present\n", p.colors.success.Sprint("✓"), p.current, p.total)
		return
	}
	fmt.Fprintf(p.writer, "%s %d of %d present, %d missing\n",
		p.colors.warn.Sprint("!"), p.current-p.failed, p.total, p.failed)
}

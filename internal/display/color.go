package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether colored output should be written to w.
// Only terminals get colors, and NO_COLOR disables them everywhere.
func ColorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette returns colors bound to the writer's color capability
type palette struct {
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	label   *color.Color
	muted   *color.Color
	bold    *color.Color
}

func newPalette(w io.Writer) *palette {
	p := &palette{
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		label:   color.New(color.FgCyan),
		muted:   color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
	}
	enabled := ColorEnabled(w)
	for _, c := range []*color.Color{p.success, p.warn, p.fail, p.label, p.muted, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Package output renders command results for terminals, pipes and machines.
//
// A Renderer resolves ModeAuto once: a terminal gets styled text, anything
// else gets Markdown so output pasted into issues and pull requests reads
// well. ModeJSON is always explicit.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects the output format.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode parses a configured output format. Unknown or empty values fall back
// to ModeAuto.
func Mode(s string) OutputMode {
	m := OutputMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || !m.Valid() {
		return ModeAuto
	}
	return m
}

// Modes lists the accepted values of the output flag.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Valid reports whether m is a known mode. The empty mode means auto.
func (m OutputMode) Valid() bool {
	switch m {
	case "", ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return true
	}
	return false
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(out, isTTY && mode != ModeJSON && mode != ModeMarkdown),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the styles for text output.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Header writes a top-level heading in the effective mode.
func (r *Renderer) Header(title string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Printf("# %s\n\n", title)
	case ModeJSON:
	default:
		r.Println(r.styles.Header1.Render(title))
		r.Println("")
	}
}

// StatusLine writes "<symbol> message" where the symbol reflects ok.
func (r *Renderer) StatusLine(ok bool, message string) {
	if r.EffectiveMode() == ModeMarkdown {
		mark := "x"
		if !ok {
			mark = " "
		}
		r.Printf("- [%s] %s\n", mark, message)
		return
	}
	if ok {
		r.Println(r.styles.Success.Render("✓") + " " + message)
		return
	}
	r.Println(r.styles.Error.Render("✗") + " " + message)
}

// Success writes a success message.
func (r *Renderer) Success(message string) {
	r.Println(r.styles.Success.Render(message))
}

// Warning writes a warning to the diagnostic writer.
func (r *Renderer) Warning(message string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+message))
}

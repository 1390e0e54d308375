// Package outline prints a rendered view as an indented terminal tree.
package outline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// Options control outline printing.
type Options struct {
	// Width truncates lines; zero means no truncation.
	Width int
	// Content includes cell bodies below each cell line.
	Content bool
	// Profile forces a color profile. Zero value detects it from the writer.
	Profile *termenv.Profile
}

// Printer writes outlines with a fixed color profile.
type Printer struct {
	out  *termenv.Output
	opts Options
}

// NewPrinter builds a printer for w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	var outOpts []termenv.OutputOption
	if opts.Profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*opts.Profile))
	}
	return &Printer{out: termenv.NewOutput(w, outOpts...), opts: opts}
}

// Print writes the outline of v.
func (p *Printer) Print(v *domain.View) error {
	var sb strings.Builder
	p.write(&sb, v, 0)
	_, err := io.WriteString(p.out, sb.String())
	return err
}

func (p *Printer) write(sb *strings.Builder, v *domain.View, depth int) {
	if v == nil || v.Kind == domain.ViewEmpty {
		return
	}
	indent := strings.Repeat("  ", depth)

	var marker, label string
	switch v.Kind {
	case domain.ViewContainer:
		marker = "□"
		label = p.out.String(v.NodeID).Faint().String()
	case domain.ViewFallback:
		marker = "✗"
		msg := v.NodeID
		if v.Fault != nil {
			msg = fmt.Sprintf("%s: %s", v.NodeID, v.Fault.Message)
		}
		label = p.out.String(msg).Foreground(p.out.Color("#fb7185")).String()
	default:
		marker = "▣"
		s := p.out.String(v.NodeID).Foreground(p.out.Color("#818cf8"))
		if v.HasClass(runtime.ClassFocused) {
			s = s.Bold().Underline()
		}
		label = s.String()
	}

	line := indent + marker + " " + label + p.tags(v)
	sb.WriteString(p.truncate(line))
	sb.WriteString("\n")

	if p.opts.Content && v.Content != nil && v.Content.Body != "" {
		for _, l := range strings.Split(strings.TrimRight(v.Content.Body, "\n"), "\n") {
			sb.WriteString(p.truncate(indent + "  │ " + l))
			sb.WriteString("\n")
		}
	}

	for _, c := range v.Children {
		p.write(sb, c, depth+1)
	}
	if v.Insert {
		sb.WriteString(indent + "  " + p.out.String("+ insert").Foreground(p.out.Color("#a78bfa")).String() + "\n")
	}
}

func (p *Printer) tags(v *domain.View) string {
	var tags []string
	if v.Generation > 0 {
		tags = append(tags, fmt.Sprintf("gen %d", v.Generation))
	}
	if v.Interactive {
		tags = append(tags, "interactive")
	}
	if len(tags) == 0 {
		return ""
	}
	return " " + p.out.String("("+strings.Join(tags, ", ")+")").Faint().String()
}

// truncate cuts a line to the configured visible width.
func (p *Printer) truncate(line string) string {
	if p.opts.Width <= 0 || visibleWidth(line) <= p.opts.Width {
		return line
	}
	// Styled lines are left intact; cutting through escape sequences breaks the terminal.
	if strings.ContainsRune(line, '\x1b') {
		return line
	}
	r := []rune(line)
	if p.opts.Width < 2 {
		return string(r[:p.opts.Width])
	}
	return string(r[:p.opts.Width-1]) + "…"
}

func visibleWidth(s string) int {
	return len([]rune(s))
}

// Width reports the terminal width of f, or a default when f is not a terminal.
func Width(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Package status renders user-facing console output: section banners,
// prompts and the in-place capture progress line. It writes to an injected
// writer so tests can capture output, and keeps colour concerns out of the
// rest of the application.
package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled status output.
type Printer struct {
	out    io.Writer
	banner lipgloss.Style
	prompt lipgloss.Style
	accent lipgloss.Style
}

// NewPrinter returns a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		banner: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		accent: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Banner prints a framed section title, as shown between wizard stages.
func (p *Printer) Banner(title string) {
	bar := strings.Repeat("=", len(title))
	fmt.Fprintln(p.out, p.banner.Render(bar))
	fmt.Fprintln(p.out, p.banner.Render(title))
	fmt.Fprintln(p.out, p.banner.Render(bar))
}

// Infof prints a plain status line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Promptf prints a highlighted instruction line.
func (p *Printer) Promptf(format string, args ...any) {
	fmt.Fprintln(p.out, p.prompt.Render(fmt.Sprintf(format, args...)))
}

// Progressf redraws a single progress line in place (no newline).
func (p *Printer) Progressf(format string, args ...any) {
	fmt.Fprintf(p.out, "\r"+format, args...)
}

// Donef terminates an in-place progress line with a final message.
func (p *Printer) Donef(format string, args ...any) {
	fmt.Fprintf(p.out, "\r"+format+"\n", args...)
}

// Accent returns s rendered in the printer's highlight colour.
func (p *Printer) Accent(s string) string {
	return p.accent.Render(s)
}

// Package render turns reports into coloured console output. Nothing in the
// analysis packages prints; they return data and this package lays it out.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	headingColor = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// DisableColor turns colour off for every printer.
func DisableColor() {
	color.NoColor = true
}

// Printer writes tagged lines to w.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Alert(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

// Heading prints a blank line and a section title.
func (p *Printer) Heading(title string) {
	fmt.Fprintf(p.w, "\n%s\n", headingColor("=== "+title+" ==="))
}

// Line prints text as is.
func (p *Printer) Line(text string) {
	fmt.Fprintln(p.w, text)
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/mppsolar/pkg/mppsolar"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Output formats
const (
	formatText = "text"
	formatHex  = "hex"
	formatCBOR = "cbor"
)

// ExitError carries a process exit code out of a command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for an error returned by Execute
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 2
}

// Styles
var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// isTerminal reports whether f is attached to a terminal
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorEnabled reports whether styled output should be written to w
func colorEnabled(w io.Writer) bool {
	return !noColor && isTerminal(w)
}

// painter renders styles only when color is enabled
type painter bool

func (p painter) render(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}

// resultWriter writes checksum results in the selected output format
type resultWriter struct {
	out     io.Writer
	format  string
	paint   painter
	vectors []mppsolar.Vector
}

func newResultWriter(out io.Writer, format string) *resultWriter {
	return &resultWriter{
		out:    out,
		format: format,
		paint:  painter(colorEnabled(out)),
	}
}

// Add writes or buffers one result
func (w *resultWriter) Add(name string, data []byte, sum mppsolar.Checksum) error {
	var err error
	switch w.format {
	case formatCBOR:
		w.vectors = append(w.vectors, mppsolar.Vector{Name: name, Data: data, Checksum: sum})
	case formatHex:
		_, err = fmt.Fprintln(w.out, mppsolar.FormatHex(sum.AppendTo(append([]byte(nil), data...))))
	default:
		_, err = fmt.Fprintln(w.out, w.textLine(data, sum))
	}
	return err
}

func (w *resultWriter) textLine(data []byte, sum mppsolar.Checksum) string {
	line := fmt.Sprintf("%s  %s  %s",
		w.paint.render(labelStyle, `"`+mppsolar.FormatPrintable(data)+`"`),
		w.paint.render(valueStyle, sum.String()),
		w.paint.render(mutedStyle, fmt.Sprintf("[%02X %02X]", sum.High(), sum.Low())),
	)
	if raw := mppsolar.CalculateRaw(data); raw != uint16(sum) {
		line += "  " + w.paint.render(warningStyle, fmt.Sprintf("(fixup from 0x%04X)", raw))
	}
	return line
}

// Flush writes any buffered output
func (w *resultWriter) Flush() error {
	if w.format != formatCBOR {
		return nil
	}
	data, err := mppsolar.EncodeVectors(w.vectors)
	if err != nil {
		return err
	}
	_, err = w.out.Write(data)
	return err
}

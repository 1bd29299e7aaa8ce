package fmte

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var p *message.Printer

var mx sync.Mutex // Shared mutex across stdout and stderr to ensure ordering across

var normalPrint = true

var verbosePrint = false

var stderr io.Writer = os.Stderr

var errColor *color.Color

func init() {
	p = message.NewPrinter(language.English)
	errColor = color.New(color.FgRed)
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		errColor.DisableColor()
	}
}

// Off function turns off print functions within fmte package
func Off() {
	normalPrint = false
}

// VerboseOn turns on verbose print functions within fmte package
func VerboseOn() {
	verbosePrint = true
}

// SetErrOutput redirects error output (used by tests)
func SetErrOutput(w io.Writer) {
	mx.Lock()
	stderr = w
	errColor.DisableColor()
	mx.Unlock()
}

// Printf is goroutine-safe fmt.Printf for English, to StdErr.
// StdOut is reserved for results.
func Printf(format string, a ...any) {
	if !normalPrint {
		return
	}
	mx.Lock()
	_, _ = p.Fprintf(stderr, format, a...)
	mx.Unlock()
}

// PrintfV is goroutine-safe fmt.Printf for English (Verbose mode)
func PrintfV(format string, a ...any) {
	if normalPrint && verbosePrint {
		mx.Lock()
		_, _ = p.Fprintf(stderr, format, a...)
		mx.Unlock()
	}
}

// PrintfErr is goroutine-safe fmt.Printf to StdErr for English, in red on terminals
func PrintfErr(format string, a ...any) {
	mx.Lock()
	_, _ = errColor.Fprint(stderr, p.Sprintf(format, a...))
	mx.Unlock()
}

// Errors combines multiple errors into one
func Errors(message string, errs []error) error {
	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString(": ")
	for i, err := range errs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(err.Error())
	}
	return errors.New(sb.String())
}

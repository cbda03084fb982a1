// Package presenter provides consistent user-facing CLI output with color
// support and a quiet mode. Informational output goes to stdout, errors and
// warnings to stderr.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// New creates a Presenter writing to stdout/stderr, honoring NO_COLOR and
// MINDREG_COLOR=never|always.
func New() *Presenter {
	configureColor()
	return &Presenter{out: os.Stdout, errOut: os.Stderr}
}

// NewWithWriters creates a Presenter with custom writers, mainly for tests.
func NewWithWriters(out, errOut io.Writer) *Presenter {
	return &Presenter{out: out, errOut: errOut}
}

func configureColor() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	switch os.Getenv("MINDREG_COLOR") {
	case "always", "force":
		color.NoColor = false
	case "never", "off":
		color.NoColor = true
	}
}

// SetQuiet suppresses Info and Success output.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Error writes an error with optional context to stderr.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errOut, "[ERROR] %s: %v\n", context, err)
	} else {
		c.Fprintf(p.errOut, "[ERROR] %v\n", err)
	}
}

// Warning writes a warning to stderr.
func (p *Presenter) Warning(message string) {
	color.New(color.FgYellow).Fprintf(p.errOut, "[WARNING] %s\n", message)
}

// Success writes a success message to stdout.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "%s\n", message)
}

// Info writes an informational message to stdout.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, message)
}

// Section writes a section header to stdout.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
}

var defaultPresenter = New()

// Error writes an error via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Warning writes a warning via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Success writes a success message via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Info writes an informational message via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section writes a section header via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }

package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// Logger provides styled, tagged logging to stderr.
type Logger struct {
	out   io.Writer
	isTTY bool
}

// NewLogger creates a logger writing to stderr.
func NewLogger() *Logger {
	return &Logger{out: os.Stderr, isTTY: IsStderrTTY()}
}

// NewLoggerTo creates a logger writing to w, for tests.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{out: w}
}

// Log prints a styled log message.
func (l *Logger) Log(msg string, style Style) {
	styleColor := Cyan
	switch style {
	case StyleInfo:
		styleColor = Cyan
	case StyleSuccess:
		styleColor = Green
	case StyleWarning:
		styleColor = Yellow
	case StyleError:
		styleColor = Red
	case StyleDim:
		styleColor = Dim
	case StylePhase:
		styleColor = Magenta + Bold
	}

	// Clear any spinner residue before printing.
	if l.isTTY {
		fmt.Fprint(l.out, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	tag := fmt.Sprintf("%s[%s%sazr%s%s]%s",
		Color(Dim), Color(Reset), Color(styleColor), Color(Reset), Color(Dim), Color(Reset))
	fmt.Fprintf(l.out, "%s %s\n", tag, msg)
}

// Logf prints a formatted styled log message.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

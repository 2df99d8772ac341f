// Package terminal restores a usable terminal after the UI exits abnormally
package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Restore sequences, written in this order
var (
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseSGROff    = []byte("\x1b[?1006l")
	csiCursorShow     = []byte("\x1b[?25h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	csiSGR0           = []byte("\x1b[0m")
	csiAutoWrapOn     = []byte("\x1b[?7h")
)

// EmergencyReset disables mouse reporting, leaves the alternate screen and restores cooked mode
func EmergencyReset(w io.Writer) {
	for _, seq := range [][]byte{
		csiMouseMotionOff, csiMouseDragOff, csiMouseClickOff, csiMouseSGROff,
		csiCursorShow, csiAltScreenExit, csiSGR0, csiAutoWrapOn,
	} {
		w.Write(seq)
	}

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios, best-effort in crash context
	resetTerminalMode()
}

// ReportCrash resets the terminal and prints the panic value with a stack trace
func ReportCrash(name string, r any) {
	EmergencyReset(os.Stdout)
	// \r\n for raw mode compatibility
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", name, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()
}

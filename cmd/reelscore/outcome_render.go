package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// colorizeStatus wraps a lifecycle state in ANSI color when the writer is a
// terminal: green for completed, yellow for review or skipped, red for
// failed. Non-terminal writers get the plain text for clean piping.
func colorizeStatus(writer io.Writer, status, text string) string {
	if !shouldColorize(writer) {
		return text
	}
	switch status {
	case "completed":
		return ansiGreen + text + ansiReset
	case "failed":
		return ansiRed + text + ansiReset
	case "review":
		return ansiYellow + text + ansiReset
	default:
		return text
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

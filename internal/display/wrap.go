package display

import "github.com/muesli/reflow/wordwrap"

// DefaultWidth is the wrap column for console transports.
const DefaultWidth = 80

// Wrap word-wraps text at DefaultWidth. ANSI escape sequences pass
// through the wrapping untouched.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

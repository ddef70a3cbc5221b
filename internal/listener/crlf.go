package listener

import (
	"bytes"
	"io"
)

// lineEndings adapts a raw terminal stream so the rest of the code only
// ever sees \n. Telnet clients send \r\n, SSH clients without a PTY send
// bare \r, and both expect \r\n back on the wire.
type lineEndings struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &lineEndings{rw: rw}
}

func (le *lineEndings) Read(p []byte) (int, error) {
	n, err := le.rw.Read(p)
	if n == 0 {
		return n, err
	}
	normalized := bytes.ReplaceAll(p[:n], []byte("\r\n"), []byte("\n"))
	normalized = bytes.ReplaceAll(normalized, []byte("\r"), []byte("\n"))
	return copy(p, normalized), err
}

func (le *lineEndings) Write(p []byte) (int, error) {
	_, err := le.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return 0, err
	}
	// Report the caller's length, not the expanded one.
	return len(p), nil
}

package listener

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestPromptReturnsValidatedInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\nRex\n"))
	var out bytes.Buffer

	got, err := Prompt(in, &out, "name? ", WithValidator(
		func(str string) (bool, string) {
			if str == "" {
				return false, "need a name\n"
			}
			return true, ""
		},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "input", got, "Rex")
	if !strings.Contains(out.String(), "need a name") {
		t.Fatalf("expected validation message, got %q", out.String())
	}
}

func TestPromptMaxTries(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n\n\n"))
	var out bytes.Buffer

	_, err := Prompt(in, &out, "name? ",
		WithValidator(func(str string) (bool, string) { return false, "no\n" }),
		WithMaxTries(2),
	)
	testutil.AssertErrorContains(t, err, "too many tries")
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := newCRLFReadWriter(&readWriter{r: strings.NewReader("hi\r\nthere\r"), w: &buf})

	n, err := rw.Write([]byte("a\nb\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reported length", n, 4)
	testutil.AssertEqual(t, "converted", buf.String(), "a\r\nb\r\n")

	p := make([]byte, 16)
	n, _ = rw.Read(p)
	testutil.AssertEqual(t, "normalized", string(p[:n]), "hi\nthere\n")
}

type readWriter struct {
	r *strings.Reader
	w *bytes.Buffer
}

func (rw *readWriter) Read(p []byte) (int, error)  { return rw.r.Read(p) }
func (rw *readWriter) Write(p []byte) (int, error) { return rw.w.Write(p) }

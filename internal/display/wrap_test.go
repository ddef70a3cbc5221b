package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWrap(t *testing.T) {
	long := strings.Repeat("coconut ", 20)
	for _, line := range strings.Split(Wrap(long), "\n") {
		if len(line) > DefaultWidth {
			t.Fatalf("line longer than %d: %q", DefaultWidth, line)
		}
	}
}

func TestCanonicalName(t *testing.T) {
	testutil.AssertEqual(t, "lowercase", CanonicalName("rex"), "Rex")
	testutil.AssertEqual(t, "shouting", CanonicalName("REX THE BOLD"), "Rex The Bold")
	testutil.AssertEqual(t, "messy spacing", CanonicalName("  rex   the bold "), "Rex The Bold")
	testutil.AssertEqual(t, "already canonical", CanonicalName("Rex"), "Rex")
	testutil.AssertEqual(t, "empty", CanonicalName(""), "")
}

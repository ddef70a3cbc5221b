package world

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
		ok    bool
	}{
		{"n", North, true},
		{"north", North, true},
		{"NORTH", North, true},
		{" s ", South, true},
		{"e", East, true},
		{"west", West, true},
		{"up", North, false},
		{"", North, false},
	}

	for _, tt := range tests {
		got, ok := ParseDirection(tt.input)
		testutil.AssertEqual(t, "ok for "+tt.input, ok, tt.ok)
		if tt.ok {
			testutil.AssertEqual(t, "direction for "+tt.input, got, tt.want)
		}
	}
}

func TestStep(t *testing.T) {
	c := Coords{2, 2}
	testutil.AssertEqual(t, "north", c.Step(North), Coords{2, 1})
	testutil.AssertEqual(t, "south", c.Step(South), Coords{2, 3})
	testutil.AssertEqual(t, "east", c.Step(East), Coords{3, 2})
	testutil.AssertEqual(t, "west", c.Step(West), Coords{1, 2})
}

func TestStepReversible(t *testing.T) {
	c := Coords{7, -3}
	for _, d := range Directions {
		testutil.AssertEqual(t, d.String()+" then back", c.Step(d).Step(d.Opposite()), c)
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		c    Coords
		want bool
	}{
		{Coords{0, 0}, true},
		{Coords{180, 90}, true},
		{Coords{-180, -90}, true},
		{Coords{181, 0}, false},
		{Coords{0, 91}, false},
		{Coords{-181, 0}, false},
		{Coords{0, -91}, false},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, tt.c.String(), tt.c.InBounds(), tt.want)
	}
}

func TestParseCoords(t *testing.T) {
	c, err := ParseCoords("10,-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "coords", c, Coords{10, -5})

	for _, bad := range []string{"", "10", "a,b", "1;2"} {
		if _, err := ParseCoords(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDirectionBetween(t *testing.T) {
	d, ok := DirectionBetween(Coords{2, 2}, Coords{2, 1})
	testutil.AssertEqual(t, "adjacent ok", ok, true)
	testutil.AssertEqual(t, "adjacent dir", d, North)

	_, ok = DirectionBetween(Coords{2, 2}, Coords{4, 2})
	testutil.AssertEqual(t, "non-adjacent", ok, false)
}

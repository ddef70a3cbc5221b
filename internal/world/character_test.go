package world

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCharacterTake(t *testing.T) {
	tests := []struct {
		name        string
		carried     int
		request     int
		wantGranted int
		wantCarried int
	}{
		{"empty handed", 0, 4, 4, 4},
		{"partial capacity", 8, 5, 2, MaxCarry},
		{"at capacity", MaxCarry, 3, 0, MaxCarry},
		{"exact fit", 6, 4, 4, MaxCarry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Character{Coconuts: tt.carried}
			granted := c.Take(tt.request)
			testutil.AssertEqual(t, "granted", granted, tt.wantGranted)
			testutil.AssertEqual(t, "carried", c.Coconuts, tt.wantCarried)
		})
	}
}

func TestCharacterDeposit(t *testing.T) {
	c := &Character{Coconuts: 4, CoconutsReturned: 7}
	n := c.Deposit()
	testutil.AssertEqual(t, "deposited", n, 4)
	testutil.AssertEqual(t, "carried", c.Coconuts, 0)
	testutil.AssertEqual(t, "lifetime", c.CoconutsReturned, 11)
}

func TestCharacterDiscard(t *testing.T) {
	c := &Character{Coconuts: 3, CoconutsReturned: 2}
	n := c.Discard()
	testutil.AssertEqual(t, "discarded", n, 3)
	testutil.AssertEqual(t, "carried", c.Coconuts, 0)
	testutil.AssertEqual(t, "lifetime unchanged", c.CoconutsReturned, 2)
}

func TestConfirmName(t *testing.T) {
	c := &Character{Room: Coords{5, 5}}
	c.ProposeName("Rex")
	testutil.AssertEqual(t, "pending", c.NamePending, "Rex")

	c.ConfirmName()
	testutil.AssertEqual(t, "name", c.Name, "Rex")
	testutil.AssertEqual(t, "pending cleared", c.NamePending, "")
	testutil.AssertEqual(t, "placed at origin", c.Room, Origin)
}

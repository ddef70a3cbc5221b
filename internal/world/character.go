package world

// MaxCarry is the most coconuts a character can hold at once.
const MaxCarry = 10

// Character is a playable avatar, exclusively owned by its user.
type Character struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Type indexes the character-type roster in the asset catalog.
	Type int `json:"type"`

	// Name is empty until the player confirms it. NamePending holds the
	// candidate awaiting confirmation.
	Name        string `json:"name,omitempty"`
	NamePending string `json:"name_pending,omitempty"`

	Room Coords `json:"room"`

	Coconuts         int `json:"coconuts"`
	CoconutsReturned int `json:"coconuts_returned"`
}

// ProposeName stores a candidate name awaiting confirmation.
func (c *Character) ProposeName(name string) {
	c.NamePending = name
}

// ConfirmName commits the pending name and places the character at the
// origin, ready for play.
func (c *Character) ConfirmName() {
	c.Name = c.NamePending
	c.NamePending = ""
	c.Room = Origin
}

// Take adds up to n coconuts, respecting the carry limit, and returns how
// many were actually taken.
func (c *Character) Take(n int) int {
	granted := n
	if room := MaxCarry - c.Coconuts; granted > room {
		granted = room
	}
	if granted < 0 {
		granted = 0
	}
	c.Coconuts += granted
	return granted
}

// Deposit converts everything carried into lifetime score and returns the
// amount deposited.
func (c *Character) Deposit() int {
	n := c.Coconuts
	c.Coconuts = 0
	c.CoconutsReturned += n
	return n
}

// Discard drops everything carried on the ground. Nothing is created in the
// room; the coconuts are simply gone.
func (c *Character) Discard() int {
	n := c.Coconuts
	c.Coconuts = 0
	return n
}

package world

import "strings"

// Room interior dimensions in tiles. Object placement and scene layout both
// work on this grid.
const (
	RoomWidth  = 32
	RoomHeight = 24
)

// Object is an item instance placed in a room. Positions and bounding boxes
// are in tile units.
type Object struct {
	// Name references the item template this object was stamped from.
	Name string `json:"name"`

	// X, Y is the visual anchor of the sprite, offset from the bounding
	// box by the template's anchor offset.
	X int `json:"x"`
	Y int `json:"y"`

	// Axis-aligned bounding box, inclusive on both edges.
	BXMin int `json:"bxmin"`
	BXMax int `json:"bxmax"`
	BYMin int `json:"bymin"`
	BYMax int `json:"bymax"`

	Nouns   []string `json:"nouns,omitempty"`
	CanTake bool     `json:"can_take,omitempty"`

	// Count is the stack quantity for stackable objects (coconut piles).
	// Zero means the object is not stackable.
	Count int `json:"count,omitempty"`
}

// Matches reports whether the given word refers to this object.
func (o *Object) Matches(noun string) bool {
	noun = strings.ToLower(noun)
	for _, n := range o.Nouns {
		if strings.ToLower(n) == noun {
			return true
		}
	}
	return false
}

// Room is the object layout at one grid coordinate. The layout is generated
// once, persisted, and fixed for the lifetime of the world thereafter;
// only take/drop mutate the object list, guarded by Version.
type Room struct {
	Coords  Coords   `json:"coords"`
	Objects []Object `json:"objects"`

	// Version guards compare-and-swap updates of the object list.
	Version int64 `json:"version"`
}

// Move is one append-only traversal record. It is never mutated or replayed;
// it is only aggregated into per-edge usage counts for rendering.
type Move struct {
	CharacterID string `json:"character_id"`
	From        Coords `json:"from"`
	To          Coords `json:"to"`
}

package assets

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// ItemClass selects which generator pass may place a template.
type ItemClass string

const (
	// ClassBackdrop templates are only hand-placed by the crash-site
	// special cases and never enter collision placement.
	ClassBackdrop ItemClass = "backdrop"
	// ClassLarge templates are multi-tile decorations (trees, big ferns).
	ClassLarge ItemClass = "large"
	// ClassSmall templates are one-or-few-tile decorations.
	ClassSmall ItemClass = "small"
	// ClassStation templates convert carried coconuts into score.
	ClassStation ItemClass = "station"
	// ClassCollectible templates are takeable stacks.
	ClassCollectible ItemClass = "collectible"
	// ClassCreature templates are rare wandering-creature decorations.
	ClassCreature ItemClass = "creature"
)

var knownClasses = map[ItemClass]bool{
	ClassBackdrop:    true,
	ClassLarge:       true,
	ClassSmall:       true,
	ClassStation:     true,
	ClassCollectible: true,
	ClassCreature:    true,
}

// ItemTemplate describes a placeable sprite: its bounding-box footprint in
// tiles, the anchor offset aligning the art with the box, and how free-text
// commands may refer to instances of it. Templates are immutable; they are
// loaded once at process start.
type ItemTemplate struct {
	Sprite string    `json:"sprite"`
	Class  ItemClass `json:"class"`

	// Family groups templates for the room-description census
	// (tree, rock, grass, fern).
	Family string `json:"family,omitempty"`

	// Footprint in tiles.
	Width  int `json:"bw"`
	Height int `json:"bh"`

	// Anchor offset from the bounding box to the sprite's visual position.
	OffsetX int `json:"bx"`
	OffsetY int `json:"by"`

	Nouns    []string `json:"nouns,omitempty"`
	CanTake  bool     `json:"can_take,omitempty"`
	HasCount bool     `json:"has_count,omitempty"`
}

func (t *ItemTemplate) Validate() error {
	el := errors.NewErrorList()

	if t.Sprite == "" {
		el.Add(fmt.Errorf("sprite is required"))
	}
	if !knownClasses[t.Class] {
		el.Add(fmt.Errorf("unknown class %q", t.Class))
	}
	if t.Width < 1 || t.Height < 1 {
		el.Add(fmt.Errorf("footprint must be at least 1x1 tile"))
	}
	if t.CanTake && len(t.Nouns) == 0 {
		el.Add(fmt.Errorf("takeable items need at least one noun"))
	}

	return el.Err()
}

// CharacterType is one entry in the fixed roster of playable avatars.
type CharacterType struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

func (t *CharacterType) Validate() error {
	el := errors.NewErrorList()

	if t.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if t.Sprite == "" {
		el.Add(fmt.Errorf("sprite is required"))
	}

	return el.Err()
}

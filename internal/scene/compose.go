// Package scene turns a room, its occupants, and its traffic counts into a
// rendered image. Composition builds a strict back-to-front layer list;
// rendering flattens it onto the background canvas.
package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/world"
)

// occupantRadius is how far, in pixels, other occupants are drawn from the
// room center. The angle is random per render so bystanders drift around the
// viewer with every look.
const occupantRadius = 60

// Layer is one sprite placed on the canvas. Layers earlier in a slice are
// drawn first, so later layers cover them.
type Layer struct {
	Sprite *assets.Sprite
	Left   int
	Top    int
}

type Composer struct {
	catalog *assets.Catalog
	rng     *rand.Rand
}

type Option func(*Composer)

// WithRand replaces the occupant-jitter source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(c *Composer) {
		c.rng = rng
	}
}

func NewComposer(catalog *assets.Catalog, opts ...Option) *Composer {
	c := &Composer{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the layer list for the viewer's room:
//
//  1. background
//  2. objects whose bottom edge sits in the top half of the room
//  3. path decorations on edges with traffic
//  4. the viewer centered, other occupants jittered around the center
//  5. objects whose bottom edge sits in the bottom half
//
// A sprite name missing from the catalog is a content bug, not a state the
// game recovers from, so it surfaces as an error rather than a blank layer.
func (c *Composer) Compose(viewer *world.Character, room *world.Room, others []*world.Character, usage map[world.Direction]int) ([]Layer, error) {
	bg, ok := c.catalog.Sprite(assets.BackgroundSprite)
	if !ok {
		return nil, fmt.Errorf("missing background sprite %q", assets.BackgroundSprite)
	}

	layers := []Layer{{Sprite: bg}}

	var front []Layer
	for _, obj := range room.Objects {
		layer, err := c.objectLayer(obj)
		if err != nil {
			return nil, err
		}
		if obj.BYMax < world.RoomHeight/2 {
			layers = append(layers, layer)
		} else {
			front = append(front, layer)
		}
	}

	paths, err := c.pathLayers(bg, usage)
	if err != nil {
		return nil, err
	}
	layers = append(layers, paths...)

	chars, err := c.characterLayers(bg, viewer, others)
	if err != nil {
		return nil, err
	}
	layers = append(layers, chars...)

	return append(layers, front...), nil
}

func (c *Composer) objectLayer(obj world.Object) (Layer, error) {
	tpl := c.catalog.Item(obj.Name)
	if tpl == nil {
		return Layer{}, fmt.Errorf("object %q has no item template", obj.Name)
	}
	sprite, ok := c.catalog.Sprite(tpl.Sprite)
	if !ok {
		return Layer{}, fmt.Errorf("object %q references missing sprite %q", obj.Name, tpl.Sprite)
	}
	return Layer{
		Sprite: sprite,
		Left:   obj.X * assets.TileSize,
		Top:    obj.Y * assets.TileSize,
	}, nil
}

// pathLayers anchors a path decoration at the midpoint of each edge that has
// seen traffic, picking the sprite variant for the edge's intensity.
func (c *Composer) pathLayers(bg *assets.Sprite, usage map[world.Direction]int) ([]Layer, error) {
	var layers []Layer
	for _, d := range []world.Direction{world.North, world.South, world.East, world.West} {
		intensity := usage[d]
		if intensity <= 0 {
			continue
		}
		if intensity > c.catalog.PathVariants() {
			intensity = c.catalog.PathVariants()
		}
		if intensity == 0 {
			continue
		}

		name := c.catalog.PathSprite(d, intensity)
		sprite, ok := c.catalog.Sprite(name)
		if !ok {
			return nil, fmt.Errorf("missing path sprite %q", name)
		}

		layer := Layer{Sprite: sprite}
		switch d {
		case world.North:
			layer.Left = bg.Width/2 - sprite.Width/2
		case world.South:
			layer.Left = bg.Width/2 - sprite.Width/2
			layer.Top = bg.Height - sprite.Height
		case world.East:
			layer.Left = bg.Width - sprite.Width
			layer.Top = bg.Height/2 - sprite.Height/2
		case world.West:
			layer.Top = bg.Height/2 - sprite.Height/2
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func (c *Composer) characterLayers(bg *assets.Sprite, viewer *world.Character, others []*world.Character) ([]Layer, error) {
	cx, cy := bg.Width/2, bg.Height/2

	var layers []Layer
	for _, other := range others {
		sprite, err := c.characterSprite(other)
		if err != nil {
			return nil, err
		}
		angle := c.rng.Float64() * 2 * math.Pi
		layers = append(layers, Layer{
			Sprite: sprite,
			Left:   cx + int(math.Round(occupantRadius*math.Cos(angle))) - sprite.Width/2,
			Top:    cy + int(math.Round(occupantRadius*math.Sin(angle))) - sprite.Height/2,
		})
	}

	sprite, err := c.characterSprite(viewer)
	if err != nil {
		return nil, err
	}
	layers = append(layers, Layer{
		Sprite: sprite,
		Left:   cx - sprite.Width/2,
		Top:    cy - sprite.Height/2,
	})

	return layers, nil
}

func (c *Composer) characterSprite(char *world.Character) (*assets.Sprite, error) {
	ct, ok := c.catalog.CharacterType(char.Type)
	if !ok {
		return nil, fmt.Errorf("character %q has unknown type %d", char.ID, char.Type)
	}
	sprite, ok := c.catalog.Sprite(ct.Sprite)
	if !ok {
		return nil, fmt.Errorf("character type %q references missing sprite %q", ct.Name, ct.Sprite)
	}
	return sprite, nil
}

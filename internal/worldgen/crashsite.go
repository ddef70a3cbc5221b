package worldgen

import (
	"github.com/funmud/funmud/internal/world"
)

// Backdrop template ids the crash-site rooms are authored with. They must
// exist in the item catalog with class "backdrop".
const (
	backdropShip  = "ship"
	backdropSurf  = "surf"
	backdropCliff = "cliff"
)

// crashSiteObjects returns the hand-authored backdrops for the fixed
// neighborhood around the origin. These span the whole room or one half and
// never enter collision placement; trial-placed decorations may legally
// abut or overlap them visually.
func (g *Generator) crashSiteObjects(c world.Coords) []world.Object {
	span := func(id string, x0, x1, y0, y1 int) world.Object {
		tpl := g.catalog.Item(id)
		obj := world.Object{
			Name:  id,
			X:     x0,
			Y:     y0,
			BXMin: x0,
			BXMax: x1,
			BYMin: y0,
			BYMax: y1,
		}
		if tpl != nil {
			obj.X += tpl.OffsetX
			obj.Y += tpl.OffsetY
			obj.Nouns = tpl.Nouns
		}
		return obj
	}

	switch c {
	case world.Coords{X: 0, Y: 0}:
		// The wrecked ship fills the top half of the crash site; it is
		// also why the edge north of here is impassable.
		return []world.Object{span(backdropShip, 0, world.RoomWidth-1, 0, world.RoomHeight/2-1)}
	case world.Coords{X: 0, Y: -1}:
		// Seen from the ridge above, the ship blocks the bottom half.
		return []world.Object{span(backdropShip, 0, world.RoomWidth-1, world.RoomHeight/2, world.RoomHeight-1)}
	case world.Coords{X: -1, Y: 0}:
		return []world.Object{span(backdropSurf, 0, world.RoomWidth/2-1, 0, world.RoomHeight-1)}
	case world.Coords{X: 1, Y: 0}:
		return []world.Object{span(backdropCliff, world.RoomWidth/2, world.RoomWidth-1, 0, world.RoomHeight-1)}
	}

	return nil
}

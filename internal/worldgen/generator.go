// Package worldgen populates rooms on first visit: trial-placed
// decorations on a per-tile collision grid, plus the hand-authored crash
// site around the origin.
package worldgen

import (
	"math/rand/v2"
	"sort"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/world"
)

const (
	// Placement keeps a one-tile margin from the room edge.
	placementMargin = 1

	// Requested placement counts per pass. Failed trials are dropped, not
	// retried, so actual counts come out at or below these.
	maxLargePlacements = 3
	minSmallPlacements = 10
	maxSmallPlacements = 100

	// Rooms inside this radius of the origin never get stations,
	// collectibles, or creatures.
	startRegionRadius = 2

	stationChance     = 0.10
	collectibleChance = 0.15
	creatureChance    = 0.03

	maxCollectibleStacks = 5
	maxStackCount        = 4
)

type Generator struct {
	catalog *assets.Catalog
	rng     *rand.Rand

	large        []string
	small        []string
	stations     []string
	collectibles []string
	creatures    []string
}

type Option func(*Generator)

// WithRand replaces the random source, for deterministic generation.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

func New(catalog *assets.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	// Stable class buckets so a seeded generator is reproducible.
	ids := make([]string, 0, len(catalog.Items()))
	for id := range catalog.Items() {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		switch catalog.Item(id).Class {
		case assets.ClassLarge:
			g.large = append(g.large, id)
		case assets.ClassSmall:
			g.small = append(g.small, id)
		case assets.ClassStation:
			g.stations = append(g.stations, id)
		case assets.ClassCollectible:
			g.collectibles = append(g.collectibles, id)
		case assets.ClassCreature:
			g.creatures = append(g.creatures, id)
		}
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate lays out the room at the given coordinate. It is a pure function
// of the coordinate and the generator's random source; callers persist the
// result with first-writer-wins semantics so a coordinate is only ever
// populated once.
func (g *Generator) Generate(c world.Coords) *world.Room {
	grid := &tileGrid{}
	objects := g.crashSiteObjects(c)

	for i, n := 0, g.rng.IntN(maxLargePlacements+1); i < n; i++ {
		if len(g.large) == 0 {
			break
		}
		id := g.large[g.rng.IntN(len(g.large))]
		if obj, ok := g.tryPlace(grid, id, fullInterior); ok {
			objects = append(objects, obj)
		}
	}

	for i, n := 0, minSmallPlacements+g.rng.IntN(maxSmallPlacements-minSmallPlacements+1); i < n; i++ {
		if len(g.small) == 0 {
			break
		}
		id := g.small[g.rng.IntN(len(g.small))]
		if obj, ok := g.tryPlace(grid, id, fullInterior); ok {
			objects = append(objects, obj)
		}
	}

	if !inStartRegion(c) {
		if len(g.stations) > 0 && g.rng.Float64() < stationChance {
			id := g.stations[g.rng.IntN(len(g.stations))]
			half := leftHalf
			if g.rng.IntN(2) == 1 {
				half = rightHalf
			}
			if obj, ok := g.tryPlace(grid, id, half); ok {
				objects = append(objects, obj)
			}
		}

		if len(g.collectibles) > 0 && g.rng.Float64() < collectibleChance {
			id := g.collectibles[g.rng.IntN(len(g.collectibles))]
			stacks := 1 + g.rng.IntN(maxCollectibleStacks)
			for i := 0; i < stacks; i++ {
				obj, ok := g.tryPlace(grid, id, fullInterior)
				if !ok {
					continue
				}
				if g.catalog.Item(id).HasCount {
					obj.Count = 1 + g.rng.IntN(maxStackCount)
				}
				objects = append(objects, obj)
			}
		}

		if len(g.creatures) > 0 && g.rng.Float64() < creatureChance {
			id := g.creatures[g.rng.IntN(len(g.creatures))]
			if obj, ok := g.tryPlace(grid, id, fullInterior); ok {
				objects = append(objects, obj)
			}
		}
	}

	// The composer depends on this ordering for front/back layering.
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].BYMax < objects[j].BYMax
	})

	return &world.Room{Coords: c, Objects: objects}
}

func inStartRegion(c world.Coords) bool {
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	return abs(c.X) <= startRegionRadius && abs(c.Y) <= startRegionRadius
}

// placementZone restricts the horizontal range trial anchors are drawn from.
type placementZone int

const (
	fullInterior placementZone = iota
	leftHalf
	rightHalf
)

// tryPlace makes a single trial placement of the template: one random
// anchor, accepted only if every tile of the bounding box is free. There is
// no retry loop; a rejected trial is simply dropped.
func (g *Generator) tryPlace(grid *tileGrid, id string, zone placementZone) (world.Object, bool) {
	tpl := g.catalog.Item(id)

	minX, maxX := placementMargin, world.RoomWidth-placementMargin-tpl.Width
	switch zone {
	case leftHalf:
		maxX = world.RoomWidth/2 - tpl.Width
	case rightHalf:
		minX = world.RoomWidth / 2
	}
	minY, maxY := placementMargin, world.RoomHeight-placementMargin-tpl.Height

	if maxX < minX || maxY < minY {
		return world.Object{}, false
	}

	ax := minX + g.rng.IntN(maxX-minX+1)
	ay := minY + g.rng.IntN(maxY-minY+1)

	if !grid.free(ax, ay, tpl.Width, tpl.Height) {
		return world.Object{}, false
	}
	grid.mark(ax, ay, tpl.Width, tpl.Height)

	return world.Object{
		Name:    id,
		X:       ax + tpl.OffsetX,
		Y:       ay + tpl.OffsetY,
		BXMin:   ax,
		BXMax:   ax + tpl.Width - 1,
		BYMin:   ay,
		BYMax:   ay + tpl.Height - 1,
		Nouns:   tpl.Nouns,
		CanTake: tpl.CanTake,
	}, true
}

type tileGrid struct {
	occupied [world.RoomHeight][world.RoomWidth]bool
}

// free checks every tile of the box, not just the rectangle corners, so the
// contract stays correct for irregular footprints.
func (t *tileGrid) free(x, y, w, h int) bool {
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			if tx < 0 || tx >= world.RoomWidth || ty < 0 || ty >= world.RoomHeight {
				return false
			}
			if t.occupied[ty][tx] {
				return false
			}
		}
	}
	return true
}

func (t *tileGrid) mark(x, y, w, h int) {
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			t.occupied[ty][tx] = true
		}
	}
}

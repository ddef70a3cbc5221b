package worldgen

import (
	"fmt"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/world"
	"github.com/pixil98/go-testutil"
)

func testCatalog(t *testing.T) *assets.Catalog {
	t.Helper()

	items := map[string]*assets.ItemTemplate{
		"ship":       {Sprite: "ship", Class: assets.ClassBackdrop, Width: 1, Height: 1, Nouns: []string{"ship"}},
		"surf":       {Sprite: "surf", Class: assets.ClassBackdrop, Width: 1, Height: 1},
		"cliff":      {Sprite: "cliff", Class: assets.ClassBackdrop, Width: 1, Height: 1},
		"tree1":      {Sprite: "tree1", Class: assets.ClassLarge, Family: "tree", Width: 3, Height: 4, OffsetX: -1, OffsetY: -2},
		"bigfern1":   {Sprite: "bigfern1", Class: assets.ClassLarge, Family: "fern", Width: 2, Height: 2},
		"rock1":      {Sprite: "rock1", Class: assets.ClassSmall, Family: "rock", Width: 1, Height: 1},
		"grass1":     {Sprite: "grass1", Class: assets.ClassSmall, Family: "grass", Width: 1, Height: 1},
		"smallfern1": {Sprite: "smallfern1", Class: assets.ClassSmall, Family: "fern", Width: 1, Height: 1},
		"hut":        {Sprite: "hut", Class: assets.ClassStation, Width: 4, Height: 3, Nouns: []string{"hut"}},
		"coconuts":   {Sprite: "coconuts", Class: assets.ClassCollectible, Width: 1, Height: 1, Nouns: []string{"coconut", "coconuts"}, CanTake: true, HasCount: true},
		"monkey":     {Sprite: "monkey", Class: assets.ClassCreature, Width: 1, Height: 1, Nouns: []string{"monkey"}},
	}

	sprites := map[string]*assets.Sprite{}
	addSprite := func(name string, w, h int) {
		sprites[name] = &assets.Sprite{
			Name:   name,
			Image:  image.NewRGBA(image.Rect(0, 0, w, h)),
			Width:  w,
			Height: h,
		}
	}
	addSprite(assets.BackgroundSprite, world.RoomWidth*assets.TileSize, world.RoomHeight*assets.TileSize)
	for _, item := range items {
		addSprite(item.Sprite, item.Width*assets.TileSize, item.Height*assets.TileSize)
	}
	addSprite("guy2", 20, 40)
	addSprite("guy3", 20, 40)
	for i := 1; i <= 3; i++ {
		addSprite(fmt.Sprintf("Path_NS_%d", i), 40, 20)
		addSprite(fmt.Sprintf("Path_E_%d", i), 20, 40)
	}

	roster := []*assets.CharacterType{
		{Name: "Castaway", Sprite: "guy2"},
		{Name: "Explorer", Sprite: "guy3"},
	}

	catalog, err := assets.NewCatalog(items, roster, sprites, nil)
	if err != nil {
		t.Fatalf("building test catalog: %v", err)
	}
	return catalog
}

func seededGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	return New(testCatalog(t), WithRand(rand.New(rand.NewPCG(seed, seed))))
}

func TestGenerateCollisionInvariant(t *testing.T) {
	g := seededGenerator(t, 7)

	// Backdrops are exempt from the collision contract.
	backdrop := map[string]bool{"ship": true, "surf": true, "cliff": true}

	coords := []world.Coords{{X: 5, Y: 5}, {X: -20, Y: 13}, {X: 100, Y: -40}, {X: 3, Y: 3}}
	for _, c := range coords {
		room := g.Generate(c)

		var grid [world.RoomHeight][world.RoomWidth]int
		for _, obj := range room.Objects {
			if backdrop[obj.Name] {
				continue
			}
			for y := obj.BYMin; y <= obj.BYMax; y++ {
				for x := obj.BXMin; x <= obj.BXMax; x++ {
					grid[y][x]++
					if grid[y][x] > 1 {
						t.Fatalf("room %v: tile (%d,%d) shared by two objects", c, x, y)
					}
				}
			}
		}
	}
}

func TestGenerateSortedByBottomEdge(t *testing.T) {
	g := seededGenerator(t, 11)

	room := g.Generate(world.Coords{X: 40, Y: 20})
	for i := 1; i < len(room.Objects); i++ {
		if room.Objects[i-1].BYMax > room.Objects[i].BYMax {
			t.Fatalf("objects not sorted by bymax at index %d", i)
		}
	}
}

func TestGenerateObjectCountsBounded(t *testing.T) {
	g := seededGenerator(t, 13)

	room := g.Generate(world.Coords{X: 60, Y: 30})

	// Worst case: every requested placement of every pass succeeds.
	max := maxLargePlacements + maxSmallPlacements + 1 + maxCollectibleStacks + 1
	if len(room.Objects) > max {
		t.Fatalf("room has %d objects, more than the %d the passes can request", len(room.Objects), max)
	}
	if len(room.Objects) == 0 {
		t.Fatal("expected at least some small decorations")
	}
}

func TestGenerateCrashSiteBackdrops(t *testing.T) {
	g := seededGenerator(t, 17)

	room := g.Generate(world.Origin)
	var ship *world.Object
	for i := range room.Objects {
		if room.Objects[i].Name == "ship" {
			ship = &room.Objects[i]
		}
	}
	if ship == nil {
		t.Fatal("expected the ship backdrop at the origin")
	}
	testutil.AssertEqual(t, "spans full width", ship.BXMax-ship.BXMin+1, world.RoomWidth)
	testutil.AssertEqual(t, "covers top half", ship.BYMax, world.RoomHeight/2-1)
}

func TestGenerateStartRegionHasNoStations(t *testing.T) {
	g := seededGenerator(t, 19)

	inner := []world.Coords{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: -2, Y: 2}, {X: 0, Y: -2}}
	for _, c := range inner {
		room := g.Generate(c)
		for _, obj := range room.Objects {
			switch obj.Name {
			case "hut", "coconuts", "monkey":
				t.Fatalf("room %v inside start region contains %q", c, obj.Name)
			}
		}
	}
}

func TestGenerateAnchorOffsetApplied(t *testing.T) {
	g := seededGenerator(t, 23)

	// Look through a batch of rooms until a tree shows up.
	for i := 0; i < 200; i++ {
		room := g.Generate(world.Coords{X: 50 + i, Y: 10})
		for _, obj := range room.Objects {
			if obj.Name != "tree1" {
				continue
			}
			testutil.AssertEqual(t, "x offset", obj.X, obj.BXMin-1)
			testutil.AssertEqual(t, "y offset", obj.Y, obj.BYMin-2)
			return
		}
	}
	t.Fatal("no tree generated in 200 rooms")
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := seededGenerator(t, 42).Generate(world.Coords{X: 9, Y: 9})
	b := seededGenerator(t, 42).Generate(world.Coords{X: 9, Y: 9})

	testutil.AssertEqual(t, "object count", len(a.Objects), len(b.Objects))
	for i := range a.Objects {
		testutil.AssertEqual(t, "object", a.Objects[i].Name, b.Objects[i].Name)
	}
}

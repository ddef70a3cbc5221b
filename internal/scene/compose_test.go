package scene

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/world"
	"github.com/pixil98/go-testutil"
)

func testCatalog(t *testing.T) *assets.Catalog {
	t.Helper()

	items := map[string]*assets.ItemTemplate{
		"tree1": {Sprite: "tree1", Class: assets.ClassLarge, Family: "tree", Width: 3, Height: 4},
		"rock1": {Sprite: "rock1", Class: assets.ClassSmall, Family: "rock", Width: 1, Height: 1},
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
	addSprite("tree1", 60, 80)
	addSprite("rock1", 20, 20)
	addSprite("guy2", 20, 40)
	for i := 1; i <= 3; i++ {
		addSprite(fmt.Sprintf("Path_NS_%d", i), 40, 20)
		addSprite(fmt.Sprintf("Path_E_%d", i), 20, 40)
	}

	roster := []*assets.CharacterType{{Name: "Castaway", Sprite: "guy2"}}

	catalog, err := assets.NewCatalog(items, roster, sprites, nil)
	if err != nil {
		t.Fatalf("building test catalog: %v", err)
	}
	return catalog
}

func testComposer(t *testing.T) *Composer {
	t.Helper()
	return NewComposer(testCatalog(t), WithRand(rand.New(rand.NewPCG(1, 2))))
}

func testRoom() *world.Room {
	return &world.Room{
		Coords: world.Coords{X: 5, Y: 5},
		Objects: []world.Object{
			{Name: "tree1", X: 4, Y: 2, BXMin: 4, BXMax: 6, BYMin: 2, BYMax: 5},
			{Name: "rock1", X: 10, Y: 20, BXMin: 10, BXMax: 10, BYMin: 20, BYMax: 20},
		},
	}
}

func TestComposeLayerOrder(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}

	layers, err := c.Compose(viewer, testRoom(), nil, map[world.Direction]int{world.North: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// background, tree (behind), north path, viewer, rock (front)
	testutil.AssertEqual(t, "layer count", len(layers), 5)
	testutil.AssertEqual(t, "background first", layers[0].Sprite.Name, assets.BackgroundSprite)
	testutil.AssertEqual(t, "behind object", layers[1].Sprite.Name, "tree1")
	testutil.AssertEqual(t, "path decoration", layers[2].Sprite.Name, "Path_NS_2")
	testutil.AssertEqual(t, "viewer", layers[3].Sprite.Name, "guy2")
	testutil.AssertEqual(t, "front object", layers[4].Sprite.Name, "rock1")
}

func TestComposeViewerCentered(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}

	layers, err := c.Compose(viewer, &world.Room{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bg := layers[0].Sprite
	self := layers[len(layers)-1]
	testutil.AssertEqual(t, "left", self.Left, bg.Width/2-self.Sprite.Width/2)
	testutil.AssertEqual(t, "top", self.Top, bg.Height/2-self.Sprite.Height/2)
}

func TestComposeOccupantsOnJitterRing(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}
	others := []*world.Character{
		{ID: "c2", Type: 0},
		{ID: "c3", Type: 0},
	}

	layers, err := c.Compose(viewer, &world.Room{}, others, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "layer count", len(layers), 4)

	bg := layers[0].Sprite
	for _, l := range layers[1:3] {
		dx := float64(l.Left + l.Sprite.Width/2 - bg.Width/2)
		dy := float64(l.Top + l.Sprite.Height/2 - bg.Height/2)
		dist := math.Sqrt(dx*dx + dy*dy)
		if math.Abs(dist-occupantRadius) > 1.5 {
			t.Fatalf("occupant at distance %.1f, want %d", dist, occupantRadius)
		}
	}
}

func TestComposePathIntensityCapped(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}

	layers, err := c.Compose(viewer, &world.Room{}, nil, map[world.Direction]int{world.East: 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, l := range layers {
		if l.Sprite.Name == "Path_E_3" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected east path capped at highest variant")
	}
}

func TestComposeZeroUsageAddsNoPaths(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}

	layers, err := c.Compose(viewer, &world.Room{}, nil, map[world.Direction]int{world.South: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "layers", len(layers), 2) // background + viewer
}

func TestComposeUnknownObjectFails(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}
	room := &world.Room{Objects: []world.Object{{Name: "nosuch"}}}

	_, err := c.Compose(viewer, room, nil, nil)
	testutil.AssertErrorContains(t, err, "no item template")
}

func TestRenderProducesPng(t *testing.T) {
	c := testComposer(t)
	viewer := &world.Character{ID: "c1", Type: 0}

	layers, err := c.Compose(viewer, testRoom(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf, err := Render(layers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf) < 8 || string(buf[1:4]) != "PNG" {
		t.Fatal("output is not a png")
	}
}

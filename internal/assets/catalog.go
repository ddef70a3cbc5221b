// Package assets holds the static content catalog: item templates, the
// playable character roster, sprite art, and the bitmap font. The catalog is
// built once at process start and passed by reference; nothing in it mutates
// afterwards.
package assets

import (
	"fmt"
	"sort"

	"github.com/funmud/funmud/internal/storage"
	"github.com/funmud/funmud/internal/world"
	"github.com/pixil98/go-errors"
)

// BackgroundSprite is the sprite every room is drawn over. Its dimensions
// define the scene canvas.
const BackgroundSprite = "background1"

type Catalog struct {
	items     map[string]*ItemTemplate
	roster    []*CharacterType
	sprites   map[string]*Sprite
	font      *BitmapFont
	pathNS    int // number of north/south path sprite variants
	pathEW    int // number of east/west path sprite variants
}

// NewCatalog builds and cross-checks a catalog from already-loaded parts.
// Roster order is the id order of the character-type assets; the 1-based
// index players type during onboarding follows it.
func NewCatalog(items map[string]*ItemTemplate, roster []*CharacterType, sprites map[string]*Sprite, font *BitmapFont) (*Catalog, error) {
	c := &Catalog{
		items:   items,
		roster:  roster,
		sprites: sprites,
		font:    font,
	}

	el := errors.NewErrorList()
	for name, item := range items {
		if _, ok := sprites[item.Sprite]; !ok {
			el.Add(fmt.Errorf("item %q references missing sprite %q", name, item.Sprite))
		}
	}
	for i, ct := range roster {
		if _, ok := sprites[ct.Sprite]; !ok {
			el.Add(fmt.Errorf("character type %d references missing sprite %q", i+1, ct.Sprite))
		}
	}
	if len(roster) == 0 {
		el.Add(fmt.Errorf("character roster is empty"))
	}
	if _, ok := sprites[BackgroundSprite]; !ok {
		el.Add(fmt.Errorf("missing background sprite %q", BackgroundSprite))
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	for i := 1; ; i++ {
		if _, ok := sprites[fmt.Sprintf("Path_NS_%d", i)]; !ok {
			c.pathNS = i - 1
			break
		}
	}
	for i := 1; ; i++ {
		if _, ok := sprites[fmt.Sprintf("Path_E_%d", i)]; !ok {
			c.pathEW = i - 1
			break
		}
	}

	return c, nil
}

// Load reads the catalog from disk: JSON item and character-type assets,
// gif sprites, and the png font sheet.
func Load(itemsPath, charactersPath, spritesPath, fontPath string) (*Catalog, error) {
	itemStore, err := storage.NewFileStore[*ItemTemplate](itemsPath)
	if err != nil {
		return nil, fmt.Errorf("loading item templates: %w", err)
	}

	charStore, err := storage.NewFileStore[*CharacterType](charactersPath)
	if err != nil {
		return nil, fmt.Errorf("loading character types: %w", err)
	}

	sprites, err := LoadSprites(spritesPath)
	if err != nil {
		return nil, fmt.Errorf("loading sprites: %w", err)
	}

	font, err := LoadFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	chars := charStore.GetAll()
	ids := make([]string, 0, len(chars))
	for id := range chars {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	roster := make([]*CharacterType, 0, len(ids))
	for _, id := range ids {
		roster = append(roster, chars[id])
	}

	return NewCatalog(itemStore.GetAll(), roster, sprites, font)
}

// Item returns the template an object was stamped from, or nil.
func (c *Catalog) Item(name string) *ItemTemplate {
	return c.items[name]
}

// Items returns the full template set keyed by template id.
func (c *Catalog) Items() map[string]*ItemTemplate {
	return c.items
}

// Roster returns the playable character types in selection order.
func (c *Catalog) Roster() []*CharacterType {
	return c.roster
}

// CharacterType returns the roster entry for a stored type index.
func (c *Catalog) CharacterType(i int) (*CharacterType, bool) {
	if i < 0 || i >= len(c.roster) {
		return nil, false
	}
	return c.roster[i], true
}

func (c *Catalog) Sprite(name string) (*Sprite, bool) {
	s, ok := c.sprites[name]
	return s, ok
}

func (c *Catalog) Font() *BitmapFont {
	return c.font
}

// PathVariants is the number of intensity levels available for path
// decorations in the given axis pair.
func (c *Catalog) PathVariants() int {
	if c.pathNS < c.pathEW {
		return c.pathNS
	}
	return c.pathEW
}

// PathSprite names the path decoration for a direction at an intensity
// level (1-based, already capped by PathVariants).
func (c *Catalog) PathSprite(d world.Direction, intensity int) string {
	switch d {
	case world.North, world.South:
		return fmt.Sprintf("Path_NS_%d", intensity)
	default:
		return fmt.Sprintf("Path_E_%d", intensity)
	}
}

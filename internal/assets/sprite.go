package assets

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
)

// TileSize is the edge length of one world tile in pixels. All sprite art
// is authored on this grid.
const TileSize = 20

// Sprite is one decoded piece of art, keyed by its file base name.
type Sprite struct {
	Name   string
	Image  image.Image
	Width  int // pixels
	Height int // pixels
}

// TileWidth returns the sprite's width in whole tiles, rounding up.
func (s *Sprite) TileWidth() int {
	return (s.Width + TileSize - 1) / TileSize
}

func (s *Sprite) TileHeight() int {
	return (s.Height + TileSize - 1) / TileSize
}

// LoadSprites decodes every .gif in the directory into a sprite keyed by
// file base name.
func LoadSprites(dir string) (map[string]*Sprite, error) {
	sprites := map[string]*Sprite{}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".gif") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening sprite %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		img, err := gif.Decode(f)
		if err != nil {
			return fmt.Errorf("decoding sprite %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, ok := sprites[name]; ok {
			return fmt.Errorf("duplicate sprite name: %s", name)
		}

		b := img.Bounds()
		sprites[name] = &Sprite{
			Name:   name,
			Image:  img,
			Width:  b.Dx(),
			Height: b.Dy(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sprites, nil
}

package command

import (
	"fmt"
	"os"

	"github.com/funmud/funmud/internal/assets"
	"github.com/pixil98/go-errors"
)

type AssetsConfig struct {
	ItemsPath      string `json:"items_path"`
	CharactersPath string `json:"characters_path"`
	SpritesPath    string `json:"sprites_path"`
	FontPath       string `json:"font_path"`
}

func (c *AssetsConfig) Validate() error {
	el := errors.NewErrorList()

	for name, path := range map[string]string{
		"items_path":      c.ItemsPath,
		"characters_path": c.CharactersPath,
		"sprites_path":    c.SpritesPath,
		"font_path":       c.FontPath,
	} {
		if path == "" {
			el.Add(fmt.Errorf("%s is required", name))
			continue
		}
		if _, err := os.Stat(path); err != nil {
			el.Add(fmt.Errorf("%s: invalid path %q: %w", name, path, err))
		}
	}

	return el.Err()
}

func (c *AssetsConfig) BuildCatalog() (*assets.Catalog, error) {
	return assets.Load(c.ItemsPath, c.CharactersPath, c.SpritesPath, c.FontPath)
}

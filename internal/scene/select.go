package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/funmud/funmud/internal/assets"
)

// Selection-screen cell geometry, in pixels.
const (
	selectCellWidth  = 50
	selectCellHeight = 50
	selectLabelBand  = 20
)

// SelectionScreen renders the character roster side by side in fixed-width
// cells, each sprite centered in its cell with its 1-based pick number
// rasterized below it.
func SelectionScreen(catalog *assets.Catalog) ([]byte, error) {
	roster := catalog.Roster()
	font := catalog.Font()
	if font == nil {
		return nil, fmt.Errorf("catalog has no font for selection labels")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, len(roster)*selectCellWidth, selectCellHeight+selectLabelBand))

	for i, ct := range roster {
		sprite, ok := catalog.Sprite(ct.Sprite)
		if !ok {
			return nil, fmt.Errorf("character type %q references missing sprite %q", ct.Name, ct.Sprite)
		}

		cellCenter := selectCellWidth*i + selectCellWidth/2
		left := cellCenter - sprite.Width/2
		top := selectCellHeight/2 - sprite.Height/2
		r := image.Rect(left, top, left+sprite.Width, top+sprite.Height)
		draw.Draw(canvas, r, sprite.Image, sprite.Image.Bounds().Min, draw.Over)

		label := font.RenderLine(fmt.Sprintf("%d", i+1))
		lb := label.Bounds()
		left = cellCenter - lb.Dx()/2
		top = selectCellHeight + selectLabelBand/2 - lb.Dy()/2
		r = image.Rect(left, top, left+lb.Dx(), top+lb.Dy())
		draw.Draw(canvas, r, label, lb.Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding selection screen: %w", err)
	}
	return buf.Bytes(), nil
}

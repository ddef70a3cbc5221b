package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Render flattens a layer list onto a canvas the size of the first layer
// (the background) and encodes the result as png.
func Render(layers []Layer) ([]byte, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("rendering empty layer list")
	}

	bg := layers[0].Sprite
	canvas := image.NewRGBA(image.Rect(0, 0, bg.Width, bg.Height))

	for _, layer := range layers {
		r := image.Rect(layer.Left, layer.Top, layer.Left+layer.Sprite.Width, layer.Top+layer.Sprite.Height)
		draw.Draw(canvas, r, layer.Sprite.Image, layer.Sprite.Image.Bounds().Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	return buf.Bytes(), nil
}

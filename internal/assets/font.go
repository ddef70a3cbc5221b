package assets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
)

const glyphSize = 8

// edsciiRows maps the glyph sheet's 16x6 grid onto characters. The sheet is
// a C64-style bitmap font; lowercase and uppercase live in separate rows.
var edsciiRows = []string{
	` !"#$%&'()*+,-./`,
	`0123456789:;<=>?`,
	`@abcdefghijklmno`,
	`pqrstuvwxyz[£]✓π`,
	`█ABCDEFGHIJKLMNO`,
	`PQRSTUVWXYZ♠♥♣♦●`,
}

// BitmapFont rasterizes text from a fixed 8x8 glyph sheet.
type BitmapFont struct {
	glyphs map[rune]image.Image
}

// LoadFont slices the glyph sheet image into per-character tiles.
func LoadFont(path string) (*BitmapFont, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening font sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding font sheet: %w", err)
	}

	font := &BitmapFont{glyphs: map[rune]image.Image{}}
	for y, row := range edsciiRows {
		for x, ch := range []rune(row) {
			glyph := image.NewRGBA(image.Rect(0, 0, glyphSize, glyphSize))
			src := image.Pt(sheet.Bounds().Min.X+x*glyphSize, sheet.Bounds().Min.Y+y*glyphSize)
			draw.Draw(glyph, glyph.Bounds(), sheet, src, draw.Src)
			font.glyphs[ch] = glyph
		}
	}

	return font, nil
}

// RenderLine rasterizes a message onto a black background, one 8x8 cell per
// character. Newlines start a new row; unknown characters render as spaces.
func (f *BitmapFont) RenderLine(message string) image.Image {
	lines := strings.Split(message, "\n")

	width := 0
	for _, line := range lines {
		if l := len([]rune(line)) * glyphSize; l > width {
			width = l
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, len(lines)*glyphSize))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)

	for y, line := range lines {
		for x, ch := range []rune(line) {
			glyph, ok := f.glyphs[ch]
			if !ok {
				glyph = f.glyphs[' ']
			}
			if glyph == nil {
				continue
			}
			r := image.Rect(x*glyphSize, y*glyphSize, (x+1)*glyphSize, (y+1)*glyphSize)
			draw.Draw(out, r, glyph, glyph.Bounds().Min, draw.Over)
		}
	}

	return out
}

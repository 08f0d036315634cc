package draw

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// LoadFont parses the TTF font file at path.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("draw: reading font: %w", err)
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("draw: parsing font %s: %w", path, err)
	}
	return f, nil
}

// Text renders s onto dst in the given font and point size, with the
// baseline starting at p. Glyphs are clipped to the image bounds.
func Text(dst draw.Image, p image.Point, s string, f *truetype.Font, size float64, c color.Color) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))
	ctx.SetHinting(font.HintingNone)

	if _, err := ctx.DrawString(s, freetype.Pt(p.X, p.Y)); err != nil {
		return fmt.Errorf("draw: rendering %q: %w", s, err)
	}
	return nil
}

package draw

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/makeworld-the-better-one/dither/v2"
	xdraw "golang.org/x/image/draw"
)

// GrayPalette returns a ramp of levels evenly spaced gray values from black
// to white.
func GrayPalette(levels int) []color.Color {
	p := make([]color.Color, levels)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i * 255 / (levels - 1))}
	}
	return p
}

// Image scales src to fill r, reduces it to levels gray values with
// serpentine Floyd-Steinberg dithering, and draws the result onto dst at r.
// 256 levels or more draws the scaled image directly, without dithering;
// levels below 2 is treated as 2.
func Image(dst draw.Image, r image.Rectangle, src image.Image, levels int) {
	scaled := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	if levels >= 256 {
		Draw(dst, r, scaled, image.Point{}, Src)
		return
	}
	if levels < 2 {
		levels = 2
	}

	d := dither.NewDitherer(GrayPalette(levels))
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true
	Draw(dst, r, d.DitherPaletted(scaled), image.Point{}, Src)
}

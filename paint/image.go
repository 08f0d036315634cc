package paint

import (
	"image"
	"image/color"
	"image/draw"
)

// Interface check.
var _ draw.Image = (*Canvas)(nil)

// ColorModel implements [image.Image].
func (c *Canvas) ColorModel() color.Model {
	return GrayModel
}

// Bounds implements [image.Image]. It reports the logical dimensions,
// after rotation.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At implements [image.Image] in terms of Pixel.
func (c *Canvas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(c.Bounds()) {
		return color.Transparent
	}
	return Gray{Y: uint8(c.Pixel(x, y))}
}

// Set implements [draw.Image] in terms of SetPixel.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetPixel(x, y, uint16(grayModel(col).(Gray).Y))
}

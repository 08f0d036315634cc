package paint

import "image/color"

// Gray is a 4-bit grayscale color stored in the top nibble of a byte, the
// value convention SetPixel accepts at every depth.
type Gray struct {
	Y uint8
}

func (c Gray) RGBA() (r, g, b, a uint32) {
	y := uint32(c.Y & 0xf0)
	y |= y >> 4
	y |= y << 8
	return y, y, y, 0xffff
}

// GrayModel is the color model of a Canvas.
var GrayModel color.Model = color.ModelFunc(grayModel)

func grayModel(c color.Color) color.Color {
	if _, ok := c.(Gray); ok {
		return c
	}
	r, g, b, _ := c.RGBA()

	// These coefficients (the fractions 0.299, 0.587 and 0.114) are the same
	// as those given by the JFIF specification and used by func RGBToYCbCr
	// in ycbcr.go.
	//
	// Note that 19595 + 38470 + 7471 equals 65536.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16

	return Gray{Y: uint8(y>>8) & 0xf0}
}

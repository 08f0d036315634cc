package paint

// Halftone expands a packed 12-bit RGB color (red in the low nibble, green
// above it, blue on top) into the 3×3 cluster of gray intensities used to
// approximate color on a grayscale panel. The pattern is row-major: a green
// row, a blue row, then a red row, with the third pixel of each row at half
// intensity. The expansion is deterministic.
func Halftone(color uint16) [9]uint8 {
	var (
		b = uint8((color >> 4) & 0xf0)
		g = uint8(color & 0xf0)
		r = uint8((color << 4) & 0xf0)
	)
	return [9]uint8{g, g, g / 2, b, b, b / 2, r, r, r / 2}
}

// SetColorBlock draws the halftone cluster for color into the 3×3 cell
// containing (x, y). The anchor snaps to the 3-aligned grid: residue 1 is
// the cell center, residues 0 and 2 shift the anchor by one, with the Y
// residue taken from y+2 and the rows shifted down by x/3%3. Cluster pixels
// that land outside the canvas are dropped individually, so a cluster at
// the edge is drawn partially rather than rejected.
func (c *Canvas) SetColorBlock(x, y int, color uint16) {
	ax, ay := x, y
	offset := x / 3 % 3

	if x%3 != 1 {
		if x%3 == 0 {
			ax++
		} else {
			ax--
		}
	}
	if (y+2)%3 != 1 {
		if (y+2)%3 == 0 {
			ay++
		} else {
			ay--
		}
	}
	ay -= offset

	colors := Halftone(color)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.SetPixel(ax-1+j, ay-1+i, uint16(colors[i*3+j]))
		}
	}
}

package paint

import (
	"fmt"
	"testing"
)

func TestHalftone(t *testing.T) {
	for _, color := range []uint16{0x0fff, 0x0f00, 0x00f0, 0x000f, 0x0a5c} {
		t.Run(fmt.Sprintf("%#04x", color), func(t *testing.T) {
			got := Halftone(color)
			if got != Halftone(color) {
				t.Error("expansion is not deterministic")
			}
			for ch := 0; ch < 3; ch++ {
				row := got[ch*3 : ch*3+3]
				if row[1] != row[0] {
					t.Errorf("row %d: second pixel %#02x differs from first %#02x", ch, row[1], row[0])
				}
				if row[2] != row[0]/2 {
					t.Errorf("row %d: third pixel %#02x is not half of %#02x", ch, row[2], row[0])
				}
			}
		})
	}
}

func TestHalftoneChannels(t *testing.T) {
	tests := []struct {
		color uint16
		want  [9]uint8
	}{
		{0x0fff, [9]uint8{0xf0, 0xf0, 0x78, 0xf0, 0xf0, 0x78, 0xf0, 0xf0, 0x78}},
		{0x00f0, [9]uint8{0xf0, 0xf0, 0x78, 0, 0, 0, 0, 0, 0}},   // green
		{0x0f00, [9]uint8{0, 0, 0, 0xf0, 0xf0, 0x78, 0, 0, 0}},   // blue
		{0x000f, [9]uint8{0, 0, 0, 0, 0, 0, 0xf0, 0xf0, 0x78}},   // red
	}
	for _, test := range tests {
		if got := Halftone(test.color); got != test.want {
			t.Errorf("Halftone(%#04x) = %#v, want %#v", test.color, got, test.want)
		}
	}
}

func TestSetColorBlock(t *testing.T) {
	// (1,2) is already a cluster center: x%3 == 1, (y+2)%3 == 1, x/3%3 == 0.
	c := newTestCanvas(9, 9)
	c.SetColorBlock(1, 2, 0x00f0)

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			var want uint16
			if y == 1 && x <= 2 { // green row only
				want = 0xf0
				if x == 2 {
					want = 0x70 // 0x78 loses its low nibble at Depth8
				}
			}
			if v := c.Pixel(x, y); v != want {
				t.Errorf("Pixel(%d,%d) = %#02x, want %#02x", x, y, v, want)
			}
		}
	}
}

func TestSetColorBlockRowShift(t *testing.T) {
	// x=7 keeps its residue center but x/3%3 == 2 shifts the rows up.
	c := newTestCanvas(12, 12)
	c.SetColorBlock(7, 4, 0x00f0)

	// anchor: y=4 snaps to 5 ((4+2)%3 == 0), minus the row shift of 2.
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			var want uint16
			if y == 2 && x >= 6 && x <= 8 {
				want = 0xf0
				if x == 8 {
					want = 0x70
				}
			}
			if v := c.Pixel(x, y); v != want {
				t.Errorf("Pixel(%d,%d) = %#02x, want %#02x", x, y, v, want)
			}
		}
	}
}

func TestSetColorBlockPartial(t *testing.T) {
	// A cluster anchored above the canvas is clipped per pixel, not
	// rejected: only its red row lands on row 0.
	c := newTestCanvas(9, 9)
	c.SetColorBlock(0, 0, 0x000f)

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			var want uint16
			if y == 0 && x <= 2 {
				want = 0xf0
				if x == 2 {
					want = 0x70
				}
			}
			if v := c.Pixel(x, y); v != want {
				t.Errorf("Pixel(%d,%d) = %#02x, want %#02x", x, y, v, want)
			}
		}
	}
}

package paint

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"
)

func newTestCanvas(w, h int) *Canvas {
	return New(make([]byte, w*h), w, h, Rotate0, 0xff)
}

func TestNewDimensions(t *testing.T) {
	tests := []struct {
		rotation Rotation
		w, h     int
	}{
		{Rotate0, 8, 6},
		{Rotate90, 6, 8},
		{Rotate180, 8, 6},
		{Rotate270, 6, 8},
	}
	for _, test := range tests {
		t.Run(test.rotation.String(), func(t *testing.T) {
			c := New(make([]byte, 48), 8, 6, test.rotation, 0)
			if c.Width() != test.w || c.Height() != test.h {
				t.Errorf("logical size is %d×%d, want %d×%d", c.Width(), c.Height(), test.w, test.h)
			}
			if c.MemoryWidth() != 8 || c.MemoryHeight() != 6 {
				t.Errorf("memory size is %d×%d, want 8×6", c.MemoryWidth(), c.MemoryHeight())
			}
			if c.Depth() != Depth8 {
				t.Errorf("default depth is %d, want %d", c.Depth(), Depth8)
			}
		})
	}
}

func TestSetPixel(t *testing.T) {
	c := newTestCanvas(8, 8)
	c.SetPixel(2, 3, 0xf0)
	for i, v := range c.Pix {
		var want byte
		if i == 2+3*8 {
			want = 0xf0
		}
		if v != want {
			t.Errorf("byte %d is %#02x, want %#02x", i, v, want)
		}
	}
	if v := c.Pixel(2, 3); v != 0xf0 {
		t.Errorf("Pixel(2,3) = %#02x, want 0xf0", v)
	}
}

func TestSetPixelRotate90(t *testing.T) {
	c := newTestCanvas(8, 8)
	c.SetRotation(Rotate90)
	c.SetPixel(0, 0, 0xf0)
	if v := c.Pix[7]; v != 0xf0 {
		t.Errorf("byte 7 is %#02x, want 0xf0", v)
	}
	if v := c.Pixel(0, 0); v != 0xf0 {
		t.Errorf("Pixel(0,0) = %#02x, want 0xf0", v)
	}
}

func TestSetPixelMirror(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		c := newTestCanvas(8, 8)
		c.SetMirror(MirrorHorizontal)
		c.SetPixel(0, 0, 0xf0)
		if v := c.Pix[7]; v != 0xf0 {
			t.Errorf("byte 7 is %#02x, want 0xf0", v)
		}
	})
	t.Run("vertical", func(t *testing.T) {
		c := newTestCanvas(8, 8)
		c.SetMirror(MirrorVertical)
		c.SetPixel(0, 0, 0xf0)
		if v := c.Pix[7*8]; v != 0xf0 {
			t.Errorf("byte 56 is %#02x, want 0xf0", v)
		}
	})
}

func TestSetPixelDepth1(t *testing.T) {
	c := New(make([]byte, 8), 8, 8, Rotate0, 0)
	c.SetDepth(Depth1)
	c.SetPixel(5, 0, 0x80)
	if v := c.Pix[0]; v != 0x20 {
		t.Errorf("byte 0 is %#08b, want 0b00100000", v)
	}
	for i, v := range c.Pix[1:] {
		if v != 0 {
			t.Errorf("byte %d is %#02x, want 0", i+1, v)
		}
	}
}

func TestSetPixelOutOfRange(t *testing.T) {
	c := newTestCanvas(8, 8)
	for i := range c.Pix {
		c.Pix[i] = byte(i)
	}
	snapshot := bytes.Clone(c.Pix)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {8, 8}, {100, 100}} {
		c.SetPixel(p[0], p[1], 0xf0)
	}
	if !bytes.Equal(c.Pix, snapshot) {
		t.Error("out of range writes modified the buffer")
	}
	for _, p := range [][2]int{{-1, 0}, {8, 0}, {0, 8}} {
		if v := c.Pixel(p[0], p[1]); v != 0 {
			t.Errorf("Pixel(%d,%d) = %#02x, want 0", p[0], p[1], v)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	c := newTestCanvas(8, 6)

	c.SetRotation(Rotation(5))
	if c.Rotation() != Rotate0 || c.Width() != 8 || c.Height() != 6 {
		t.Error("invalid rotation changed the canvas")
	}
	c.SetMirror(Mirror(9))
	if c.Mirror() != MirrorNone {
		t.Error("invalid mirror changed the canvas")
	}
	c.SetDepth(Depth(3))
	if c.Depth() != Depth8 || c.Stride() != 8 {
		t.Error("invalid depth changed the canvas")
	}
}

func TestSetDepth(t *testing.T) {
	c := New(make([]byte, 64), 8, 8, Rotate0, 0)
	c.SetDepth(Depth2)
	if c.Stride() != 2 {
		t.Errorf("stride is %d, want 2", c.Stride())
	}
	if c.BufferSize() != 16 {
		t.Errorf("buffer size is %d, want 16", c.BufferSize())
	}
	if c.GrayScale() != 4 {
		t.Errorf("gray scale is %d, want 4", c.GrayScale())
	}

	c.SelectBuffer(make([]byte, c.BufferSize()))
	c.SetPixel(0, 0, 0xc0)
	if v := c.Pix[0]; v != 0x03 {
		t.Errorf("byte 0 is %#02x, want 0x03", v)
	}
	if v := c.Pixel(0, 0); v != 0xc0 {
		t.Errorf("Pixel(0,0) = %#02x, want 0xc0", v)
	}
}

func TestSelectBuffer(t *testing.T) {
	c := newTestCanvas(4, 4)
	fresh := make([]byte, 16)
	c.SelectBuffer(fresh)
	c.SetPixel(0, 0, 0xf0)
	if fresh[0] != 0xf0 {
		t.Errorf("write did not land in the selected buffer; byte 0 is %#02x", fresh[0])
	}
}

func TestClear(t *testing.T) {
	for _, depth := range []Depth{Depth1, Depth2, Depth4, Depth8} {
		t.Run(fmt.Sprintf("%dbpp", depth), func(t *testing.T) {
			c := New(make([]byte, 64), 8, 8, Rotate0, 0)
			c.SetDepth(depth)
			c.SelectBuffer(make([]byte, c.BufferSize()))

			c.Clear(0xff)
			for y := 0; y < c.Height(); y++ {
				for x := 0; x < c.Width(); x++ {
					if v := c.Pixel(x, y); v != full[depth] {
						t.Fatalf("after Clear(0xff), Pixel(%d,%d) = %#02x, want %#02x", x, y, v, full[depth])
					}
				}
			}

			c.Clear(0)
			for y := 0; y < c.Height(); y++ {
				for x := 0; x < c.Width(); x++ {
					if v := c.Pixel(x, y); v != 0 {
						t.Fatalf("after Clear(0), Pixel(%d,%d) = %#02x, want 0", x, y, v)
					}
				}
			}
		})
	}
}

func TestClearWindow(t *testing.T) {
	c := newTestCanvas(8, 8)
	c.ClearWindow(2, 2, 4, 5, 0xf0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var want uint16
			if x >= 2 && x < 4 && y >= 2 && y < 5 {
				want = 0xf0
			}
			if v := c.Pixel(x, y); v != want {
				t.Errorf("Pixel(%d,%d) = %#02x, want %#02x", x, y, v, want)
			}
		}
	}

	t.Run("empty", func(t *testing.T) {
		c := newTestCanvas(8, 8)
		c.ClearWindow(2, 2, 2, 5, 0xf0)
		c.ClearWindow(5, 5, 2, 2, 0xf0)
		for i, v := range c.Pix {
			if v != 0 {
				t.Fatalf("empty window wrote byte %d", i)
			}
		}
	})
}

func TestCanvasImage(t *testing.T) {
	c := newTestCanvas(8, 8)
	if c.ColorModel() != GrayModel {
		t.Error("unexpected color model")
	}
	if want := image.Rect(0, 0, 8, 8); c.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", c.Bounds(), want)
	}

	c.Set(1, 1, color.White)
	if v := c.Pixel(1, 1); v != 0xf0 {
		t.Errorf("Pixel(1,1) = %#02x, want 0xf0", v)
	}
	if v := c.At(1, 1); v != (Gray{Y: 0xf0}) {
		t.Errorf("At(1,1) = %#+v, want Gray{Y: 0xf0}", v)
	}
	if v := c.At(-1, 0); v != color.Transparent {
		t.Errorf("At(-1,0) = %#+v, want transparent", v)
	}
}

func TestBackground(t *testing.T) {
	c := New(make([]byte, 16), 4, 4, Rotate0, 0x1f)
	if v := c.Background(); v != 0x1f {
		t.Errorf("Background() = %#02x, want 0x1f", v)
	}
}

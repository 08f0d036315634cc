package paint

import (
	"github.com/sirupsen/logrus"
)

// Canvas is a packed pixel buffer with rotation and mirroring state. All
// drawing funnels through SetPixel, which translates logical coordinates
// into masked bit operations on the buffer.
//
// A Canvas never allocates: the buffer passed to New (or SelectBuffer) stays
// owned by the caller, who is responsible for keeping its length at
// BufferSize bytes. Concurrent mutation is not guarded; callers needing
// shared access must serialize externally.
type Canvas struct {
	// Pix is the caller-owned packed pixel buffer, row-major with Stride
	// bytes per row of the memory space.
	Pix []byte

	widthMemory  int
	heightMemory int
	width        int
	height       int
	stride       int
	depth        Depth
	rotation     Rotation
	mirror       Mirror
	background   uint16
}

// New returns a canvas of w×h pixels over the caller-owned buffer pix. The
// depth defaults to Depth8. background records the caller's clear color
// convention for higher-level drawing; it takes no part in addressing.
func New(pix []byte, w, h int, rotation Rotation, background uint16) *Canvas {
	c := &Canvas{
		Pix:          pix,
		widthMemory:  w,
		heightMemory: h,
		depth:        Depth8,
		mirror:       MirrorNone,
		background:   background,
	}
	c.stride = c.depth.Stride(w)

	if rotation > Rotate270 {
		logrus.Warnf("paint: invalid rotation %d, using %s", rotation, Rotate0)
		rotation = Rotate0
	}
	c.rotation = rotation
	c.updateSize()

	if len(pix) < c.BufferSize() {
		logrus.Warnf("paint: buffer is %d bytes, canvas needs %d", len(pix), c.BufferSize())
	}
	return c
}

// updateSize derives the logical dimensions from the current rotation.
func (c *Canvas) updateSize() {
	if c.rotation == Rotate0 || c.rotation == Rotate180 {
		c.width, c.height = c.widthMemory, c.heightMemory
	} else {
		c.width, c.height = c.heightMemory, c.widthMemory
	}
}

// SelectBuffer rebinds the canvas to pix without altering geometry, for
// buffer-swap scenarios. No copy is made and ownership stays with the
// caller.
func (c *Canvas) SelectBuffer(pix []byte) {
	if len(pix) < c.BufferSize() {
		logrus.Warnf("paint: buffer is %d bytes, canvas needs %d", len(pix), c.BufferSize())
	}
	c.Pix = pix
}

// SetRotation changes the logical orientation, swapping the logical width
// and height for Rotate90 and Rotate270. Invalid values leave the canvas
// unchanged.
func (c *Canvas) SetRotation(r Rotation) {
	if r > Rotate270 {
		logrus.Warnf("paint: invalid rotation %d, keeping %s", r, c.rotation)
		return
	}
	c.rotation = r
	c.updateSize()
}

// SetMirror changes the mirroring applied after rotation. Invalid values
// leave the canvas unchanged.
func (c *Canvas) SetMirror(m Mirror) {
	if m > MirrorOrigin {
		logrus.Warnf("paint: invalid mirror %d, keeping %s", m, c.mirror)
		return
	}
	c.mirror = m
}

// SetDepth changes the pixel depth to 1, 2, 4 or 8 bits per pixel and
// recomputes the stride. The buffer is neither touched nor reallocated:
// when BufferSize changes the caller must bind a suitable buffer with
// SelectBuffer and repopulate it. Invalid depths leave the canvas
// unchanged.
func (c *Canvas) SetDepth(d Depth) {
	if !d.Valid() {
		logrus.Warnf("paint: invalid depth %d, keeping %d bits per pixel", d, c.depth)
		return
	}
	c.depth = d
	c.stride = d.Stride(c.widthMemory)
}

// Width returns the logical width, after rotation.
func (c *Canvas) Width() int { return c.width }

// Height returns the logical height, after rotation.
func (c *Canvas) Height() int { return c.height }

// MemoryWidth returns the width of the buffer as physically stored,
// independent of rotation.
func (c *Canvas) MemoryWidth() int { return c.widthMemory }

// MemoryHeight returns the height of the buffer as physically stored,
// independent of rotation.
func (c *Canvas) MemoryHeight() int { return c.heightMemory }

// Stride returns the byte length of one buffer row at the current depth.
func (c *Canvas) Stride() int { return c.stride }

// Depth returns the current pixel depth.
func (c *Canvas) Depth() Depth { return c.depth }

// GrayScale returns the number of intensity levels at the current depth.
func (c *Canvas) GrayScale() int { return c.depth.GrayScale() }

// Rotation returns the current rotation.
func (c *Canvas) Rotation() Rotation { return c.rotation }

// Mirror returns the current mirror mode.
func (c *Canvas) Mirror() Mirror { return c.mirror }

// Background returns the clear color convention recorded at construction.
func (c *Canvas) Background() uint16 { return c.background }

// BufferSize returns the buffer length in bytes the current geometry and
// depth require.
func (c *Canvas) BufferSize() int {
	return c.stride * c.heightMemory
}

// SetPixel writes color to the logical pixel (x, y), mutating exactly one
// packed field of the buffer. Writes outside the canvas are dropped
// silently: shape drawing overdraws during clipping-free rendering, and
// overdraw is non-fatal on a display.
func (c *Canvas) SetPixel(x, y int, color uint16) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	px, py, ok := transform(x, y, c.rotation, c.mirror, c.widthMemory, c.heightMemory)
	if !ok || px < 0 || py < 0 || px >= c.widthMemory || py >= c.heightMemory {
		return
	}
	addr := c.depth.PixOffset(px, py, c.stride)
	if addr >= len(c.Pix) {
		return
	}
	c.depth.Put(c.Pix, addr, px, color)
}

// Pixel returns the stored value of the logical pixel (x, y), aligned to
// the top of the byte per the packing convention. Reads outside the canvas
// return 0.
func (c *Canvas) Pixel(x, y int) uint16 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	px, py, ok := transform(x, y, c.rotation, c.mirror, c.widthMemory, c.heightMemory)
	if !ok || px < 0 || py < 0 || px >= c.widthMemory || py >= c.heightMemory {
		return 0
	}
	addr := c.depth.PixOffset(px, py, c.stride)
	if addr >= len(c.Pix) {
		return 0
	}
	return c.depth.At(c.Pix, addr, px)
}

// Clear fills the whole buffer with the low byte of color, ignoring
// rotation and mirroring. At depths below 8 every packed field in the byte
// receives the corresponding bits of the fill value.
func (c *Canvas) Clear(color uint16) {
	for i := range c.Pix {
		c.Pix[i] = byte(color)
	}
}

// ClearWindow fills the half-open window [x0,x1)×[y0,y1) with color through
// SetPixel, honoring rotation and mirroring. An empty window (x1 ≤ x0 or
// y1 ≤ y0) writes nothing.
func (c *Canvas) ClearWindow(x0, y0, x1, y1 int, color uint16) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.SetPixel(x, y, color)
		}
	}
}

package paint

// Depth is the number of bits used to store one pixel.
type Depth uint8

// Supported pixel depths.
const (
	Depth1 Depth = 1 << iota
	Depth2
	Depth4
	Depth8
)

// Valid reports whether d is a supported pixel depth.
func (d Depth) Valid() bool {
	switch d {
	case Depth1, Depth2, Depth4, Depth8:
		return true
	}
	return false
}

// GrayScale is the number of intensity levels d can represent.
func (d Depth) GrayScale() int {
	return 1 << d
}

// Stride returns the packed row length in bytes for w pixels, rounded up to
// whole bytes.
func (d Depth) Stride(w int) int {
	return (w*int(d) + 7) / 8
}

// PixOffset returns the index of the byte holding physical pixel (x, y) in a
// buffer with the given stride.
func (d Depth) PixOffset(x, y, stride int) int {
	return x*int(d)/8 + y*stride
}

// Put writes color into pixel x's field of the byte at pix[addr] without
// disturbing the neighboring fields. Fields are packed low bits first:
// pixel 0 of a byte occupies its least significant field. Colors carry their
// significant bits at the top of the low byte (0xF0 is full intensity at
// every depth). The caller guarantees addr is in range.
func (d Depth) Put(pix []byte, addr, x int, color uint16) {
	switch d {
	case Depth8:
		// 4-bit effective grayscale over 8-bit storage, top nibble holds
		// the value.
		pix[addr] = byte(color) & 0xf0
	case Depth4:
		shift := uint(7 - (x*4+3)%8)
		pix[addr] &^= 0xf0 >> shift
		pix[addr] |= (byte(color) & 0xf0) >> shift
	case Depth2:
		shift := uint(7 - (x*2+1)%8)
		pix[addr] &^= 0xc0 >> shift
		pix[addr] |= (byte(color) & 0xc0) >> shift
	case Depth1:
		shift := uint(7 - x%8)
		pix[addr] &^= 0x80 >> shift
		pix[addr] |= (byte(color) & 0x80) >> shift
	}
}

// At reads pixel x's field of the byte at pix[addr], returning the value
// aligned to the top of the byte, the same convention accepted by Put.
func (d Depth) At(pix []byte, addr, x int) uint16 {
	switch d {
	case Depth8:
		return uint16(pix[addr] & 0xf0)
	case Depth4:
		shift := uint(7 - (x*4+3)%8)
		return uint16(pix[addr]&(0xf0>>shift)) << shift
	case Depth2:
		shift := uint(7 - (x*2+1)%8)
		return uint16(pix[addr]&(0xc0>>shift)) << shift
	case Depth1:
		shift := uint(7 - x%8)
		return uint16(pix[addr]&(0x80>>shift)) << shift
	}
	return 0
}

package paint

// Rotation defines the logical orientation of a canvas.
type Rotation uint8

// Supported rotations.
const (
	Rotate0   Rotation = iota // No rotation
	Rotate90                  // Rotate 90° clock wise
	Rotate180                 // Rotate 180°
	Rotate270                 // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Mirror defines the mirroring applied to the rotated coordinate.
type Mirror uint8

// Supported mirror modes.
const (
	MirrorNone       Mirror = iota // No mirroring
	MirrorHorizontal               // Mirror along the vertical axis
	MirrorVertical                 // Mirror along the horizontal axis
	MirrorOrigin                   // Mirror along both axes
)

func (m Mirror) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorOrigin:
		return "origin"
	default:
		return "none"
	}
}

// transform maps a logical coordinate onto the physical (memory space)
// coordinate of a w×h buffer, applying rotation first and mirroring to the
// rotated result. The second return is false when the rotation or mirror
// value is out of range, in which case the pixel write must be abandoned.
func transform(x, y int, r Rotation, m Mirror, w, h int) (int, int, bool) {
	switch r {
	case Rotate0:
	case Rotate90:
		x, y = w-y-1, x
	case Rotate180:
		x, y = w-x-1, h-y-1
	case Rotate270:
		x, y = y, h-x-1
	default:
		return 0, 0, false
	}

	switch m {
	case MirrorNone:
	case MirrorHorizontal:
		x = w - x - 1
	case MirrorVertical:
		y = h - y - 1
	case MirrorOrigin:
		x = w - x - 1
		y = h - y - 1
	default:
		return 0, 0, false
	}

	return x, y, true
}

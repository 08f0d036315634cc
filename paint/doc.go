// Package paint implements the packed pixel canvas shared by all luna
// drawing and display code.
//
// A Canvas wraps a caller-owned byte buffer and maps logical (x, y)
// coordinates through rotation and mirroring onto sub-byte packed pixel
// fields at 1, 2, 4 or 8 bits per pixel. It is compatible with Go's native
// [image.Image] and [draw.Image] interfaces.
package paint

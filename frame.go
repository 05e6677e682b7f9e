//go:build !ios && !android && (amd64 || arm64)

package webmgif

// Frame is one decoded video frame converted to dense RGBA. Ownership of
// the raster passes to the caller when a Frame is yielded; the decode
// session keeps no reference to it.
type Frame struct {
	// Raster holds the pixels in row-major order, four bytes per pixel
	// (R, G, B, A), with no padding between rows: exactly
	// Width*Height*4 bytes.
	Raster []byte

	Width  int
	Height int

	// PTS is the frame's presentation time in seconds, converted from
	// stream time-base units. Never negative on a yielded frame.
	PTS float64
}

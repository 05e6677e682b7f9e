//go:build !ios && !android && (amd64 || arm64)

package webmgif

import "image"

// Image wraps the frame's raster as an *image.RGBA without copying.
// The returned image shares memory with Raster.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Raster,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

//go:build !ios && !android && (amd64 || arm64)

// Package webmgif decodes WebM video into timestamped RGBA frames for
// re-encoding into animated GIFs. It drives FFmpeg's shared libraries
// without CGO using purego.
//
// The usual flow is Open a Container, pick its BestVideoStream, bind a
// Decoder to it with OpenDecoder, and pull frames with ReadFrame until the
// stream is exhausted. For advanced use the low-level packages (avutil,
// avcodec, avformat, swscale) are available.
package webmgif

import (
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// Init loads the FFmpeg libraries. This happens automatically on the first
// Open, but can be called explicitly to check for errors up front.
// It is safe to call multiple times.
func Init() error {
	return bindings.Load()
}

// IsLoaded returns true if the FFmpeg libraries have been loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the loaded FFmpeg library versions.
func Version() (avutilVer, avcodecVer, avformatVer, swscaleVer uint32) {
	return bindings.AVUtilVersion(), bindings.AVCodecVersion(),
		bindings.AVFormatVersion(), bindings.SWScaleVersion()
}

// Re-exported types used throughout the public API.
type (
	// Rational is a rational number (fraction), used for frame rates and
	// stream time bases.
	Rational = avutil.Rational

	// PixelFormat identifies a native pixel layout.
	PixelFormat = avutil.PixelFormat
)

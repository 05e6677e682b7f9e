//go:build !ios && !android && (amd64 || arm64)

package avutil

// PixelFormat represents FFmpeg pixel formats.
type PixelFormat int32

// Common pixel formats (from FFmpeg's pixfmt.h). VP8/VP9 decoders emit the
// planar YUV formats; RGBA is the swscale output format.
const (
	PixelFormatNone     PixelFormat = -1
	PixelFormatYUV420P  PixelFormat = 0  // Planar YUV 4:2:0
	PixelFormatYUYV422  PixelFormat = 1  // Packed YUV 4:2:2
	PixelFormatRGB24    PixelFormat = 2  // Packed RGB 8:8:8
	PixelFormatBGR24    PixelFormat = 3  // Packed BGR 8:8:8
	PixelFormatYUV422P  PixelFormat = 4  // Planar YUV 4:2:2
	PixelFormatYUV444P  PixelFormat = 5  // Planar YUV 4:4:4
	PixelFormatGray8    PixelFormat = 8  // 8-bit grayscale
	PixelFormatYUVJ420P PixelFormat = 12 // Planar YUV 4:2:0 (JPEG range)

	PixelFormatNV12 PixelFormat = 23 // Planar YUV 4:2:0 (UV interleaved)
	PixelFormatNV21 PixelFormat = 24 // Planar YUV 4:2:0 (VU interleaved)
	PixelFormatARGB PixelFormat = 25 // Packed ARGB 8:8:8:8
	PixelFormatRGBA PixelFormat = 26 // Packed RGBA 8:8:8:8
	PixelFormatABGR PixelFormat = 27 // Packed ABGR 8:8:8:8
	PixelFormatBGRA PixelFormat = 28 // Packed BGRA 8:8:8:8

	PixelFormatYUVA420P PixelFormat = 33 // Planar YUV 4:2:0 with alpha (VP8/VP9 with yuva)
)

// MediaType represents FFmpeg media types.
type MediaType int32

const (
	MediaTypeUnknown    MediaType = -1
	MediaTypeVideo      MediaType = 0
	MediaTypeAudio      MediaType = 1
	MediaTypeData       MediaType = 2
	MediaTypeSubtitle   MediaType = 3
	MediaTypeAttachment MediaType = 4
)

//go:build !ios && !android && (amd64 || arm64)

// Package swscale provides bindings to FFmpeg's libswscale library.
// It covers pixel format conversion from decoded frames into packed buffers.
package swscale

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// Context is an opaque SwsContext pointer.
type Context = unsafe.Pointer

// Scaling algorithm flags
const (
	FlagFastBilinear = 1    // Fast bilinear scaling
	FlagBilinear     = 2    // Bilinear scaling
	FlagBicubic      = 4    // Bicubic scaling
	FlagPoint        = 0x10 // Nearest neighbor (point sampling)
	FlagArea         = 0x20 // Area averaging
	FlagBicublin     = 0x40 // Luma bicubic, chroma bilinear
	FlagGauss        = 0x80 // Gaussian
	FlagSinc         = 0x100
	FlagLanczos      = 0x200 // Lanczos scaling
	FlagSpline       = 0x400 // Natural bicubic spline
)

// Function bindings
var (
	swsGetContext  func(srcW, srcH int32, srcFormat int32, dstW, dstH int32, dstFormat int32, flags int32, srcFilter, dstFilter, param unsafe.Pointer) uintptr
	swsScale       func(ctx unsafe.Pointer, srcSlice, srcStride unsafe.Pointer, srcSliceY, srcSliceH int32, dst, dstStride unsafe.Pointer) int32
	swsFreeContext func(ctx unsafe.Pointer)

	swsIsSupportedIn  func(format int32) int32
	swsIsSupportedOut func(format int32) int32

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return
	}

	lib := bindings.LibSWScale()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&swsGetContext, lib, "sws_getContext")
	purego.RegisterLibFunc(&swsScale, lib, "sws_scale")
	purego.RegisterLibFunc(&swsFreeContext, lib, "sws_freeContext")

	purego.RegisterLibFunc(&swsIsSupportedIn, lib, "sws_isSupportedInput")
	purego.RegisterLibFunc(&swsIsSupportedOut, lib, "sws_isSupportedOutput")

	bindingsRegistered = true
}

// GetContext creates a conversion context from the source geometry and
// pixel format to the destination geometry and pixel format.
// Returns nil if the conversion is unsupported or a dimension is invalid.
func GetContext(srcW, srcH int32, srcFormat avutil.PixelFormat, dstW, dstH int32, dstFormat avutil.PixelFormat, flags int32) Context {
	if swsGetContext == nil {
		return nil
	}
	return unsafe.Pointer(swsGetContext(
		srcW, srcH, int32(srcFormat),
		dstW, dstH, int32(dstFormat),
		flags,
		nil, nil, nil,
	))
}

// FreeContext frees a conversion context.
// Safe to call with nil.
func FreeContext(ctx Context) {
	if ctx == nil || swsFreeContext == nil {
		return
	}
	swsFreeContext(ctx)
}

// Scale converts srcSliceH rows starting at srcSliceY from the source
// planes into the destination planes. The plane and stride arrays follow
// AVFrame's fixed size of 8; unused entries stay nil/zero.
// Returns the height of the output slice, or a negative value on failure.
func Scale(ctx Context, srcSlice *[8]unsafe.Pointer, srcStride *[8]int32, srcSliceY, srcSliceH int32, dst *[8]unsafe.Pointer, dstStride *[8]int32) int32 {
	if ctx == nil || swsScale == nil {
		return -1
	}
	return swsScale(ctx,
		unsafe.Pointer(srcSlice), unsafe.Pointer(srcStride),
		srcSliceY, srcSliceH,
		unsafe.Pointer(dst), unsafe.Pointer(dstStride),
	)
}

// IsSupportedInput returns true if the pixel format is supported as input.
func IsSupportedInput(format avutil.PixelFormat) bool {
	if swsIsSupportedIn == nil {
		return false
	}
	return swsIsSupportedIn(int32(format)) > 0
}

// IsSupportedOutput returns true if the pixel format is supported as output.
func IsSupportedOutput(format avutil.PixelFormat) bool {
	if swsIsSupportedOut == nil {
		return false
	}
	return swsIsSupportedOut(int32(format)) > 0
}

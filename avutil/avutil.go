//go:build !ios && !android && (amd64 || arm64)

// Package avutil provides bindings to FFmpeg's libavutil library.
// It includes frame management, error handling, and rational number handling.
package avutil

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// Frame is an opaque FFmpeg AVFrame pointer.
type Frame = unsafe.Pointer

// Function bindings - registered when init() is called
var (
	avFrameAlloc func() unsafe.Pointer
	avFrameFree  func(frame *unsafe.Pointer)
	avFrameUnref func(frame unsafe.Pointer)

	avStrerror func(errnum int32, errbuf unsafe.Pointer, errbufSize uintptr) int32

	avMalloc func(size uintptr) unsafe.Pointer
	avFree   func(ptr unsafe.Pointer)

	avLogSetLevel func(level int32)

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	// Ensure FFmpeg is loaded
	if err := bindings.Load(); err != nil {
		return // Will fail later when functions are called
	}

	lib := bindings.LibAVUtil()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&avFrameAlloc, lib, "av_frame_alloc")
	purego.RegisterLibFunc(&avFrameFree, lib, "av_frame_free")
	purego.RegisterLibFunc(&avFrameUnref, lib, "av_frame_unref")

	purego.RegisterLibFunc(&avStrerror, lib, "av_strerror")

	purego.RegisterLibFunc(&avMalloc, lib, "av_malloc")
	purego.RegisterLibFunc(&avFree, lib, "av_free")

	purego.RegisterLibFunc(&avLogSetLevel, lib, "av_log_set_level")

	offsetFlags = frameFlagsOffsetFor(bindings.AVUtilVersion())

	bindingsRegistered = true
}

// FrameAlloc allocates an AVFrame and returns a pointer to it.
// The returned frame must be freed with FrameFree when no longer needed.
func FrameAlloc() Frame {
	if avFrameAlloc == nil {
		return nil
	}
	return avFrameAlloc()
}

// FrameFree frees an AVFrame and sets the pointer to nil.
// Safe to call with nil pointer.
func FrameFree(frame *Frame) {
	if frame == nil || *frame == nil || avFrameFree == nil {
		return
	}
	avFrameFree(frame)
	*frame = nil
}

// FrameUnref unreferences all buffers referenced by frame.
// The frame itself stays allocated and can be reused by the next decode call.
func FrameUnref(frame Frame) {
	if frame == nil || avFrameUnref == nil {
		return
	}
	avFrameUnref(frame)
}

// Malloc allocates a block with av_malloc. The block is owned by FFmpeg's
// allocator and must be released with Free.
func Malloc(size uintptr) unsafe.Pointer {
	if avMalloc == nil {
		return nil
	}
	return avMalloc(size)
}

// Free releases a block allocated with Malloc.
func Free(ptr unsafe.Pointer) {
	if ptr == nil || avFree == nil {
		return
	}
	avFree(ptr)
}

// Log levels (from FFmpeg's log.h).
const (
	LogQuiet   int32 = -8
	LogError   int32 = 16
	LogWarning int32 = 24
	LogInfo    int32 = 32
	LogVerbose int32 = 40
)

// LogSetLevel sets FFmpeg's global log level. The libraries default to
// LogInfo, which prints per-file probe chatter to stderr.
func LogSetLevel(level int32) {
	if avLogSetLevel == nil {
		return
	}
	avLogSetLevel(level)
}

// NoPTSValue is the value used to indicate no PTS.
const NoPTSValue int64 = -9223372036854775808 // 0x8000000000000000

// TimeBase is the internal timestamp unit used for container-level durations
// (AV_TIME_BASE: microseconds).
const TimeBase int64 = 1000000

// AVFrame struct field offsets (for FFmpeg 6.x / avutil 58.x)
// These are used to read frame properties without accessing struct fields directly
// Verified with offsetof() on FFmpeg 58.29.100
const (
	// Data pointer array offset
	offsetData = 0 // uint8_t *data[8] at offset 0

	// Linesize array offset
	offsetLinesize = 64 // int linesize[8] at offset 64

	// Video frame fields
	offsetWidth  = 104 // int width at offset 104
	offsetHeight = 108 // int height at offset 108
	offsetFormat = 116 // int format at offset 116

	// Timing fields
	offsetPts = 136 // int64 pts at offset 136
)

// offsetFlags is the offset of the int flags field. Unlike the fields above
// it is not stable across majors: avutil 59 removed the deprecated fields
// (interlaced_frame, palette_has_changed, ...) that sit between pts and
// flags in avutil 58.
var offsetFlags uintptr = 316

func frameFlagsOffsetFor(version uint32) uintptr {
	if version>>16 >= 59 {
		return 276
	}
	return 316
}

// Frame flags (from FFmpeg's frame.h).
const (
	FrameFlagCorrupt int32 = 1 << 0 // Frame data may be corrupted
	FrameFlagDiscard int32 = 1 << 2 // Frame should be decoded but not shown
)

// GetFrameWidth returns the width of the frame.
func GetFrameWidth(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetWidth))
}

// GetFrameHeight returns the height of the frame.
func GetFrameHeight(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetHeight))
}

// GetFrameFormat returns the pixel format of the frame.
func GetFrameFormat(frame Frame) int32 {
	if frame == nil {
		return -1
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetFormat))
}

// GetFramePTS returns the presentation timestamp.
func GetFramePTS(frame Frame) int64 {
	if frame == nil {
		return NoPTSValue
	}
	return *(*int64)(unsafe.Pointer(uintptr(frame) + offsetPts))
}

// GetFrameFlags returns the frame's flag bits (FrameFlagCorrupt etc).
func GetFrameFlags(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetFlags))
}

// GetFrameLinesizePlane returns the linesize for a given plane.
func GetFrameLinesizePlane(frame Frame, plane int) int32 {
	if frame == nil || plane < 0 || plane >= 8 {
		return 0
	}
	linesizeArray := (*[8]int32)(unsafe.Pointer(uintptr(frame) + offsetLinesize))
	return linesizeArray[plane]
}

// GetFrameDataPlane returns the data pointer for a given plane.
func GetFrameDataPlane(frame Frame, plane int) unsafe.Pointer {
	if frame == nil || plane < 0 || plane >= 8 {
		return nil
	}
	dataArray := (*[8]unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetData))
	return dataArray[plane]
}

// GetFrameData returns pointers to all data planes.
func GetFrameData(frame Frame) [8]unsafe.Pointer {
	if frame == nil {
		return [8]unsafe.Pointer{}
	}
	return *(*[8]unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetData))
}

// GetFrameLinesize returns the linesizes for all planes.
func GetFrameLinesize(frame Frame) [8]int32 {
	if frame == nil {
		return [8]int32{}
	}
	linesizeArray := (*[8]int32)(unsafe.Pointer(uintptr(frame) + offsetLinesize))
	return *linesizeArray
}

// ErrorString returns a human-readable error message for an FFmpeg error code.
func ErrorString(errnum int32) string {
	if avStrerror == nil {
		return "unknown error (FFmpeg not loaded)"
	}

	buf := make([]byte, 256)
	avStrerror(errnum, unsafe.Pointer(&buf[0]), 256)

	// Find null terminator
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

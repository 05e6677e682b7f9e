//go:build !ios && !android && (amd64 || arm64)

// Package avformat provides bindings to FFmpeg's libavformat library.
// It covers the demuxing side only: opening containers, probing streams,
// and reading packets.
package avformat

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/webmgif/avcodec"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// FormatContext is an opaque FFmpeg AVFormatContext pointer.
type FormatContext = unsafe.Pointer

// Stream is an opaque FFmpeg AVStream pointer.
type Stream = unsafe.Pointer

// MediaType aliases for convenience
const (
	MediaTypeUnknown  = avutil.MediaTypeUnknown
	MediaTypeVideo    = avutil.MediaTypeVideo
	MediaTypeAudio    = avutil.MediaTypeAudio
	MediaTypeData     = avutil.MediaTypeData
	MediaTypeSubtitle = avutil.MediaTypeSubtitle
)

// Function bindings
var (
	avformatOpenInput      func(ctx *unsafe.Pointer, url string, fmt, options unsafe.Pointer) int32
	avformatCloseInput     func(ctx *unsafe.Pointer)
	avformatFindStreamInfo func(ctx unsafe.Pointer, options unsafe.Pointer) int32
	avformatAllocContext   func() unsafe.Pointer
	avformatFreeContext    func(ctx unsafe.Pointer)

	avReadFrame func(ctx, pkt unsafe.Pointer) int32

	avFindBestStream func(ctx unsafe.Pointer, mediaType, wanted, related int32, decoder *unsafe.Pointer, flags int32) int32

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

	lib := bindings.LibAVFormat()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&avformatOpenInput, lib, "avformat_open_input")
	purego.RegisterLibFunc(&avformatCloseInput, lib, "avformat_close_input")
	purego.RegisterLibFunc(&avformatFindStreamInfo, lib, "avformat_find_stream_info")
	purego.RegisterLibFunc(&avformatAllocContext, lib, "avformat_alloc_context")
	purego.RegisterLibFunc(&avformatFreeContext, lib, "avformat_free_context")

	purego.RegisterLibFunc(&avReadFrame, lib, "av_read_frame")

	purego.RegisterLibFunc(&avFindBestStream, lib, "av_find_best_stream")

	offsetDuration = durationOffsetFor(bindings.AVFormatVersion())
	offsetStreamRFrameRate = rFrameRateOffsetFor(bindings.AVFormatVersion())
	codecParShift = codecParShiftFor(bindings.AVCodecVersion())

	bindingsRegistered = true
}

// AllocContext allocates an AVFormatContext.
func AllocContext() FormatContext {
	if avformatAllocContext == nil {
		return nil
	}
	return avformatAllocContext()
}

// FreeContext frees an AVFormatContext.
func FreeContext(ctx FormatContext) {
	if ctx == nil || avformatFreeContext == nil {
		return
	}
	avformatFreeContext(ctx)
}

// OpenInput opens an input file and reads its header. The context is
// allocated when *ctx is nil. On failure FFmpeg frees the context itself,
// so no cleanup is needed beyond checking the error.
func OpenInput(ctx *FormatContext, url string) error {
	if avformatOpenInput == nil {
		return bindings.ErrNotLoaded
	}
	ret := avformatOpenInput(ctx, url, nil, nil)
	runtime.KeepAlive(url)
	if ret < 0 {
		return avutil.NewError(ret, "avformat_open_input")
	}
	return nil
}

// CloseInput closes an input file and frees the context.
func CloseInput(ctx *FormatContext) {
	if ctx == nil || *ctx == nil || avformatCloseInput == nil {
		return
	}
	avformatCloseInput(ctx)
	*ctx = nil
}

// FindStreamInfo reads a few packets to fill in stream information that the
// container header alone does not carry (frame rates, pixel formats).
func FindStreamInfo(ctx FormatContext) error {
	if avformatFindStreamInfo == nil {
		return bindings.ErrNotLoaded
	}
	ret := avformatFindStreamInfo(ctx, nil)
	if ret < 0 {
		return avutil.NewError(ret, "avformat_find_stream_info")
	}
	return nil
}

// ReadFrame reads the next packet from the container into pkt.
// Returns an error with code AVERROR_EOF when the container is exhausted.
func ReadFrame(ctx FormatContext, pkt avcodec.Packet) error {
	if avReadFrame == nil {
		return bindings.ErrNotLoaded
	}
	ret := avReadFrame(ctx, pkt)
	if ret < 0 {
		return avutil.NewError(ret, "av_read_frame")
	}
	return nil
}

// FindBestStream finds the best stream of a given type.
// Returns the stream index, or a negative AVERROR code (typically
// AVERROR_STREAM_NOT_FOUND) if no such stream exists.
func FindBestStream(ctx FormatContext, mediaType avutil.MediaType, wanted, related int32, decoder *avcodec.Codec, flags int32) int32 {
	if avFindBestStream == nil {
		return int32(avutil.AVERROR_STREAM_NOT_FOUND)
	}
	return avFindBestStream(ctx, int32(mediaType), wanted, related, decoder, flags)
}

// AVFormatContext struct field offsets.
// Verified with offsetof() on FFmpeg 60.16.100 (avformat 60).
const (
	offsetNumStreams = 44 // unsigned int nb_streams
	offsetStreams    = 48 // AVStream **streams
)

// offsetDuration is version-dependent: avformat 61 (FFmpeg 7) inserted the
// stream group fields between streams and url, pushing duration down.
var offsetDuration uintptr = 72

func durationOffsetFor(version uint32) uintptr {
	if version>>16 >= 61 {
		return 104
	}
	return 72
}

// GetNumStreams returns the number of streams in the context.
func GetNumStreams(ctx FormatContext) int {
	if ctx == nil {
		return 0
	}
	return int(*(*uint32)(unsafe.Pointer(uintptr(ctx) + offsetNumStreams)))
}

// GetStream returns the stream at the given index.
func GetStream(ctx FormatContext, index int) Stream {
	if ctx == nil || index < 0 {
		return nil
	}
	numStreams := GetNumStreams(ctx)
	if index >= numStreams {
		return nil
	}
	streamsPtr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(ctx) + offsetStreams))
	if streamsPtr == nil {
		return nil
	}
	streamArray := (*[1024]unsafe.Pointer)(streamsPtr)
	return streamArray[index]
}

// GetDuration returns the container duration in avutil.TimeBase units
// (microseconds), or 0 if unknown.
func GetDuration(ctx FormatContext) int64 {
	if ctx == nil {
		return 0
	}
	d := *(*int64)(unsafe.Pointer(uintptr(ctx) + offsetDuration))
	if d == avutil.NoPTSValue {
		return 0
	}
	return d
}

// AVStream struct field offsets. Stable across avformat 60 and 61: the
// fields that moved in 61 all sit after avg_frame_rate.
const (
	offsetStreamIndex        = 8  // int index
	offsetStreamCodecPar     = 16 // AVCodecParameters *codecpar
	offsetStreamTimeBase     = 32 // AVRational time_base
	offsetStreamAvgFrameRate = 88 // AVRational avg_frame_rate
)

// GetStreamIndex returns the stream index.
func GetStreamIndex(stream Stream) int32 {
	if stream == nil {
		return -1
	}
	return *(*int32)(unsafe.Pointer(uintptr(stream) + offsetStreamIndex))
}

// GetStreamCodecPar returns the codec parameters for the stream.
func GetStreamCodecPar(stream Stream) avcodec.Parameters {
	if stream == nil {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(uintptr(stream) + offsetStreamCodecPar))
}

// GetStreamTimeBase returns the unit in which the stream's timestamps are
// expressed.
func GetStreamTimeBase(stream Stream) avutil.Rational {
	if stream == nil {
		return avutil.NewRational(0, 1)
	}
	return *(*avutil.Rational)(unsafe.Pointer(uintptr(stream) + offsetStreamTimeBase))
}

// GetStreamAvgFrameRate returns the average frame rate for the stream, or a
// zero rational if the demuxer could not determine one.
func GetStreamAvgFrameRate(stream Stream) avutil.Rational {
	if stream == nil {
		return avutil.NewRational(0, 1)
	}
	return *(*avutil.Rational)(unsafe.Pointer(uintptr(stream) + offsetStreamAvgFrameRate))
}

// offsetStreamRFrameRate is the offset of AVRational r_frame_rate. It sits
// past attached_pic, so it shifts when avformat 61 (FFmpeg 7) removes the
// deprecated side_data/nb_side_data pair in between.
var offsetStreamRFrameRate uintptr = 216

func rFrameRateOffsetFor(version uint32) uintptr {
	if version>>16 >= 61 {
		return 204
	}
	return 216
}

// GetStreamRealFrameRate returns r_frame_rate: the lowest frame rate with
// which all of the stream's timestamps can be represented accurately.
func GetStreamRealFrameRate(stream Stream) avutil.Rational {
	if stream == nil {
		return avutil.NewRational(0, 1)
	}
	return *(*avutil.Rational)(unsafe.Pointer(uintptr(stream) + offsetStreamRFrameRate))
}

// AVCodecParameters struct field offsets.
// Verified with offsetof() on avcodec 60 (FFmpeg 6).
const (
	offsetCodecParType    = 0 // enum AVMediaType codec_type
	offsetCodecParCodecID = 4 // enum AVCodecID codec_id

	// The remaining fields shift by codecParShift on avcodec 61.
	offsetCodecParFormat = 28 // int format (pixel format for video)
	offsetCodecParWidth  = 56 // int width
	offsetCodecParHeight = 60 // int height
)

// codecParShift accounts for avcodec 61 (FFmpeg 7) inserting
// coded_side_data/nb_coded_side_data before format.
var codecParShift uintptr

func codecParShiftFor(version uint32) uintptr {
	if version>>16 >= 61 {
		return 16
	}
	return 0
}

// GetCodecParType returns the media type from codec parameters.
func GetCodecParType(par avcodec.Parameters) avutil.MediaType {
	if par == nil {
		return avutil.MediaTypeUnknown
	}
	return avutil.MediaType(*(*int32)(unsafe.Pointer(uintptr(par) + offsetCodecParType)))
}

// GetCodecParCodecID returns the codec ID from codec parameters.
func GetCodecParCodecID(par avcodec.Parameters) avcodec.CodecID {
	if par == nil {
		return avcodec.CodecIDNone
	}
	return avcodec.CodecID(*(*int32)(unsafe.Pointer(uintptr(par) + offsetCodecParCodecID)))
}

// GetCodecParWidth returns the video width from codec parameters.
func GetCodecParWidth(par avcodec.Parameters) int32 {
	if par == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(par) + offsetCodecParWidth + codecParShift))
}

// GetCodecParHeight returns the video height from codec parameters.
func GetCodecParHeight(par avcodec.Parameters) int32 {
	if par == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(par) + offsetCodecParHeight + codecParShift))
}

// GetCodecParFormat returns the pixel format for video streams.
func GetCodecParFormat(par avcodec.Parameters) int32 {
	if par == nil {
		return -1
	}
	return *(*int32)(unsafe.Pointer(uintptr(par) + offsetCodecParFormat + codecParShift))
}

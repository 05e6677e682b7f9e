//go:build !ios && !android && (amd64 || arm64)

// Package avcodec provides bindings to FFmpeg's libavcodec library.
// It covers codec discovery and the send/receive decoding API.
package avcodec

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// Codec is an opaque FFmpeg AVCodec pointer.
type Codec = unsafe.Pointer

// Context is an opaque FFmpeg AVCodecContext pointer.
type Context = unsafe.Pointer

// Packet is an opaque FFmpeg AVPacket pointer.
type Packet = unsafe.Pointer

// Parameters is an opaque FFmpeg AVCodecParameters pointer.
type Parameters = unsafe.Pointer

// Function bindings
var (
	avcodecFindDecoder       func(id int32) uintptr
	avcodecFindDecoderByName func(name string) uintptr
	avcodecAllocContext3     func(codec uintptr) uintptr
	avcodecFreeContext       func(ctx *unsafe.Pointer)
	avcodecOpen2             func(ctx, codec uintptr, options *unsafe.Pointer) int32
	avcodecSendPacket        func(ctx, pkt uintptr) int32
	avcodecReceiveFrame      func(ctx, frame uintptr) int32
	avcodecParametersToCtx   func(ctx, par uintptr) int32

	avPacketAlloc func() uintptr
	avPacketFree  func(pkt *unsafe.Pointer)
	avPacketUnref func(pkt uintptr)

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

	lib := bindings.LibAVCodec()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&avcodecFindDecoder, lib, "avcodec_find_decoder")
	purego.RegisterLibFunc(&avcodecFindDecoderByName, lib, "avcodec_find_decoder_by_name")
	purego.RegisterLibFunc(&avcodecAllocContext3, lib, "avcodec_alloc_context3")
	purego.RegisterLibFunc(&avcodecFreeContext, lib, "avcodec_free_context")
	purego.RegisterLibFunc(&avcodecOpen2, lib, "avcodec_open2")
	purego.RegisterLibFunc(&avcodecSendPacket, lib, "avcodec_send_packet")
	purego.RegisterLibFunc(&avcodecReceiveFrame, lib, "avcodec_receive_frame")
	purego.RegisterLibFunc(&avcodecParametersToCtx, lib, "avcodec_parameters_to_context")

	purego.RegisterLibFunc(&avPacketAlloc, lib, "av_packet_alloc")
	purego.RegisterLibFunc(&avPacketFree, lib, "av_packet_free")
	purego.RegisterLibFunc(&avPacketUnref, lib, "av_packet_unref")

	bindingsRegistered = true
}

// FindDecoder finds a decoder by codec ID.
// Returns nil if no decoder for the ID is compiled into the library.
func FindDecoder(id CodecID) Codec {
	if avcodecFindDecoder == nil {
		return nil
	}
	return unsafe.Pointer(avcodecFindDecoder(int32(id)))
}

// FindDecoderByName finds a decoder by its implementation name, e.g.
// "libvpx-vp9". Distinct from the codec ID: one ID can have several
// implementations and the name selects a specific one.
func FindDecoderByName(name string) Codec {
	if avcodecFindDecoderByName == nil {
		return nil
	}
	codec := unsafe.Pointer(avcodecFindDecoderByName(name))
	runtime.KeepAlive(name)
	return codec
}

// AllocContext3 allocates a codec context.
func AllocContext3(codec Codec) Context {
	if avcodecAllocContext3 == nil {
		return nil
	}
	return unsafe.Pointer(avcodecAllocContext3(uintptr(codec)))
}

// FreeContext frees a codec context and sets the pointer to nil.
func FreeContext(ctx *Context) {
	if ctx == nil || *ctx == nil || avcodecFreeContext == nil {
		return
	}

	// On some platforms (notably macOS), passing a pointer-to-pointer that
	// points into Go memory to foreign code can trigger runtime aborts.
	// Stage the pointer in FFmpeg-allocated memory instead.
	tmp := avutil.Malloc(unsafe.Sizeof(uintptr(0)))
	if tmp != nil {
		*(*unsafe.Pointer)(tmp) = *ctx
		avcodecFreeContext((*unsafe.Pointer)(tmp))
		avutil.Free(tmp)
		*ctx = nil
		return
	}

	// Fallback: best-effort direct call.
	avcodecFreeContext(ctx)
	*ctx = nil
}

// Open2 opens a codec context for decoding.
func Open2(ctx Context, codec Codec) error {
	if avcodecOpen2 == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecOpen2(uintptr(ctx), uintptr(codec), nil)
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_open2")
	}
	return nil
}

// SendPacket sends a packet to the decoder. Pass nil to signal end of
// stream and switch the decoder to draining mode.
//
// Errors carry their FFmpeg code: EAGAIN means the decoder has frames
// pending and ReceiveFrame must be called before sending more input;
// INVALIDDATA means the packet payload could not be parsed.
func SendPacket(ctx Context, pkt Packet) error {
	if avcodecSendPacket == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecSendPacket(uintptr(ctx), uintptr(pkt))
	runtime.KeepAlive(pkt)
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_send_packet")
	}
	return nil
}

// ReceiveFrame receives a decoded frame from the decoder.
//
// Errors carry their FFmpeg code: EAGAIN means more input is needed, EOF
// means the decoder is fully drained. Both are part of the normal decode
// loop, not failures.
func ReceiveFrame(ctx Context, frame avutil.Frame) error {
	if avcodecReceiveFrame == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecReceiveFrame(uintptr(ctx), uintptr(frame))
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_receive_frame")
	}
	return nil
}

// ParametersToContext copies stream codec parameters into a context,
// configuring it for the stream before Open2.
func ParametersToContext(ctx Context, par Parameters) error {
	if avcodecParametersToCtx == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecParametersToCtx(uintptr(ctx), uintptr(par))
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_parameters_to_context")
	}
	return nil
}

// PacketAlloc allocates a packet.
func PacketAlloc() Packet {
	if avPacketAlloc == nil {
		return nil
	}
	return unsafe.Pointer(avPacketAlloc())
}

// PacketFree frees a packet and sets the pointer to nil.
func PacketFree(pkt *Packet) {
	if pkt == nil || *pkt == nil || avPacketFree == nil {
		return
	}
	avPacketFree(pkt)
	*pkt = nil
}

// PacketUnref unreferences a packet's buffers. The packet itself stays
// allocated and can be reused by the next read.
func PacketUnref(pkt Packet) {
	if pkt == nil || avPacketUnref == nil {
		return
	}
	avPacketUnref(uintptr(pkt))
}

// AVCodec struct field offsets. The name pointer is the first field.
const (
	offsetCodecName     = 0 // const char *name
	offsetCodecLongName = 8 // const char *long_name
)

// GetCodecName returns the implementation name of the codec ("libvpx-vp9").
func GetCodecName(codec Codec) string {
	if codec == nil {
		return ""
	}
	namePtr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(codec) + offsetCodecName))
	return goString(namePtr)
}

// GetCodecLongName returns the descriptive name of the codec.
func GetCodecLongName(codec Codec) string {
	if codec == nil {
		return ""
	}
	namePtr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(codec) + offsetCodecLongName))
	return goString(namePtr)
}

// goString converts a C string to a Go string.
func goString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	var buf []byte
	for i := 0; ; i++ {
		b := *(*byte)(unsafe.Pointer(uintptr(ptr) + uintptr(i)))
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

// Packet field offsets (stable across avcodec 60 and 61)
const (
	offsetPacketPts         = 8  // int64 pts
	offsetPacketDts         = 16 // int64 dts
	offsetPacketData        = 24 // uint8_t *data
	offsetPacketSize        = 32 // int size
	offsetPacketStreamIndex = 36 // int stream_index
	offsetPacketFlags       = 40 // int flags
)

// GetPacketPTS returns the presentation timestamp.
func GetPacketPTS(pkt Packet) int64 {
	if pkt == nil {
		return avutil.NoPTSValue
	}
	return *(*int64)(unsafe.Pointer(uintptr(pkt) + offsetPacketPts))
}

// GetPacketDTS returns the decompression timestamp.
func GetPacketDTS(pkt Packet) int64 {
	if pkt == nil {
		return avutil.NoPTSValue
	}
	return *(*int64)(unsafe.Pointer(uintptr(pkt) + offsetPacketDts))
}

// GetPacketSize returns the packet data size.
func GetPacketSize(pkt Packet) int32 {
	if pkt == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(pkt) + offsetPacketSize))
}

// GetPacketData returns a pointer to the packet data.
func GetPacketData(pkt Packet) unsafe.Pointer {
	if pkt == nil {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(uintptr(pkt) + offsetPacketData))
}

// GetPacketStreamIndex returns the stream index the packet belongs to.
func GetPacketStreamIndex(pkt Packet) int32 {
	if pkt == nil {
		return -1
	}
	return *(*int32)(unsafe.Pointer(uintptr(pkt) + offsetPacketStreamIndex))
}

// GetPacketFlags returns the packet flags.
func GetPacketFlags(pkt Packet) int32 {
	if pkt == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(pkt) + offsetPacketFlags))
}

// Packet flag constants
const (
	PacketFlagKey     = 0x0001 // AV_PKT_FLAG_KEY - The packet contains a keyframe
	PacketFlagCorrupt = 0x0002 // AV_PKT_FLAG_CORRUPT - The packet content is corrupted
	PacketFlagDiscard = 0x0004 // AV_PKT_FLAG_DISCARD - The packet is decoded but not shown
)

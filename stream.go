//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/webmgif/avcodec"
	"github.com/obinnaokechukwu/webmgif/avformat"
	"github.com/obinnaokechukwu/webmgif/avutil"
)

// Codec selects which decoder implementation binds to a stream. The zero
// value is CodecVP9.
type Codec int

const (
	// CodecVP9 selects libvpx's VP9 decoder.
	CodecVP9 Codec = iota
	// CodecVP8 selects libvpx's VP8 decoder.
	CodecVP8
)

// decoderName returns the name the implementation is registered under in
// FFmpeg. Distinct from the codec ID: one stream can be decoded by several
// implementations and the name picks a specific one.
func (c Codec) decoderName() string {
	switch c {
	case CodecVP9:
		return "libvpx-vp9"
	case CodecVP8:
		return "libvpx"
	default:
		return ""
	}
}

func (c Codec) String() string {
	switch c {
	case CodecVP9:
		return "vp9"
	case CodecVP8:
		return "vp8"
	default:
		return fmt.Sprintf("codec(%d)", int(c))
	}
}

// ParseCodec maps "vp8" or "vp9" (case-insensitive) onto a Codec. The
// empty string selects the default, CodecVP9.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "vp9", "":
		return CodecVP9, nil
	case "vp8":
		return CodecVP8, nil
	default:
		return 0, fmt.Errorf("webmgif: unknown codec %q", s)
	}
}

// Stream is a borrowed view of one elementary stream inside a Container.
// It must not be used after its Container is closed.
type Stream struct {
	container *Container
	ptr       avformat.Stream
	index     int32
}

// Index returns the stream's position inside the container.
func (s *Stream) Index() int {
	return int(s.index)
}

// FrameRate returns the stream's nominal frame rate: the lowest rate with
// which all of its timestamps can be represented accurately.
func (s *Stream) FrameRate() avutil.Rational {
	return avformat.GetStreamRealFrameRate(s.ptr)
}

// TimeBase returns the unit of the stream's native timestamps.
func (s *Stream) TimeBase() avutil.Rational {
	return avformat.GetStreamTimeBase(s.ptr)
}

// OpenDecoder resolves the named codec implementation and binds a decode
// session to the stream. The libvpx decoders must be compiled into the
// loaded FFmpeg build; when they are not, the error matches
// avutil.AVERROR_DECODER_NOT_FOUND.
func (s *Stream) OpenDecoder(codec Codec) (*Decoder, error) {
	name := codec.decoderName()
	if name == "" {
		return nil, fmt.Errorf("webmgif: unknown codec %d", int(codec))
	}

	impl := avcodec.FindDecoderByName(name)
	if impl == nil {
		return nil, fmt.Errorf("opening decoder %s: %w", name, avutil.AVERROR_DECODER_NOT_FOUND)
	}

	codecCtx := avcodec.AllocContext3(impl)
	if codecCtx == nil {
		return nil, fmt.Errorf("opening decoder %s: %w", name, ErrOutOfMemory)
	}

	if err := avcodec.ParametersToContext(codecCtx, avformat.GetStreamCodecPar(s.ptr)); err != nil {
		avcodec.FreeContext(&codecCtx)
		return nil, fmt.Errorf("copying codec parameters: %w", err)
	}

	if err := avcodec.Open2(codecCtx, impl); err != nil {
		avcodec.FreeContext(&codecCtx)
		return nil, fmt.Errorf("opening decoder %s: %w", name, err)
	}

	packet := avcodec.PacketAlloc()
	if packet == nil {
		avcodec.FreeContext(&codecCtx)
		return nil, fmt.Errorf("allocating packet: %w", ErrOutOfMemory)
	}

	frame := avutil.FrameAlloc()
	if frame == nil {
		avcodec.PacketFree(&packet)
		avcodec.FreeContext(&codecCtx)
		return nil, fmt.Errorf("allocating frame: %w", ErrOutOfMemory)
	}

	return &Decoder{
		container: s.container,
		streamIdx: s.index,
		timeBase:  avformat.GetStreamTimeBase(s.ptr),
		codecCtx:  codecCtx,
		packet:    packet,
		frame:     frame,
	}, nil
}

//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/webmgif/avcodec"
	"github.com/obinnaokechukwu/webmgif/avformat"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/swscale"
)

// streamInfo is the frame geometry captured from the first decoded frame
// of a session. Every later frame must match it exactly.
type streamInfo struct {
	width  int32
	height int32
	format avutil.PixelFormat
}

// Decoder is a decode session bound to one video stream. It owns the
// codec context, one reusable packet, one reusable frame, and the pixel
// conversion context, and frees them all in Close. A Decoder is not safe
// for concurrent use.
//
// Create one with Stream.OpenDecoder.
type Decoder struct {
	mu        sync.Mutex
	container *Container
	streamIdx int32
	timeBase  avutil.Rational

	codecCtx avcodec.Context
	packet   avcodec.Packet
	frame    avutil.Frame

	sws  swscale.Context
	info *streamInfo

	draining bool
	done     bool
	closed   bool
}

// ReadFrame decodes the next frame from the stream and converts it to
// RGBA. It returns (nil, nil) once the stream is exhausted, and keeps
// returning that on every later call. Any error is fatal for the session:
// after a non-nil error the only useful call left is Close.
func (d *Decoder) ReadFrame() (*Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.done {
		return nil, nil
	}

	for {
		frame, err := d.receiveFrame()
		switch {
		case err == nil && frame != nil:
			return frame, nil
		case err == nil:
			// Discardable frame: drained but never yielded.
			continue
		case avutil.IsEOF(err):
			d.done = true
			return nil, nil
		case avutil.IsAgain(err) && !d.draining:
			if err := d.nextPacket(); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
}

// receiveFrame pulls one decoded frame from the codec, validates it, and
// converts it. A discardable frame returns (nil, nil). EAGAIN and EOF
// from the codec pass through unwrapped for the caller to inspect.
func (d *Decoder) receiveFrame() (*Frame, error) {
	if err := avcodec.ReceiveFrame(d.codecCtx, d.frame); err != nil {
		if avutil.IsEOF(err) || avutil.IsAgain(err) {
			return nil, err
		}
		return nil, fmt.Errorf("receiving frame: %w", err)
	}
	defer avutil.FrameUnref(d.frame)

	flags := avutil.GetFrameFlags(d.frame)
	if flags&avutil.FrameFlagCorrupt != 0 {
		return nil, ErrCorruptFrame
	}
	if flags&avutil.FrameFlagDiscard != 0 {
		return nil, nil
	}

	pts := avutil.GetFramePTS(d.frame)
	if pts < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTimestamp, pts)
	}
	seconds := float64(pts*int64(d.timeBase.Num)) / float64(d.timeBase.Den)

	raster, width, height, err := d.convertFrame()
	if err != nil {
		return nil, err
	}

	return &Frame{
		Raster: raster,
		Width:  width,
		Height: height,
		PTS:    seconds,
	}, nil
}

// nextPacket feeds the codec: it reads packets until one belongs to the
// bound stream and submits it. At end of input it submits the flush
// packet instead, switching the codec into draining mode.
func (d *Decoder) nextPacket() error {
	for {
		if err := avformat.ReadFrame(d.container.ctx, d.packet); err != nil {
			if avutil.IsEOF(err) {
				d.draining = true
				if err := avcodec.SendPacket(d.codecCtx, nil); err != nil && !avutil.IsEOF(err) {
					return fmt.Errorf("flushing decoder: %w", err)
				}
				return nil
			}
			return fmt.Errorf("reading packet: %w", err)
		}

		if avcodec.GetPacketStreamIndex(d.packet) != d.streamIdx {
			avcodec.PacketUnref(d.packet)
			continue
		}

		err := avcodec.SendPacket(d.codecCtx, d.packet)
		avcodec.PacketUnref(d.packet)
		if err != nil {
			return fmt.Errorf("sending packet: %w", err)
		}
		return nil
	}
}

// convertFrame converts the session's current frame to dense RGBA. The
// conversion context is built once, from the first frame's geometry, and
// performs format conversion only; source and destination dimensions are
// always equal.
func (d *Decoder) convertFrame() ([]byte, int, int, error) {
	width := avutil.GetFrameWidth(d.frame)
	height := avutil.GetFrameHeight(d.frame)
	format := avutil.PixelFormat(avutil.GetFrameFormat(d.frame))

	switch {
	case d.info == nil:
		d.info = &streamInfo{width: width, height: height, format: format}
	case width != d.info.width || height != d.info.height:
		return nil, 0, 0, fmt.Errorf("%w: frame is %dx%d, session started at %dx%d",
			ErrInconsistentFormat, width, height, d.info.width, d.info.height)
	case format != d.info.format:
		return nil, 0, 0, fmt.Errorf("%w: frame has pixel format %d, session started with %d",
			ErrInconsistentFormat, format, d.info.format)
	}

	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("converting frame: %w: invalid dimensions %dx%d",
			ErrConvertFailed, width, height)
	}

	if d.sws == nil {
		d.sws = swscale.GetContext(width, height, format,
			width, height, avutil.PixelFormatRGBA, swscale.FlagFastBilinear)
		if d.sws == nil {
			return nil, 0, 0, fmt.Errorf("converting frame: %w: no conversion from pixel format %d",
				ErrConvertFailed, format)
		}
	}

	raster := make([]byte, int(width)*int(height)*4)
	srcData := avutil.GetFrameData(d.frame)
	srcStride := avutil.GetFrameLinesize(d.frame)
	dstData := [8]unsafe.Pointer{unsafe.Pointer(&raster[0])}
	dstStride := [8]int32{width * 4}

	ret := swscale.Scale(d.sws, &srcData, &srcStride, 0, height, &dstData, &dstStride)
	if ret <= 0 {
		return nil, 0, 0, fmt.Errorf("converting frame: %w: sws_scale returned %d", ErrConvertFailed, ret)
	}

	return raster, int(width), int(height), nil
}

// Close releases the session's frame, packet, codec context, and
// conversion context, in that order. Safe to call more than once.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	avutil.FrameFree(&d.frame)
	avcodec.PacketFree(&d.packet)
	avcodec.FreeContext(&d.codecCtx)
	if d.sws != nil {
		swscale.FreeContext(d.sws)
		d.sws = nil
	}
	return nil
}

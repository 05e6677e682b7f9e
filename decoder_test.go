//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"errors"
	"testing"

	"github.com/obinnaokechukwu/webmgif/avutil"
)

func openTestDecoder(t *testing.T, path string, codec Codec) (*Container, *Decoder) {
	t.Helper()

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	stream, err := c.BestVideoStream()
	if err != nil {
		c.Close()
		t.Fatalf("BestVideoStream: %v", err)
	}
	d, err := stream.OpenDecoder(codec)
	if errors.Is(err, avutil.AVERROR_DECODER_NOT_FOUND) {
		c.Close()
		t.Skipf("%s decoder not available in this FFmpeg build", codec)
	}
	if err != nil {
		c.Close()
		t.Fatalf("OpenDecoder: %v", err)
	}
	return c, d
}

func TestDecodeFullStream(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 10, 25, "160x120")

	c, d := openTestDecoder(t, path, CodecVP9)
	defer c.Close()
	defer d.Close()

	var (
		count   int
		lastPTS = -1.0
	)
	for {
		frame, err := d.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame after %d frames: %v", count, err)
		}
		if frame == nil {
			break
		}
		if frame.Width != 160 || frame.Height != 120 {
			t.Fatalf("frame %d: got %dx%d, want 160x120", count, frame.Width, frame.Height)
		}
		if got, want := len(frame.Raster), frame.Width*frame.Height*4; got != want {
			t.Fatalf("frame %d: raster length %d, want %d", count, got, want)
		}
		if frame.PTS < 0 || frame.PTS >= 10 {
			t.Fatalf("frame %d: timestamp %f out of range [0, 10)", count, frame.PTS)
		}
		if frame.PTS < lastPTS {
			t.Fatalf("frame %d: timestamp went backwards, %f after %f", count, frame.PTS, lastPTS)
		}
		lastPTS = frame.PTS
		count++
	}

	// 10 seconds at 25 fps, with slack for encoder edge behavior.
	if count < 240 || count > 260 {
		t.Errorf("frame count: got %d, want 240..260", count)
	}

	// The terminal signal repeats on every later call.
	for i := 0; i < 3; i++ {
		frame, err := d.ReadFrame()
		if frame != nil || err != nil {
			t.Fatalf("call %d after end of stream: got (%v, %v), want (nil, nil)", i, frame, err)
		}
	}
}

func TestDecodeVP8(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx", 1, 30, "320x240")

	c, d := openTestDecoder(t, path, CodecVP8)
	defer c.Close()
	defer d.Close()

	var count int
	for {
		frame, err := d.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if frame == nil {
			break
		}
		if frame.Width != 320 || frame.Height != 240 {
			t.Fatalf("got %dx%d, want 320x240", frame.Width, frame.Height)
		}
		count++
	}
	if count == 0 {
		t.Error("decoded no frames")
	}
}

func TestDecoderWrongCodec(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	// Asking the VP8 decoder to handle VP9 parameters fails at open or
	// at the first decode, never silently.
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	stream, err := c.BestVideoStream()
	if err != nil {
		t.Fatalf("BestVideoStream: %v", err)
	}

	d, err := stream.OpenDecoder(CodecVP8)
	if errors.Is(err, avutil.AVERROR_DECODER_NOT_FOUND) {
		t.Skip("libvpx decoder not available in this FFmpeg build")
	}
	if err != nil {
		return // rejected at open, also acceptable
	}
	defer d.Close()

	for {
		frame, readErr := d.ReadFrame()
		if readErr != nil {
			return // rejected at decode
		}
		if frame == nil {
			t.Fatal("VP8 decoder silently accepted a VP9 stream")
		}
	}
}

func TestDecoderCloseIdempotent(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, d := openTestDecoder(t, path, CodecVP9)
	defer c.Close()

	if err := d.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestDecoderReadAfterClose(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, d := openTestDecoder(t, path, CodecVP9)
	defer c.Close()

	d.Close()
	if _, err := d.ReadFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadFrame after Close: got %v, want ErrClosed", err)
	}
}

func TestDecodeMidStreamClose(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 2, 30, "320x240")

	c, d := openTestDecoder(t, path, CodecVP9)
	defer c.Close()

	// Abandoning a session halfway through must release cleanly.
	for i := 0; i < 5; i++ {
		frame, err := d.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if frame == nil {
			break
		}
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

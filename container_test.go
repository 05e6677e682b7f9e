//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/obinnaokechukwu/webmgif/avutil"
)

func TestOpenMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	c, err := Open(filepath.Join(t.TempDir(), "missing.webm"))
	if err == nil {
		c.Close()
		t.Fatal("Open succeeded on a missing file")
	}
	if avutil.Code(err) == 0 {
		t.Errorf("error carries no native code: %v", err)
	}
}

func TestOpenAndDuration(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	d := c.Duration()
	if d <= 0 {
		t.Fatalf("duration: got %d, want > 0", d)
	}
	// One second in AV_TIME_BASE units, with container rounding slack.
	if d < avutil.TimeBase/2 || d > 2*avutil.TimeBase {
		t.Errorf("duration: got %d, want about %d", d, avutil.TimeBase)
	}
}

func TestBestVideoStream(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	stream, err := c.BestVideoStream()
	if err != nil {
		t.Fatalf("BestVideoStream: %v", err)
	}
	if stream.Index() < 0 {
		t.Errorf("stream index: got %d", stream.Index())
	}

	fps := stream.FrameRate()
	if got := fps.Float64(); got < 29 || got > 31 {
		t.Errorf("frame rate: got %v (%f), want about 30", fps, got)
	}
	if tb := stream.TimeBase(); tb.Den <= 0 {
		t.Errorf("time base: got %v", tb)
	}
}

func TestBestVideoStreamAudioOnly(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestAudioWebM(t)

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, err = c.BestVideoStream()
	if err == nil {
		t.Fatal("BestVideoStream succeeded on an audio-only file")
	}
	if !errors.Is(err, avutil.AVERROR_STREAM_NOT_FOUND) {
		t.Errorf("error: got %v, want AVERROR_STREAM_NOT_FOUND", err)
	}
}

func TestContainerCloseIdempotent(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestContainerUseAfterClose(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := writeTestWebM(t, "libvpx-vp9", 1, 30, "320x240")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c.Close()

	if got := c.Duration(); got != 0 {
		t.Errorf("Duration after Close: got %d, want 0", got)
	}
	if _, err := c.BestVideoStream(); !errors.Is(err, ErrClosed) {
		t.Errorf("BestVideoStream after Close: got %v, want ErrClosed", err)
	}
}

//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"fmt"
	"sync"

	"github.com/obinnaokechukwu/webmgif/avformat"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/internal/bindings"
)

// Container is one open media file. It owns the native format context;
// release it with Close. Stream views and decoders derived from a
// Container stay valid only while it is open.
type Container struct {
	mu     sync.Mutex
	ctx    avformat.FormatContext
	closed bool
}

// Open opens the container at path and probes its stream metadata.
// The path must name a local file; it is handed to the demuxer as-is.
func Open(path string) (*Container, error) {
	if err := bindings.Load(); err != nil {
		return nil, err
	}
	clampNativeLog()

	var ctx avformat.FormatContext
	if err := avformat.OpenInput(&ctx, path); err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	if ctx == nil {
		return nil, fmt.Errorf("opening input %s: %w", path, ErrEmptyInput)
	}

	if err := avformat.FindStreamInfo(ctx); err != nil {
		avformat.CloseInput(&ctx)
		return nil, fmt.Errorf("finding stream info: %w", err)
	}

	return &Container{ctx: ctx}, nil
}

// Duration returns the container's total duration in avutil.TimeBase
// units (microseconds), or 0 if unknown or the container is closed.
func (c *Container) Duration() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	return avformat.GetDuration(c.ctx)
}

// BestVideoStream returns the stream the demuxer ranks best for video.
func (c *Container) BestVideoStream() (*Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	index := avformat.FindBestStream(c.ctx, avformat.MediaTypeVideo, -1, -1, nil, 0)
	if index < 0 {
		return nil, fmt.Errorf("selecting video stream: %w", avutil.NewError(index, "av_find_best_stream"))
	}

	ptr := avformat.GetStream(c.ctx, int(index))
	if ptr == nil {
		return nil, fmt.Errorf("selecting video stream: no stream at index %d", index)
	}

	return &Stream{container: c, ptr: ptr, index: index}, nil
}

// Close releases the container. Safe to call more than once.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	avformat.CloseInput(&c.ctx)
	return nil
}

//go:build !ios && !android && (amd64 || arm64)

// Package gif assembles timestamped RGBA frames into an animated GIF.
//
// New returns a linked Collector/Writer pair sharing a bounded channel: a
// producing goroutine submits frames through the Collector while the
// Writer quantizes and encodes them on its own goroutine, so decoding and
// encoding overlap with a fixed number of frames in flight.
package gif

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	stdgif "image/gif"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"

	"github.com/obinnaokechukwu/webmgif/pipeline"
)

var (
	// ErrNoFrames is returned by Write when the collector was closed
	// before any frame was submitted.
	ErrNoFrames = errors.New("gif: no frames were submitted")
	// ErrCollectorClosed is returned by AddFrame after Close.
	ErrCollectorClosed = errors.New("gif: collector is closed")
	// ErrFrameOrder is returned when frame indexes arrive out of sequence.
	ErrFrameOrder = errors.New("gif: frames must be submitted in order")
)

// Repeat controls how many times the animation loops, using the GIF
// convention: 0 loops forever, -1 plays once, and a positive value
// replays the animation that many times after the first pass.
type Repeat int

const (
	// RepeatInfinite loops forever. It is the zero value.
	RepeatInfinite Repeat = 0
	// RepeatOnce plays the animation a single time.
	RepeatOnce Repeat = -1
)

// Settings configures one encode.
type Settings struct {
	// Width and Height set the output size in pixels. Zero means
	// "derive from the source": both zero keeps the source size, one
	// zero preserves the aspect ratio.
	Width  int
	Height int
	// Quality in 1..100 sets how many palette entries each frame may
	// use. Zero means 100.
	Quality int
	// Fast trades dithering and resampling quality for speed.
	Fast bool
	// Repeat sets the loop count.
	Repeat Repeat
}

// Progress receives encoding progress: one Advance call per encoded
// frame, then one Done call after the GIF has been written out.
type Progress interface {
	Advance()
	Done()
}

// frameBuffer is the capacity of the channel between the Collector and
// the Writer. It bounds how many converted RGBA frames sit in memory
// while the encoder is busy.
const frameBuffer = 4

// New validates settings and returns a linked Collector/Writer pair.
func New(s Settings) (*Collector, *Writer, error) {
	if s.Quality == 0 {
		s.Quality = 100
	}
	if s.Quality < 1 || s.Quality > 100 {
		return nil, nil, fmt.Errorf("gif: quality %d out of range 1..100", s.Quality)
	}
	if s.Width < 0 || s.Height < 0 {
		return nil, nil, fmt.Errorf("gif: negative target size %dx%d", s.Width, s.Height)
	}

	frames := make(chan pipeline.Frame, frameBuffer)
	return &Collector{frames: frames}, &Writer{frames: frames, settings: s}, nil
}

// Collector is the submitting half of an encode. It is owned by one
// producing goroutine: AddFrame and Close must not be called
// concurrently.
type Collector struct {
	frames chan<- pipeline.Frame
	next   int
	closed bool
}

// AddFrame submits the frame with the given sequence index. Indexes start
// at 0 and must arrive in order. AddFrame blocks while the in-flight
// buffer is full and returns the context's error if ctx ends first.
func (c *Collector) AddFrame(ctx context.Context, index int, f pipeline.Frame) error {
	if c.closed {
		return ErrCollectorClosed
	}
	if index != c.next {
		return fmt.Errorf("%w: got %d, want %d", ErrFrameOrder, index, c.next)
	}
	if want := f.Width * f.Height * 4; len(f.Raster) != want {
		return fmt.Errorf("gif: frame %d raster is %d bytes, want %d", index, len(f.Raster), want)
	}

	f.Index = index
	select {
	case c.frames <- f:
		c.next++
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more frames will arrive. Safe to call more than
// once; AddFrame fails afterwards.
func (c *Collector) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.frames)
}

// Writer is the encoding half. Write drains every submitted frame before
// the GIF stream is assembled, so the whole animation is held in memory
// in paletted form (one byte per pixel per frame).
type Writer struct {
	frames   <-chan pipeline.Frame
	settings Settings
}

// Write encodes everything the paired Collector submits into dst. It
// returns once the collector is closed and the GIF is fully written.
// p may be nil.
func (w *Writer) Write(dst io.Writer, p Progress) error {
	var (
		images []*image.Paletted
		stamps []float64

		sized         bool
		width, height int
	)

	for f := range w.frames {
		if !sized {
			width, height = targetSize(w.settings, f.Width, f.Height)
			sized = true
		}
		images = append(images, w.palettize(f, width, height))
		stamps = append(stamps, f.PTS)
		if p != nil {
			p.Advance()
		}
	}

	if len(images) == 0 {
		return ErrNoFrames
	}

	g := &stdgif.GIF{
		Image:     images,
		Delay:     delaysFrom(stamps),
		LoopCount: int(w.settings.Repeat),
	}
	if err := stdgif.EncodeAll(dst, g); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}

	if p != nil {
		p.Done()
	}
	return nil
}

// palettize scales one RGBA frame to the target size if needed, reduces
// it to a per-frame palette, and maps the pixels onto it.
func (w *Writer) palettize(f pipeline.Frame, width, height int) *image.Paletted {
	rgba := &image.RGBA{
		Pix:    f.Raster,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}

	if width != f.Width || height != f.Height {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		w.scaler().Scale(scaled, scaled.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)
		rgba = scaled
	}

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, w.maxColors()), rgba)

	out := image.NewPaletted(rgba.Bounds(), palette)
	if w.settings.Fast {
		draw.Draw(out, out.Bounds(), rgba, image.Point{}, draw.Src)
	} else {
		draw.FloydSteinberg.Draw(out, out.Bounds(), rgba, image.Point{})
	}
	return out
}

func (w *Writer) maxColors() int {
	n := w.settings.Quality * 256 / 100
	if n < 2 {
		n = 2
	}
	if n > 256 {
		n = 256
	}
	return n
}

func (w *Writer) scaler() draw.Scaler {
	if w.settings.Fast {
		return draw.ApproxBiLinear
	}
	return draw.CatmullRom
}

// targetSize resolves the output dimensions against the first frame's.
func targetSize(s Settings, srcW, srcH int) (int, int) {
	switch {
	case s.Width == 0 && s.Height == 0:
		return srcW, srcH
	case s.Width == 0:
		return atLeast1(srcW * s.Height / srcH), s.Height
	case s.Height == 0:
		return s.Width, atLeast1(srcH * s.Width / srcW)
	default:
		return s.Width, s.Height
	}
}

func atLeast1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Frame delays in hundredths of a second. Renderers stall on delays
// under 2, and a lone frame gets a nominal hold time.
const (
	minDelay     = 2
	defaultDelay = 10
)

// delaysFrom converts per-frame timestamps into GIF frame delays.
// Rounding is applied against the running total so error does not
// accumulate across frames. The last frame, having no successor, holds
// as long as its predecessor did.
func delaysFrom(stamps []float64) []int {
	delays := make([]int, len(stamps))
	if len(stamps) < 2 {
		delays[0] = defaultDelay
		return delays
	}

	elapsed := 0
	for i := 0; i < len(stamps)-1; i++ {
		next := int(math.Round((stamps[i+1] - stamps[0]) * 100))
		d := next - elapsed
		if d < minDelay {
			d = minDelay
		}
		delays[i] = d
		elapsed += d
	}
	delays[len(stamps)-1] = delays[len(stamps)-2]
	return delays
}

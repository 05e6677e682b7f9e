//go:build !ios && !android && (amd64 || arm64)

package gif

import (
	"bytes"
	"context"
	"image/color"
	stdgif "image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/webmgif/pipeline"
)

func solidFrame(w, h int, c color.RGBA, pts float64) pipeline.Frame {
	raster := make([]byte, w*h*4)
	for i := 0; i < len(raster); i += 4 {
		raster[i], raster[i+1], raster[i+2], raster[i+3] = c.R, c.G, c.B, c.A
	}
	return pipeline.Frame{Raster: raster, Width: w, Height: h, PTS: pts}
}

// encode runs a Collector/Writer pair to completion and decodes the result.
func encode(t *testing.T, s Settings, frames []pipeline.Frame) *stdgif.GIF {
	t.Helper()

	collector, writer, err := New(s)
	require.NoError(t, err)

	go func() {
		defer collector.Close()
		for i, f := range frames {
			if err := collector.AddFrame(context.Background(), i, f); err != nil {
				t.Errorf("AddFrame(%d): %v", i, err)
				return
			}
		}
	}()

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, nil))

	decoded, err := stdgif.DecodeAll(&buf)
	require.NoError(t, err, "output must be a decodable GIF stream")
	return decoded
}

func TestEncodeRoundTrip(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	decoded := encode(t, Settings{}, []pipeline.Frame{
		solidFrame(4, 4, red, 0),
		solidFrame(4, 4, green, 0.1),
		solidFrame(4, 4, blue, 0.25),
	})

	require.Len(t, decoded.Image, 3)
	assert.Equal(t, []int{10, 15, 15}, decoded.Delay)
	assert.Equal(t, 0, decoded.LoopCount, "default repeat is infinite")
	for i, img := range decoded.Image {
		assert.Equal(t, 4, img.Bounds().Dx(), "frame %d width", i)
		assert.Equal(t, 4, img.Bounds().Dy(), "frame %d height", i)
	}
}

func TestEncodeRepeat(t *testing.T) {
	cases := []struct {
		repeat Repeat
		want   int
	}{
		{RepeatInfinite, 0},
		{RepeatOnce, -1},
		{Repeat(3), 3},
	}
	for _, tc := range cases {
		decoded := encode(t, Settings{Repeat: tc.repeat}, []pipeline.Frame{
			solidFrame(2, 2, color.RGBA{A: 255}, 0),
		})
		assert.Equal(t, tc.want, decoded.LoopCount, "repeat %d", tc.repeat)
	}
}

func TestEncodeScaling(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
		wantW    int
		wantH    int
	}{
		{"source size", Settings{}, 8, 4},
		{"width only keeps aspect", Settings{Width: 4}, 4, 2},
		{"height only keeps aspect", Settings{Height: 2}, 4, 2},
		{"both override aspect", Settings{Width: 4, Height: 6}, 4, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := encode(t, tc.settings, []pipeline.Frame{
				solidFrame(8, 4, color.RGBA{R: 200, A: 255}, 0),
			})
			bounds := decoded.Image[0].Bounds()
			assert.Equal(t, tc.wantW, bounds.Dx())
			assert.Equal(t, tc.wantH, bounds.Dy())
		})
	}
}

func TestEncodeQualityBoundsPalette(t *testing.T) {
	// Half red, half blue.
	f := solidFrame(4, 4, color.RGBA{R: 255, A: 255}, 0)
	for i := len(f.Raster) / 2; i < len(f.Raster); i += 4 {
		f.Raster[i], f.Raster[i+2] = 0, 255
	}

	decoded := encode(t, Settings{Quality: 1, Fast: true}, []pipeline.Frame{f})
	assert.LessOrEqual(t, len(decoded.Image[0].Palette), 2,
		"quality 1 must collapse the palette")
}

func TestNewValidation(t *testing.T) {
	for _, s := range []Settings{
		{Quality: 101},
		{Quality: -5},
		{Width: -1},
		{Height: -3},
	} {
		_, _, err := New(s)
		assert.Error(t, err, "settings %+v", s)
	}
}

func TestAddFrameOutOfOrder(t *testing.T) {
	collector, _, err := New(Settings{})
	require.NoError(t, err)

	err = collector.AddFrame(context.Background(), 1, solidFrame(2, 2, color.RGBA{}, 0))
	require.ErrorIs(t, err, ErrFrameOrder)
}

func TestAddFrameAfterClose(t *testing.T) {
	collector, _, err := New(Settings{})
	require.NoError(t, err)

	collector.Close()
	collector.Close() // idempotent

	err = collector.AddFrame(context.Background(), 0, solidFrame(2, 2, color.RGBA{}, 0))
	require.ErrorIs(t, err, ErrCollectorClosed)
}

func TestAddFrameRasterLength(t *testing.T) {
	collector, _, err := New(Settings{})
	require.NoError(t, err)

	f := solidFrame(2, 2, color.RGBA{}, 0)
	f.Raster = f.Raster[:8]
	err = collector.AddFrame(context.Background(), 0, f)
	require.Error(t, err)
}

func TestAddFrameCanceled(t *testing.T) {
	collector, _, err := New(Settings{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With nobody draining, submission keeps up only until the buffer
	// fills; the canceled context must break the block.
	for i := 0; i < 100; i++ {
		err = collector.AddFrame(ctx, i, solidFrame(2, 2, color.RGBA{}, 0))
		if err != nil {
			break
		}
	}
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteNoFrames(t *testing.T) {
	collector, writer, err := New(Settings{})
	require.NoError(t, err)

	collector.Close()

	var buf bytes.Buffer
	err = writer.Write(&buf, nil)
	require.ErrorIs(t, err, ErrNoFrames)
	assert.Zero(t, buf.Len(), "nothing may be written without frames")
}

type countingProgress struct {
	advanced int
	done     int
}

func (p *countingProgress) Advance() { p.advanced++ }
func (p *countingProgress) Done()    { p.done++ }

func TestWriteReportsProgress(t *testing.T) {
	collector, writer, err := New(Settings{Fast: true})
	require.NoError(t, err)

	go func() {
		defer collector.Close()
		for i := 0; i < 3; i++ {
			if err := collector.AddFrame(context.Background(), i, solidFrame(2, 2, color.RGBA{A: 255}, float64(i)/10)); err != nil {
				t.Errorf("AddFrame(%d): %v", i, err)
				return
			}
		}
	}()

	var (
		buf bytes.Buffer
		p   countingProgress
	)
	require.NoError(t, writer.Write(&buf, &p))
	assert.Equal(t, 3, p.advanced)
	assert.Equal(t, 1, p.done)
}

func TestDelaysFrom(t *testing.T) {
	cases := []struct {
		name   string
		stamps []float64
		want   []int
	}{
		{"single frame", []float64{0}, []int{10}},
		{"ten fps", []float64{0, 0.1, 0.25}, []int{10, 15, 15}},
		{"sixty fps clamps", []float64{0, 1.0 / 60, 2.0 / 60}, []int{2, 2, 2}},
		{"offset start", []float64{1, 1.5}, []int{50, 50}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, delaysFrom(tc.stamps))
		})
	}
}

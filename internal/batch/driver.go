//go:build !ios && !android && (amd64 || arm64)

package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/obinnaokechukwu/webmgif"
	"github.com/obinnaokechukwu/webmgif/avutil"
	"github.com/obinnaokechukwu/webmgif/gif"
	"github.com/obinnaokechukwu/webmgif/pipeline"
)

var errInvalidDuration = errors.New("invalid duration")

// convertFile runs one conversion: decode on a spawned goroutine, encode
// on this one, joined by the pipeline.
func (r *Runner) convertFile(ctx context.Context, item Item) error {
	start := time.Now()

	container, err := webmgif.Open(item.Input)
	if err != nil {
		return err
	}
	defer container.Close()

	duration := container.Duration()
	stream, err := container.BestVideoStream()
	if err != nil {
		return err
	}

	estimated := estimateFrames(duration, stream.FrameRate())
	if estimated <= 0 {
		return errInvalidDuration
	}

	collector, writer, err := gif.New(r.settings)
	if err != nil {
		return err
	}

	bar := r.newProgress(filepath.Base(item.Input), estimated)
	var progress gif.Progress
	if bar != nil {
		progress = bar
	}

	produce := func(ctx context.Context) error {
		defer collector.Close()

		decoder, err := stream.OpenDecoder(r.codec)
		if err != nil {
			return err
		}
		defer decoder.Close()

		for index := 0; ; index++ {
			frame, err := decoder.ReadFrame()
			if err != nil {
				return err
			}
			if frame == nil {
				return nil
			}
			pf := pipeline.Frame{
				Raster: frame.Raster,
				Width:  frame.Width,
				Height: frame.Height,
				PTS:    frame.PTS,
			}
			if err := collector.AddFrame(ctx, index, pf); err != nil {
				return err
			}
		}
	}

	consume := func(ctx context.Context) error {
		out, err := r.fs.Create(item.Output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", item.Output, err)
		}
		buffered := bufio.NewWriter(out)
		if err := writer.Write(buffered, progress); err != nil {
			out.Close()
			return err
		}
		if err := buffered.Flush(); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", item.Output, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", item.Output, err)
		}
		return nil
	}

	err = pipeline.Run(ctx, produce, consume)
	if bar != nil {
		bar.abandon()
	}
	if err != nil {
		return err
	}

	info, err := r.fs.Stat(item.Output)
	if err != nil {
		return fmt.Errorf("stat %s: %w", item.Output, err)
	}
	fmt.Fprintf(r.out, "Finished %s in %ds, %s\n",
		r.paint(text.FgHiCyan, filepath.Base(item.Output)),
		int(time.Since(start).Seconds()),
		humanize.Bytes(uint64(info.Size())))
	return nil
}

// estimateFrames projects the frame count from the container duration
// (microseconds) and the stream frame rate, in the order that keeps the
// arithmetic in integers.
func estimateFrames(duration int64, fps avutil.Rational) int64 {
	if fps.IsZero() || fps.Den == 0 {
		return 0
	}
	return duration * int64(fps.Num) / avutil.TimeBase / int64(fps.Den)
}

// barProgress adapts a terminal progress bar to the encoder's callback.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Advance() { _ = p.bar.Add(1) }
func (p *barProgress) Done()    { _ = p.bar.Finish() }

// abandon erases the bar when the encode ended without Done.
func (p *barProgress) abandon() { _ = p.bar.Clear() }

// newProgress builds the per-file bar, or nil when the output is not a
// terminal.
func (r *Runner) newProgress(name string, total int64) *barProgress {
	if !r.tty {
		return nil
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(
			r.paint(text.FgHiGreen, "Processing")+" "+text.AlignRight.Apply(name, r.nameWidth)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

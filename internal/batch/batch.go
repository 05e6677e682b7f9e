//go:build !ios && !android && (amd64 || arm64)

// Package batch selects WebM inputs and drives their conversion to GIF,
// one file at a time, reporting progress and an end-of-run summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/obinnaokechukwu/webmgif"
	"github.com/obinnaokechukwu/webmgif/gif"
)

// Options configures a batch run.
type Options struct {
	Settings gif.Settings
	Codec    webmgif.Codec
	Quiet    bool
}

// Runner converts a set of WebM files. Construct one with New; a Runner
// is good for a single Run call.
type Runner struct {
	fs       afero.Fs
	log      *slog.Logger
	out      io.Writer
	settings gif.Settings
	codec    webmgif.Codec

	tty       bool
	nameWidth int

	// Test seams: symlink resolution touches the OS, convert drives the
	// whole FFmpeg pipeline, and the scan root is the process cwd.
	resolve func(string) (string, error)
	convert func(context.Context, Item) error
	scanDir string
}

// New builds a Runner writing user-facing lines to out.
func New(fsys afero.Fs, log *slog.Logger, out io.Writer, opts Options) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Runner{
		fs:       fsys,
		log:      log,
		out:      out,
		settings: opts.Settings,
		codec:    opts.Codec,
	}
	if f, ok := out.(*os.File); ok && !opts.Quiet {
		r.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	r.resolve = filepath.EvalSymlinks
	r.convert = r.convertFile
	r.scanDir = "."
	return r
}

// failure records one item that did not convert.
type failure struct {
	item Item
	err  error
}

// Run converts the files named by args, or everything the directory scan
// selects when args is empty. One item's failure does not stop the rest:
// failures are collected, summarized at the end, and folded into the
// returned error.
func (r *Runner) Run(ctx context.Context, args []string) error {
	items, skipped, err := r.plan(args)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		if skipped > 0 {
			fmt.Fprintln(r.out, "All input files are already transcoded")
		} else {
			fmt.Fprintln(r.out, "No input files are detected")
		}
		return nil
	}

	word := "file"
	if len(items) > 1 {
		word = "files"
	}
	if skipped > 0 {
		fmt.Fprintf(r.out, "Transcoding %d %s (%d skipped)\n", len(items), word, skipped)
	} else {
		fmt.Fprintf(r.out, "Transcoding %d %s\n", len(items), word)
	}

	r.nameWidth = 0
	for _, item := range items {
		if w := text.RuneWidthWithoutEscSequences(filepath.Base(item.Input)); w > r.nameWidth {
			r.nameWidth = w
		}
	}

	var failures []failure
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.convert(ctx, item); err != nil {
			r.log.Error("conversion failed", "input", item.Input, "error", err)
			r.removePartialOutput(item.Output)
			failures = append(failures, failure{item: item, err: err})
		}
	}

	if len(failures) == 0 {
		return nil
	}
	r.printFailures(failures)
	return fmt.Errorf("batch: %d of %d conversions failed", len(failures), len(items))
}

// removePartialOutput deletes whatever a failed conversion left behind.
func (r *Runner) removePartialOutput(path string) {
	if err := r.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("could not remove partial output", "path", path, "error", err)
	}
}

func (r *Runner) printFailures(failures []failure) {
	fmt.Fprintln(r.out)

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Error"})
	for _, f := range failures {
		tw.AppendRow(table.Row{f.item.Input, f.err.Error()})
	}
	tw.Render()
}

// paint colors s when the output is a terminal.
func (r *Runner) paint(color text.Color, s string) string {
	if !r.tty {
		return s
	}
	return color.Sprint(s)
}

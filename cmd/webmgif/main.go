//go:build !ios && !android && (amd64 || arm64)

// Package main provides the CLI entry point for webmgif.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/obinnaokechukwu/webmgif"
	"github.com/obinnaokechukwu/webmgif/gif"
	"github.com/obinnaokechukwu/webmgif/internal/batch"
	"github.com/obinnaokechukwu/webmgif/internal/config"
	"github.com/obinnaokechukwu/webmgif/internal/logging"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "webmgif",
		Usage:     "convert WebM videos into animated GIFs",
		ArgsUsage: "[file ...]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read defaults from a TOML `FILE`",
			},
			&cli.IntFlag{
				Name:    "quality",
				Aliases: []string{"q"},
				Usage:   "GIF quality from 1 to 100",
			},
			&cli.BoolFlag{
				Name:  "fast",
				Usage: "trade quality for encoding speed",
			},
			&cli.StringFlag{
				Name:  "codec",
				Usage: "input video codec, vp8 or vp9",
			},
			&cli.IntFlag{
				Name:  "repeat",
				Usage: "loop count: 0 loops forever, -1 plays once",
			},
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"W"},
				Usage:   "output width in pixels (0 keeps the source size)",
			},
			&cli.IntFlag{
				Name:    "height",
				Aliases: []string{"H"},
				Usage:   "output height in pixels (0 keeps the source size)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "also log to a rotating `FILE`",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"Q"},
				Usage:   "suppress console logging and progress bars",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	fsys := afero.NewOsFs()

	cfg, err := config.Load(fsys, c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
		Quiet:    c.Bool("quiet"),
	})
	if err != nil {
		return err
	}

	codec, err := webmgif.ParseCodec(cfg.Codec)
	if err != nil {
		return err
	}

	if err := webmgif.Init(); err != nil {
		return fmt.Errorf("loading FFmpeg: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("interrupted, shutting down")
		cancel()
	}()

	runner := batch.New(fsys, log, os.Stdout, batch.Options{
		Settings: gif.Settings{
			Width:   c.Int("width"),
			Height:  c.Int("height"),
			Quality: cfg.Quality,
			Fast:    cfg.Fast,
			Repeat:  gif.Repeat(cfg.Repeat),
		},
		Codec: codec,
		Quiet: c.Bool("quiet"),
	})
	return runner.Run(ctx, c.Args().Slice())
}

// applyFlags lays explicitly set flags over the file-provided defaults.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("fast") {
		cfg.Fast = c.Bool("fast")
	}
	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("repeat") {
		cfg.Repeat = c.Int("repeat")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
}

//go:build !ios && !android && (amd64 || arm64)

// Package pipeline runs a two-stage producer/consumer transfer and joins
// the results. The stages hand frames over whatever channel they share;
// this package only owns the lifecycle: both stages see one derived
// context, either stage failing cancels the other, and Run does not
// return until both have.
package pipeline

import (
	"context"
	"errors"
)

// Frame is one converted video frame in flight between stages. Raster is
// RGBA, 4 bytes per pixel, exactly Width*Height*4 long; ownership moves
// with the frame. Index counts frames from 0 in decode order and PTS is
// the presentation time in seconds.
type Frame struct {
	Index  int
	Raster []byte
	Width  int
	Height int
	PTS    float64
}

// Stage is one half of a transfer. It returns when its work is done, its
// context is canceled, or it fails. A producing stage is responsible for
// closing the shared channel on its way out so the consumer unblocks.
type Stage func(ctx context.Context) error

// Run executes produce on a new goroutine and consume on the calling one,
// cancels the shared context as soon as the consumer returns, and waits
// for the producer. When both stages fail, the producer's error wins: the
// consumer usually fails as a downstream echo of a starved channel.
func Run(ctx context.Context, produce, consume Stage) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	produced := make(chan error, 1)
	go func() {
		err := produce(ctx)
		if isFailure(err) {
			// A consumer blocked on the context rather than the shared
			// channel must also learn the transfer is over.
			cancel()
		}
		produced <- err
	}()

	consumeErr := consume(ctx)

	// Unblock the producer if it is still parked on a full channel.
	cancel()
	produceErr := <-produced

	switch {
	case isFailure(produceErr):
		return produceErr
	case isFailure(consumeErr):
		return consumeErr
	case produceErr != nil:
		return produceErr
	default:
		return consumeErr
	}
}

// isFailure reports whether err is the stage's own failure rather than the
// echo of a cancellation triggered from outside it.
func isFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

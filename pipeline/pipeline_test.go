//go:build !ios && !android && (amd64 || arm64)

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errProduce = errors.New("produce failed")
	errConsume = errors.New("consume failed")
)

func TestRunBothSucceed(t *testing.T) {
	frames := make(chan Frame, 2)

	produce := func(ctx context.Context) error {
		defer close(frames)
		for i := 0; i < 10; i++ {
			select {
			case frames <- Frame{Index: i}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	var got []int
	consume := func(ctx context.Context) error {
		for f := range frames {
			got = append(got, f.Index)
		}
		return nil
	}

	require.NoError(t, Run(context.Background(), produce, consume))
	require.Len(t, got, 10)
	for i, idx := range got {
		assert.Equal(t, i, idx, "frames must arrive in order")
	}
}

func TestRunConsumerFailureUnblocksProducer(t *testing.T) {
	frames := make(chan Frame, 2)

	var sent int
	produce := func(ctx context.Context) error {
		defer close(frames)
		for i := 0; i < 100; i++ {
			select {
			case frames <- Frame{Index: i}:
				sent++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	consume := func(ctx context.Context) error {
		for i := 0; i < 5; i++ {
			<-frames
		}
		return errConsume
	}

	start := time.Now()
	err := Run(context.Background(), produce, consume)
	require.ErrorIs(t, err, errConsume)
	assert.Less(t, sent, 100, "producer should have been cut short")
	assert.Less(t, time.Since(start), 5*time.Second, "producer must not stay parked")
}

func TestRunProducerErrorWins(t *testing.T) {
	frames := make(chan Frame, 2)

	produce := func(ctx context.Context) error {
		defer close(frames)
		frames <- Frame{Index: 0}
		return errProduce
	}

	consume := func(ctx context.Context) error {
		for range frames {
		}
		return nil
	}

	err := Run(context.Background(), produce, consume)
	require.ErrorIs(t, err, errProduce)
}

func TestRunBothFailProducerWins(t *testing.T) {
	frames := make(chan Frame, 2)

	produce := func(ctx context.Context) error {
		defer close(frames)
		return errProduce
	}
	consume := func(ctx context.Context) error {
		for range frames {
		}
		return errConsume
	}

	err := Run(context.Background(), produce, consume)
	require.ErrorIs(t, err, errProduce)
	assert.NotErrorIs(t, err, errConsume)
}

func TestRunConsumerCancellationEchoLoses(t *testing.T) {
	frames := make(chan Frame)

	produce := func(ctx context.Context) error {
		defer close(frames)
		return errProduce
	}
	// The consumer reports the cancellation it was handed, not a failure
	// of its own; the producer's real error must surface.
	consume := func(ctx context.Context) error {
		for range frames {
		}
		<-ctx.Done()
		return ctx.Err()
	}

	err := Run(context.Background(), produce, consume)
	require.ErrorIs(t, err, errProduce)
}

func TestRunParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	err := Run(ctx, stage, stage)
	require.ErrorIs(t, err, context.Canceled)
}

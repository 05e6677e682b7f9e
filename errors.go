//go:build !ios && !android && (amd64 || arm64)

package webmgif

import "errors"

// Common errors
var (
	// ErrOutOfMemory indicates a native allocation failed.
	ErrOutOfMemory = errors.New("webmgif: out of memory")

	// ErrClosed indicates the resource has been closed.
	ErrClosed = errors.New("webmgif: resource is closed")

	// ErrEmptyInput indicates the container opened without error but
	// produced no usable handle.
	ErrEmptyInput = errors.New("webmgif: empty input")

	// ErrInconsistentFormat indicates a decoded frame's dimensions or
	// pixel format differ from the first frame of the session. The
	// session is unusable afterwards.
	ErrInconsistentFormat = errors.New("webmgif: inconsistent frame format")

	// ErrCorruptFrame indicates the codec flagged a decoded frame as
	// corrupted. The session is unusable afterwards.
	ErrCorruptFrame = errors.New("webmgif: corrupt frame")

	// ErrNegativeTimestamp indicates a decoded frame carried a negative
	// presentation timestamp.
	ErrNegativeTimestamp = errors.New("webmgif: negative pts")

	// ErrConvertFailed indicates the pixel format conversion to RGBA
	// produced no output.
	ErrConvertFailed = errors.New("webmgif: pixel conversion failed")
)

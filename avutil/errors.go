//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
)

// Errno is an FFmpeg error code: a negative AVERROR value as returned by the
// C API. It implements error, so call sites can match specific codes with
// errors.Is even through wrapped chains.
type Errno int32

// FFmpeg error codes from libavutil/error.h. Each FFERRTAG value packs four
// tag bytes little-endian and negates the result. POSIX errors (EAGAIN,
// ENOMEM, ...) are not listed here; they pass through as negated errno
// values and compare the same way.
const (
	AVERROR_BSF_NOT_FOUND      Errno = -1179861752 // FFERRTAG(0xF8,'B','S','F')
	AVERROR_BUG                Errno = -558323010  // FFERRTAG('B','U','G','!')
	AVERROR_BUFFER_TOO_SMALL   Errno = -1397118274 // FFERRTAG('B','U','F','S')
	AVERROR_DECODER_NOT_FOUND  Errno = -1128613112 // FFERRTAG(0xF8,'D','E','C')
	AVERROR_DEMUXER_NOT_FOUND  Errno = -1296385272 // FFERRTAG(0xF8,'D','E','M')
	AVERROR_ENCODER_NOT_FOUND  Errno = -1129203192 // FFERRTAG(0xF8,'E','N','C')
	AVERROR_EOF                Errno = -541478725  // FFERRTAG('E','O','F',' ')
	AVERROR_EXIT               Errno = -1414092869 // FFERRTAG('E','X','I','T')
	AVERROR_EXTERNAL           Errno = -542398533  // FFERRTAG('E','X','T',' ')
	AVERROR_FILTER_NOT_FOUND   Errno = -1279870712 // FFERRTAG(0xF8,'F','I','L')
	AVERROR_INVALIDDATA        Errno = -1094995529 // FFERRTAG('I','N','D','A')
	AVERROR_MUXER_NOT_FOUND    Errno = -1481985528 // FFERRTAG(0xF8,'M','U','X')
	AVERROR_OPTION_NOT_FOUND   Errno = -1414549496 // FFERRTAG(0xF8,'O','P','T')
	AVERROR_PATCHWELCOME       Errno = -1163346256 // FFERRTAG('P','A','W','E')
	AVERROR_PROTOCOL_NOT_FOUND Errno = -1330794744 // FFERRTAG(0xF8,'P','R','O')
	AVERROR_STREAM_NOT_FOUND   Errno = -1381258232 // FFERRTAG(0xF8,'S','T','R')
	AVERROR_BUG2               Errno = -541545794  // FFERRTAG('B','U','G',' ')
	AVERROR_UNKNOWN            Errno = -1313558101 // FFERRTAG('U','N','K','N')
	AVERROR_EXPERIMENTAL       Errno = -733130664  // -0x2bb2afa8
	AVERROR_INPUT_CHANGED      Errno = -1668179713 // -0x636e6701
	AVERROR_OUTPUT_CHANGED     Errno = -1668179714 // -0x636e6702
	AVERROR_HTTP_BAD_REQUEST   Errno = -808465656  // FFERRTAG(0xF8,'4','0','0')
	AVERROR_HTTP_UNAUTHORIZED  Errno = -825242872  // FFERRTAG(0xF8,'4','0','1')
	AVERROR_HTTP_FORBIDDEN     Errno = -858797304  // FFERRTAG(0xF8,'4','0','3')
	AVERROR_HTTP_NOT_FOUND     Errno = -875574520  // FFERRTAG(0xF8,'4','0','4')
	AVERROR_HTTP_OTHER_4XX     Errno = -1482175736 // FFERRTAG(0xF8,'4','X','X')
	AVERROR_HTTP_SERVER_ERROR  Errno = -1482175992 // FFERRTAG(0xF8,'5','X','X')
)

// Negated POSIX errno codes. The underlying values are platform-specific,
// so these cannot be constants.
var (
	AVERROR_EAGAIN = Errno(-int32(syscall.EAGAIN)) // Resource temporarily unavailable
	AVERROR_EINVAL = Errno(-int32(syscall.EINVAL)) // Invalid argument
	AVERROR_ENOMEM = Errno(-int32(syscall.ENOMEM)) // Out of memory
)

// strerrorCache caches av_strerror results per code. The codes seen by a
// running program form a small closed set, so the map stays tiny.
var strerrorCache sync.Map // Errno -> string

// Message returns the human-readable description for the code. The first
// call for a given code goes through av_strerror; later calls hit the cache.
func (e Errno) Message() string {
	if v, ok := strerrorCache.Load(e); ok {
		return v.(string)
	}
	if avStrerror == nil {
		// Not cached: the real message should still be fetched once the
		// libraries are loaded.
		return "unknown error (FFmpeg not loaded)"
	}
	v, _ := strerrorCache.LoadOrStore(e, ErrorString(int32(e)))
	return v.(string)
}

// Error implements the error interface.
func (e Errno) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message(), int32(e))
}

// Error represents an FFmpeg error tied to the operation that produced it.
type Error struct {
	Code Errno  // Raw FFmpeg error code
	Op   string // Operation that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ffmpeg %s: %s (code %d)", e.Op, e.Code.Message(), int32(e.Code))
}

// Unwrap exposes the underlying code so errors.Is(err, AVERROR_EOF) matches
// through wrapped chains.
func (e *Error) Unwrap() error {
	return e.Code
}

// NewError creates a new FFmpeg error from an error code.
// Returns nil if code is >= 0 (success).
func NewError(code int32, op string) error {
	if code >= 0 {
		return nil
	}
	return &Error{Code: Errno(code), Op: op}
}

// IsEOF returns true if the error indicates end of file.
func IsEOF(err error) bool {
	return errors.Is(err, AVERROR_EOF)
}

// IsAgain returns true if the error indicates to try again (EAGAIN).
// This is common during decoding when the codec needs more input.
func IsAgain(err error) bool {
	return errors.Is(err, AVERROR_EAGAIN)
}

// IsInvalidData returns true if the error indicates invalid data.
func IsInvalidData(err error) bool {
	return errors.Is(err, AVERROR_INVALIDDATA)
}

// Code returns the FFmpeg error code from an error, or 0 if the chain holds
// no FFmpeg error.
func Code(err error) Errno {
	var ffErr *Error
	if errors.As(err, &ffErr) {
		return ffErr.Code
	}
	var code Errno
	if errors.As(err, &code) {
		return code
	}
	return 0
}

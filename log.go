//go:build !ios && !android && (amd64 || arm64)

package webmgif

import (
	"sync"

	"github.com/obinnaokechukwu/webmgif/avutil"
)

var logLevelOnce sync.Once

// SetLogLevel sets FFmpeg's global log level (one of the avutil.Log*
// constants) and suppresses the warning clamp normally applied before the
// first Open. Call it after Init and before any Open.
func SetLogLevel(level int32) {
	logLevelOnce.Do(func() {})
	avutil.LogSetLevel(level)
}

// clampNativeLog caps FFmpeg's stderr output at warnings. The libraries
// default to info, which prints probe chatter for every opened file.
func clampNativeLog() {
	logLevelOnce.Do(func() {
		avutil.LogSetLevel(avutil.LogWarning)
	})
}

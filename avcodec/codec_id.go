//go:build !ios && !android && (amd64 || arm64)

package avcodec

// CodecID represents FFmpeg codec identifiers.
type CodecID int32

// Codec IDs for the streams a WebM container can carry, plus a few common
// video codecs worth naming in diagnostics when a mislabeled file shows up.
const (
	CodecIDNone CodecID = 0

	// Video codecs
	CodecIDMPEG4    CodecID = 12
	CodecIDRawVideo CodecID = 13
	CodecIDMJPEG    CodecID = 7
	CodecIDH264     CodecID = 27
	CodecIDTheora   CodecID = 30
	CodecIDVP8      CodecID = 139
	CodecIDVP9      CodecID = 167
	CodecIDHEVC     CodecID = 173 // H.265
	CodecIDAV1      CodecID = 226

	// Audio codecs (0x15000 block)
	CodecIDVorbis CodecID = 86021
	CodecIDOpus   CodecID = 86076
)

// String returns the string representation of the codec ID.
func (id CodecID) String() string {
	switch id {
	case CodecIDNone:
		return "none"
	case CodecIDMPEG4:
		return "mpeg4"
	case CodecIDRawVideo:
		return "rawvideo"
	case CodecIDMJPEG:
		return "mjpeg"
	case CodecIDH264:
		return "h264"
	case CodecIDTheora:
		return "theora"
	case CodecIDVP8:
		return "vp8"
	case CodecIDVP9:
		return "vp9"
	case CodecIDHEVC:
		return "hevc"
	case CodecIDAV1:
		return "av1"
	case CodecIDVorbis:
		return "vorbis"
	case CodecIDOpus:
		return "opus"
	default:
		return "unknown"
	}
}

// IsVideo returns true if the codec ID is for a video codec.
func (id CodecID) IsVideo() bool {
	return id > 0 && id < 65536
}

// IsAudio returns true if the codec ID is for an audio codec.
func (id CodecID) IsAudio() bool {
	return id >= 65536
}

//go:build !ios && !android && (amd64 || arm64)

package webmgif

import "testing"

func TestParseCodec(t *testing.T) {
	cases := []struct {
		in      string
		want    Codec
		wantErr bool
	}{
		{"vp9", CodecVP9, false},
		{"VP9", CodecVP9, false},
		{"vp8", CodecVP8, false},
		{"Vp8", CodecVP8, false},
		{"", CodecVP9, false},
		{"h264", 0, true},
		{"vp10", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseCodec(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCodec(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCodec(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCodec(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCodecString(t *testing.T) {
	if got := CodecVP9.String(); got != "vp9" {
		t.Errorf("CodecVP9: got %q", got)
	}
	if got := CodecVP8.String(); got != "vp8" {
		t.Errorf("CodecVP8: got %q", got)
	}
	if got := Codec(42).String(); got != "codec(42)" {
		t.Errorf("Codec(42): got %q", got)
	}
}

func TestCodecDecoderName(t *testing.T) {
	// These are the names FFmpeg registers for the libvpx wrappers; a
	// typo here fails every OpenDecoder call.
	if got := CodecVP9.decoderName(); got != "libvpx-vp9" {
		t.Errorf("CodecVP9: got %q, want %q", got, "libvpx-vp9")
	}
	if got := CodecVP8.decoderName(); got != "libvpx" {
		t.Errorf("CodecVP8: got %q, want %q", got, "libvpx")
	}
}

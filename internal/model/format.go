package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned when a format identifier is not one of the
// encodings Bandcamp offers for purchased media.
//
// Format validation happens before any network request, so a typo in
// -format fails fast instead of after enumerating the whole collection.
var ErrUnknownFormat = errors.New("unknown download format")

// Format identifies a target audio encoding for downloads.
//
// The value is the identifier Bandcamp uses as the key of the per-format
// download descriptors on a purchase's download page, e.g. "flac" or
// "mp3-320".
type Format string

// The known set of download encodings offered by Bandcamp.
const (
	FormatFLAC   Format = "flac"
	FormatMP3320 Format = "mp3-320"
	FormatMP3V0  Format = "mp3-v0"
	FormatAACHi  Format = "aac-hi"
	FormatVorbis Format = "vorbis"
	FormatALAC   Format = "alac"
	FormatWAV    Format = "wav"
	FormatAIFF   Format = "aiff-lossless"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatFLAC

// KnownFormats returns all recognized format identifiers, in display order.
func KnownFormats() []Format {
	return []Format{
		FormatFLAC,
		FormatMP3320,
		FormatMP3V0,
		FormatAACHi,
		FormatVorbis,
		FormatALAC,
		FormatWAV,
		FormatAIFF,
	}
}

// ParseFormat validates a format identifier from user input.
//
// The identifier is case-insensitive. An empty string yields DefaultFormat.
// Unknown identifiers return ErrUnknownFormat wrapped with the offending
// value and the list of valid choices.
//
// Example:
//
//	format, err := model.ParseFormat("mp3-320")
//	if errors.Is(err, model.ErrUnknownFormat) {
//	    // reject before touching the network
//	}
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return DefaultFormat, nil
	}

	candidate := Format(strings.ToLower(s))
	for _, f := range KnownFormats() {
		if candidate == f {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, s, FormatList())
}

// FormatList returns the known identifiers joined for help/error text.
func FormatList() string {
	formats := KnownFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DownloadTarget is a resolved download for one digital item: the direct
// CDN URL plus enough metadata to name the local file.
//
// Targets are produced per item by download resolution and consumed
// immediately by the fetcher, then discarded.
type DownloadTarget struct {
	// URL is the direct bcbits CDN URL to stream the file from.
	URL string

	// DownloadID identifies the purchase this target belongs to. It is
	// embedded in the local filename so later runs can skip the item.
	DownloadID int64

	// Artist and Title describe the digital item, used for fallback
	// naming and for tagging single-track downloads.
	Artist string
	Title  string

	// Format is the encoding this target was resolved for.
	Format Format
}

// LocalName computes the filename to save this target under.
//
// remoteName is the filename the CDN suggests via Content-Disposition.
// The download id is inserted in parentheses before the extension:
//
//	"Artist - Album.zip" -> "Artist - Album (123456).zip"
//
// When the CDN suggests nothing, a name is built from artist, title and
// format instead. Either way the result is sanitized for the filesystem.
func (t DownloadTarget) LocalName(remoteName string) string {
	if remoteName == "" {
		remoteName = fmt.Sprintf("%s - %s.%s", t.Artist, t.Title, t.Format)
	}

	ext := filepath.Ext(remoteName)
	stem := strings.TrimSuffix(remoteName, ext)
	name := fmt.Sprintf("%s (%d)%s", stem, t.DownloadID, ext)

	name = SanitizeFileName(name)

	// Clamp for Windows MAX_PATH compatibility.
	if len(name) >= 260 {
		maxLen := 259 - len(ext)
		if maxLen > 0 && maxLen < len(name) {
			name = name[:maxLen] + ext
		}
	}

	return name
}

// IsMP3 reports whether the target's encoding produces MP3 audio, the
// only kind the ID3 tagger can post-process.
func (t DownloadTarget) IsMP3() bool {
	return t.Format == FormatMP3320 || t.Format == FormatMP3V0
}

package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemType distinguishes the two kinds of purchasable media.
type ItemType int

const (
	// ItemTypeAlbum is a full release, delivered as a single archive.
	ItemTypeAlbum ItemType = iota

	// ItemTypeTrack is an individual track, delivered as one audio file.
	ItemTypeTrack
)

// String implements fmt.Stringer.
func (t ItemType) String() string {
	if t == ItemTypeTrack {
		return "track"
	}
	return "album"
}

// ParseItemType maps Bandcamp's item type strings onto ItemType.
//
// The order-history API reports "track" for single tracks and "album"
// (or package variants) for everything else. Anything unrecognized is
// treated as an album, the common case.
func ParseItemType(s string) ItemType {
	if strings.EqualFold(s, "track") {
		return ItemTypeTrack
	}
	return ItemTypeAlbum
}

// Item is one purchased entry in a user's collection.
//
// Items are produced by collection enumeration and consumed by download
// resolution. The DownloadID doubles as the marker used to recognize
// files from earlier runs (see DownloadedGlob).
//
// Example:
//
//	item := model.Item{
//	    DownloadID:  123456,
//	    Type:        model.ItemTypeAlbum,
//	    Artist:      "Some Artist",
//	    Title:       "Some Album",
//	    DownloadURL: "https://bandcamp.com/download?id=...",
//	}
//	fmt.Println(item.Display()) // "Some Artist - Some Album (123456)"
type Item struct {
	// DownloadID is Bandcamp's identifier for the purchased download.
	// Zero means the purchase has no digital component (merch etc.)
	// and cannot be downloaded.
	DownloadID int64

	// Type says whether this purchase is an album or a single track.
	Type ItemType

	// Artist is the artist name as reported by the order history.
	Artist string

	// Title is the item title as reported by the order history.
	Title string

	// DownloadURL is the purchase's download page, which embeds the
	// per-format download descriptors.
	DownloadURL string

	// ArtURL is the cover art image URL, if any.
	ArtURL string
}

// Downloadable reports whether the purchase has a digital download.
func (i Item) Downloadable() bool {
	return i.DownloadID != 0
}

// Display renders the item the way progress output names it.
func (i Item) Display() string {
	return fmt.Sprintf("%s - %s (%d)", i.Artist, i.Title, i.DownloadID)
}

// DownloadedGlob returns the glob pattern matching any file a previous
// run saved for this item. Saved filenames carry the download id in
// parentheses before the extension, so "*(id)*" finds them regardless of
// title or format.
func (i Item) DownloadedGlob() string {
	return fmt.Sprintf("*(%d)*", i.DownloadID)
}

// SanitizeFileName removes or replaces characters that are invalid in
// file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}

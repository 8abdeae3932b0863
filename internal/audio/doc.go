// Package audio post-processes downloaded audio files.
//
// The only processing the downloader does is optional ID3 tagging of
// single-track MP3 purchases (the -tag flag): the collection's artist
// and title, plus the item's cover art when available, are written onto
// the downloaded file. Archives and lossless formats pass through
// untouched.
package audio

// Package model defines the core data structures used throughout
// the collection downloader.
//
// # Item
//
// Item represents one purchase in the user's collection:
//
//	item := model.Item{DownloadID: 123, Type: model.ItemTypeAlbum, Artist: "A", Title: "T"}
//	fmt.Println(item.Display())        // How progress output names it
//	fmt.Println(item.DownloadedGlob()) // Pattern matching files from earlier runs
//
// # DownloadTarget
//
// DownloadTarget is a resolved download URL for a digital item:
//
//	target := model.DownloadTarget{URL: cdnURL, DownloadID: 123, Format: model.FormatFLAC}
//	name := target.LocalName("Artist - Album.zip") // "Artist - Album (123).zip"
//
// # Format
//
// Format enumerates the encodings Bandcamp offers. ParseFormat validates
// user input against the known set before anything touches the network:
//
//	format, err := model.ParseFormat("mp3-320")
//	if errors.Is(err, model.ErrUnknownFormat) { ... }
package model

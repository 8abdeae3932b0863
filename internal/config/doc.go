// Package config provides configuration management for the collection
// downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// FLAC format, downloads to the working directory, sequential,
//	// previously downloaded items skipped
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Defaults are returned if the file doesn't exist
//
// CLI flags overlay loaded values; see cmd/bandcamp-dl.
package config

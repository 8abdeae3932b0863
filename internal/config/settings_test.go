package config

import (
	"os"
	"path/filepath"
	"testing"

	"bandcamp-collection-dl/internal/model"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Format != "flac" {
		t.Errorf("Format = %q, want flac", s.Format)
	}
	if s.DownloadsPath != "." {
		t.Errorf("DownloadsPath = %q, want working directory", s.DownloadsPath)
	}
	if s.MaxConcurrentDownloads != 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want 1 (sequential)", s.MaxConcurrentDownloads)
	}
	if !s.SkipDownloaded {
		t.Error("SkipDownloaded should default to true")
	}

	format, err := s.ParseFormat()
	if err != nil {
		t.Fatalf("default format invalid: %v", err)
	}
	if format != model.FormatFLAC {
		t.Errorf("format = %q", format)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Format != DefaultSettings().Format {
		t.Errorf("Format = %q, want default", s.Format)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"format":"mp3-320","max_concurrent_downloads":4}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Format != "mp3-320" {
		t.Errorf("Format = %q, want mp3-320", s.Format)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("MaxConcurrentDownloads = %d, want 4", s.MaxConcurrentDownloads)
	}
	// Unset fields keep their defaults.
	if s.DownloadMaxRetries != 7 {
		t.Errorf("DownloadMaxRetries = %d, want default 7", s.DownloadMaxRetries)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	s := DefaultSettings()
	s.Format = "vorbis"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Format != "vorbis" {
		t.Errorf("Format = %q, want vorbis", loaded.Format)
	}
}

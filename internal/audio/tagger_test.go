package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"bandcamp-collection-dl/internal/model"
)

func TestTagger_SaveTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	// Minimal untagged MP3: a bare frame sync header.
	if err := os.WriteFile(path, []byte{0xFF, 0xFB, 0x90, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}

	target := model.DownloadTarget{
		DownloadID: 1,
		Artist:     "Test Artist",
		Title:      "Test Track",
		Format:     model.FormatMP3320,
	}

	if err := NewTagger().SaveTags(path, target, nil); err != nil {
		t.Fatalf("SaveTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopening tagged file: %v", err)
	}
	defer tag.Close()

	if got := tag.Artist(); got != "Test Artist" {
		t.Errorf("Artist = %q, want %q", got, "Test Artist")
	}
	if got := tag.Title(); got != "Test Track" {
		t.Errorf("Title = %q, want %q", got, "Test Track")
	}
}

func TestTagger_SaveTags_MissingFile(t *testing.T) {
	target := model.DownloadTarget{Artist: "A", Title: "T"}
	if err := NewTagger().SaveTags(filepath.Join(t.TempDir(), "nope.mp3"), target, nil); err == nil {
		t.Error("expected error for missing file")
	}
}

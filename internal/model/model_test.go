package model

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"flac", FormatFLAC, false},
		{"mp3-320", FormatMP3320, false},
		{"MP3-V0", FormatMP3V0, false},
		{"aiff-lossless", FormatAIFF, false},
		{"", FormatFLAC, false}, // empty falls back to the default
		{"ogg", "", true},
		{"mp3", "", true},
		{"mp3-128", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.zip", "normal-file.zip"},
		{"file:with:colons.zip", "file_with_colons.zip"},
		{"file<with>brackets.zip", "file_with_brackets.zip"},
		{"file/with\\slashes.zip", "file_with_slashes.zip"},
		{"file|with|pipes.zip", "file_with_pipes.zip"},
		{"file?with*wildcards.zip", "file_with_wildcards.zip"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDownloadTarget_LocalName(t *testing.T) {
	target := DownloadTarget{
		URL:        "https://p4.bcbits.com/download/album/x",
		DownloadID: 123456,
		Artist:     "Test Artist",
		Title:      "Test Album",
		Format:     FormatFLAC,
	}

	tests := []struct {
		name       string
		remoteName string
		want       string
	}{
		{
			name:       "archive with extension",
			remoteName: "Test Artist - Test Album.zip",
			want:       "Test Artist - Test Album (123456).zip",
		},
		{
			name:       "single file",
			remoteName: "Test Artist - Song.flac",
			want:       "Test Artist - Song (123456).flac",
		},
		{
			name:       "no remote name falls back to metadata",
			remoteName: "",
			want:       "Test Artist - Test Album (123456).flac",
		},
		{
			name:       "invalid characters sanitized",
			remoteName: "Artist: Live/2020.zip",
			want:       "Artist_ Live_2020 (123456).zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := target.LocalName(tt.remoteName)
			if got != tt.want {
				t.Errorf("LocalName(%q) = %q, want %q", tt.remoteName, got, tt.want)
			}
		})
	}
}

func TestDownloadTarget_LocalNameClampsLength(t *testing.T) {
	target := DownloadTarget{DownloadID: 1, Format: FormatFLAC}
	long := strings.Repeat("a", 300) + ".zip"

	got := target.LocalName(long)
	if len(got) >= 260 {
		t.Errorf("LocalName length = %d, want < 260", len(got))
	}
	if !strings.HasSuffix(got, ".zip") {
		t.Errorf("LocalName = %q, want .zip extension preserved", got)
	}
}

func TestItem_DownloadedGlob(t *testing.T) {
	item := Item{DownloadID: 98765}
	if got := item.DownloadedGlob(); got != "*(98765)*" {
		t.Errorf("DownloadedGlob() = %q, want %q", got, "*(98765)*")
	}
}

func TestParseItemType(t *testing.T) {
	tests := []struct {
		input string
		want  ItemType
	}{
		{"album", ItemTypeAlbum},
		{"track", ItemTypeTrack},
		{"Track", ItemTypeTrack},
		{"package", ItemTypeAlbum},
		{"", ItemTypeAlbum},
	}

	for _, tt := range tests {
		if got := ParseItemType(tt.input); got != tt.want {
			t.Errorf("ParseItemType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

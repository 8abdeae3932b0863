package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"bandcamp-collection-dl/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	Format                 string  `json:"format"`
	DownloadsPath          string  `json:"downloads_path"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent  float64 `json:"download_retry_exponent"`
	SkipDownloaded         bool    `json:"skip_downloaded"`

	// Cover art settings
	SaveCoverArt        bool `json:"save_cover_art"`
	CoverArtResize      bool `json:"cover_art_resize"`
	CoverArtMaxSize     int  `json:"cover_art_max_size"`
	ConvertCoverArtJPG  bool `json:"convert_cover_art_to_jpg"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`

	// Credential settings
	Browsers []string `json:"browsers"`
}

// DefaultSettings returns settings with default values.
//
// Downloads go to the current working directory, sequentially, in FLAC,
// skipping items a previous run already saved.
func DefaultSettings() *Settings {
	return &Settings{
		Format:                 string(model.DefaultFormat),
		DownloadsPath:          ".",
		MaxConcurrentDownloads: 1,
		DownloadMaxRetries:     7,
		DownloadRetryCooldown:  0.2,
		DownloadRetryExponent:  4.0,
		SkipDownloaded:         true,

		SaveCoverArt:       false,
		CoverArtResize:     true,
		CoverArtMaxSize:    1000,
		ConvertCoverArtJPG: true,

		ModifyTags: false,

		Browsers: []string{"chrome", "chromium", "firefox"},
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned so the tool
// works without any configuration.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ParseFormat validates the configured format identifier.
func (s *Settings) ParseFormat() (model.Format, error) {
	return model.ParseFormat(s.Format)
}

package dto

// PageData is the deserialized data-blob JSON of a purchase's download
// page. A page usually describes a single digital item, but the blob is
// a list.
type PageData struct {
	DigitalItems []JSONDigitalItem `json:"digital_items"`
}

// JSONDigitalItem is one downloadable item on a download page, with its
// per-format download descriptors keyed by format identifier.
type JSONDigitalItem struct {
	Artist     string                  `json:"artist"`
	Title      string                  `json:"title"`
	DownloadID int64                   `json:"download_id"`
	Downloads  map[string]JSONDownload `json:"downloads"`
}

// JSONDownload is a single format's download descriptor.
type JSONDownload struct {
	URL         string `json:"url"`
	SizeMB      string `json:"size_mb"`
	Description string `json:"description"`
}

// Formats returns the format identifiers this item is offered in.
func (di JSONDigitalItem) Formats() []string {
	formats := make([]string, 0, len(di.Downloads))
	for f := range di.Downloads {
		formats = append(formats, f)
	}
	return formats
}

// StatResponse is the payload of a statdownload request, which resolves
// a download page URL to the direct CDN URL.
type StatResponse struct {
	Result      string `json:"result"`
	DownloadURL string `json:"download_url"`
}

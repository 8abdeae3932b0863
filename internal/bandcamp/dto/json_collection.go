package dto

import (
	"bandcamp-collection-dl/internal/model"
)

// SummaryResponse is the payload of the collection summary endpoint.
// Only the username is consumed; the order-history endpoint needs it.
type SummaryResponse struct {
	CollectionSummary struct {
		FanID    int64  `json:"fan_id"`
		Username string `json:"username"`
	} `json:"collection_summary"`
}

// ItemsRequest is the POST body of the order-history listing endpoint.
type ItemsRequest struct {
	Username  string `json:"username"`
	Platform  string `json:"platform"`
	LastToken string `json:"last_token,omitempty"`
	Crumb     string `json:"crumb,omitempty"`
}

// ItemsResponse is one page of the order-history listing.
//
// LastToken is a pointer because the API distinguishes "no more pages"
// (null) from a cursor value. An "invalid_crumb" error arrives together
// with the crumb to retry with.
type ItemsResponse struct {
	Error     string     `json:"error,omitempty"`
	Crumb     string     `json:"crumb,omitempty"`
	LastToken *string    `json:"last_token"`
	Items     []JSONItem `json:"items"`
}

// JSONItem is one purchase in an order-history page.
type JSONItem struct {
	DownloadID  int64  `json:"download_id"`
	DownloadURL string `json:"download_url"`
	ItemType    string `json:"item_type"`
	ArtistName  string `json:"artist_name"`
	ItemTitle   string `json:"item_title"`
	ItemArtURL  string `json:"item_art_url"`
}

// ToItem converts the wire representation to a model.Item.
func (ji JSONItem) ToItem() model.Item {
	return model.Item{
		DownloadID:  ji.DownloadID,
		Type:        model.ParseItemType(ji.ItemType),
		Artist:      ji.ArtistName,
		Title:       ji.ItemTitle,
		DownloadURL: ji.DownloadURL,
		ArtURL:      ji.ItemArtURL,
	}
}

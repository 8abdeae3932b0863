package bandcamp

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"bandcamp-collection-dl/internal/bandcamp/dto"
)

// ParsePageData extracts the download descriptors from a purchase's
// download page HTML.
//
// Bandcamp embeds the page's data as JSON in a data-blob attribute:
//
//	<div id="pagedata" data-blob="{...JSON...}">
//
// This function finds that JSON, HTML-unescapes it (the attribute
// escapes quotes as &quot;), and deserializes it.
//
// Returns an error if:
//   - The data-blob attribute cannot be found
//   - The JSON cannot be parsed
//
// Example:
//
//	page, err := bandcamp.ParsePageData(downloadPageHTML)
//	if err != nil {
//	    return fmt.Errorf("parsing download page: %w", err)
//	}
//	for _, item := range page.DigitalItems {
//	    fmt.Println(item.Artist, item.Title, item.Formats())
//	}
func ParsePageData(htmlContent string) (*dto.PageData, error) {
	blob, err := extractPageBlob(htmlContent)
	if err != nil {
		return nil, err
	}

	var page dto.PageData
	if err := json.Unmarshal([]byte(blob), &page); err != nil {
		return nil, fmt.Errorf("failed to parse page data JSON: %w", err)
	}

	return &page, nil
}

// extractPageBlob extracts the data-blob JSON string from HTML.
//
// The attribute value is HTML-escaped, so a literal double quote
// terminates it; everything between the opening brace and that quote is
// the blob.
func extractPageBlob(htmlContent string) (string, error) {
	const startString = `data-blob="{`
	const stopString = `}"`

	startIndex := strings.Index(htmlContent, startString)
	if startIndex == -1 {
		return "", fmt.Errorf("could not find page data in HTML")
	}

	startIndex += len(startString) - 1 // Include the opening brace
	remaining := htmlContent[startIndex:]

	endIndex := strings.Index(remaining, stopString)
	if endIndex == -1 {
		return "", fmt.Errorf("could not find end of page data")
	}

	blob := remaining[:endIndex+1]
	return html.UnescapeString(blob), nil
}

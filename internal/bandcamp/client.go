package bandcamp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bandcamp-collection-dl/internal/bandcamp/dto"
	httpx "bandcamp-collection-dl/internal/http"
	"bandcamp-collection-dl/internal/model"
)

// DefaultBaseURL is the Bandcamp site root the API lives under.
const DefaultBaseURL = "https://bandcamp.com"

// platform is sent with order-history requests; the API expects a
// client platform tag and "nix" is what the endpoint accepts for
// non-Windows callers.
const platform = "nix"

// APIError reports a failure of one of Bandcamp's undocumented
// endpoints: a non-success status, a malformed payload, or an
// API-level refusal such as an unavailable format.
type APIError struct {
	// Endpoint is the API path or page that failed.
	Endpoint string

	// Message is the API-reported or derived description.
	Message string

	// Err is the underlying transport or status error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Client talks to Bandcamp's collection and download endpoints.
//
// The endpoints are undocumented and owned externally; their contract is
// subject to breakage. All calls authenticate with the identity cookie
// carried by the wrapped HTTP client.
//
// Example usage:
//
//	hc := httpx.NewClient()
//	hc.SetIdentity(session.Identity)
//	client := bandcamp.NewClient(hc)
//
//	username, err := client.CollectionSummary(ctx)
//	items, err := client.Items(ctx, username)
//	targets, err := client.ResolveDownloads(ctx, items[0], model.FormatFLAC)
type Client struct {
	http    *httpx.Client
	baseURL string
}

// NewClient creates a Client using the given HTTP client for transport.
func NewClient(hc *httpx.Client) *Client {
	return &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at a different site root. Used by tests
// to target a local server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api/" + path
}

// CollectionSummary returns the username of the authenticated fan.
//
// This is the first authenticated call of a run, so an error here
// usually means the identity cookie is stale or wrong.
func (c *Client) CollectionSummary(ctx context.Context) (string, error) {
	const endpoint = "fan/2/collection_summary"

	var summary dto.SummaryResponse
	if err := c.http.GetJSON(ctx, c.apiURL(endpoint), &summary); err != nil {
		return "", &APIError{Endpoint: endpoint, Err: err}
	}

	username := summary.CollectionSummary.Username
	if username == "" {
		return "", &APIError{Endpoint: endpoint, Message: "no username in response; identity cookie may be invalid"}
	}
	return username, nil
}

// Items enumerates every purchase in the user's collection.
//
// The order-history endpoint paginates with a last_token cursor; pages
// are fetched until the API reports a null token. An invalid_crumb
// response is answered by resending the same request with the crumb the
// API handed back, once per fresh crumb.
//
// All purchases are returned, including ones without a digital download
// (DownloadID zero); callers filter with Item.Downloadable.
func (c *Client) Items(ctx context.Context, username string) ([]model.Item, error) {
	const endpoint = "orderhistory/1/get_items"

	req := dto.ItemsRequest{Username: username, Platform: platform}
	var items []model.Item

	for {
		var res dto.ItemsResponse
		if err := c.http.PostJSON(ctx, c.apiURL(endpoint), req, &res); err != nil {
			return nil, &APIError{Endpoint: endpoint, Err: err}
		}

		if res.Error == "invalid_crumb" && res.Crumb != "" && res.Crumb != req.Crumb {
			req.Crumb = res.Crumb
			continue
		}
		if res.Error != "" {
			return nil, &APIError{Endpoint: endpoint, Message: res.Error}
		}

		for _, ji := range res.Items {
			items = append(items, ji.ToItem())
		}

		if res.LastToken == nil {
			return items, nil
		}
		req.LastToken = *res.LastToken
	}
}

// ResolveDownloads resolves the direct CDN URLs for one purchased item
// in the requested format.
//
// The item's download page embeds per-format download descriptors in a
// data-blob attribute. For each digital item on the page the format's
// descriptor URL is rewritten from /download/ to /statdownload/ (with
// the .vrs marker the CDN expects) and fetched as JSON; the response
// carries the final bcbits CDN URL.
//
// Fails with *APIError when the page cannot be fetched or parsed, when
// the requested format is not offered for an item, or when the
// statdownload response is denied or malformed.
func (c *Client) ResolveDownloads(ctx context.Context, item model.Item, format model.Format) ([]model.DownloadTarget, error) {
	htmlContent, err := c.http.GetString(ctx, item.DownloadURL)
	if err != nil {
		return nil, &APIError{Endpoint: item.DownloadURL, Err: err}
	}

	page, err := ParsePageData(htmlContent)
	if err != nil {
		return nil, &APIError{Endpoint: item.DownloadURL, Err: err}
	}

	var targets []model.DownloadTarget
	for _, di := range page.DigitalItems {
		download, ok := di.Downloads[format.String()]
		if !ok {
			return nil, &APIError{
				Endpoint: item.DownloadURL,
				Message: fmt.Sprintf("format %q not available for %s - %s (offered: %s)",
					format, di.Artist, di.Title, strings.Join(di.Formats(), ", ")),
			}
		}

		statURL, err := statDownloadURL(download.URL)
		if err != nil {
			return nil, &APIError{Endpoint: item.DownloadURL, Err: err}
		}

		var stat dto.StatResponse
		if err := c.http.GetJSON(ctx, statURL, &stat); err != nil {
			return nil, &APIError{Endpoint: statURL, Err: err}
		}
		if stat.DownloadURL == "" {
			return nil, &APIError{Endpoint: statURL, Message: "no download_url in response"}
		}

		downloadID := di.DownloadID
		if downloadID == 0 {
			downloadID = item.DownloadID
		}

		targets = append(targets, model.DownloadTarget{
			URL:        stat.DownloadURL,
			DownloadID: downloadID,
			Artist:     di.Artist,
			Title:      di.Title,
			Format:     format,
		})
	}

	if len(targets) == 0 {
		return nil, &APIError{Endpoint: item.DownloadURL, Message: "no digital items on download page"}
	}
	return targets, nil
}

// statDownloadURL rewrites a download page descriptor URL into the
// statdownload form that returns the CDN URL as JSON: the path segment
// /download/ becomes /statdownload/ and the .vrs=1 marker is appended
// to the query.
func statDownloadURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Path = strings.Replace(u.Path, "/download/", "/statdownload/", 1)

	q := u.Query()
	q.Set(".vrs", "1")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

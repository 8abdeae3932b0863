package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UserAgent identifies the downloader to Bandcamp's servers.
const UserAgent = "bandcamp-collection-dl/1.0"

// StatusError is returned when a request completes but the server answers
// with a non-success status. It lets callers tell an API refusal apart
// from a transport failure.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Status, e.URL)
}

// Client wraps HTTP operations with Bandcamp-specific configuration.
//
// Client provides:
//   - Configured User-Agent header for Bandcamp compatibility
//   - The identity session cookie on every request once set
//   - JSON request/response helpers for the collection API
//   - Streaming file download with progress tracking
//
// Example usage:
//
//	client := NewClient()
//	client.SetIdentity(session.Identity)
//
//	// Fetch a download page
//	html, err := client.GetString(ctx, "https://bandcamp.com/download?...")
//
//	// Stream a file to disk
//	res, err := client.DownloadFile(ctx, cdnURL, ".", target.LocalName, nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
	identity   string
}

// NewClient creates a new HTTP client configured for Bandcamp.
//
// The client is configured with a 60 second timeout and the downloader
// User-Agent. No identity cookie is attached until SetIdentity is called.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: UserAgent,
	}
}

// SetIdentity attaches the Bandcamp identity session cookie to all
// subsequent requests. The value must already be cookie-encoded.
func (c *Client) SetIdentity(identity string) {
	c.identity = identity
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.identity != "" {
		req.Header.Set("Cookie", "identity="+c.identity)
	}
	return req, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError if the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like
// the HTML of a purchase's download page.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON performs a GET request with an Accept: application/json header
// and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// PostJSON sends payload as a JSON body and decodes the response into v.
//
// Bandcamp's collection API takes POST bodies for paginated listing
// calls. A nil payload sends an empty body.
func (c *Client) PostJSON(ctx context.Context, url string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadResult describes a completed file download.
type DownloadResult struct {
	// Path is the final local path the file was saved to.
	Path string

	// RemoteName is the filename the server suggested via
	// Content-Disposition, or "" if it suggested none.
	RemoteName string

	// Written is the number of bytes written.
	Written int64
}

// DownloadFile streams a URL's content to a file in dir.
//
// The local filename is decided after response headers arrive: the
// Content-Disposition filename (if any) is passed through nameFor, which
// returns the name to save under. The content is streamed through a
// uniquely named .part file in dir and renamed into place on success, so
// an interrupted download never leaves a half-written final file behind.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - dir: Directory to save into (must exist)
//   - nameFor: Maps the server-suggested filename to the local one.
//     Pass nil to use the suggested name verbatim.
//   - onProgress: Optional callback called with (bytesWritten, totalBytes).
//     Pass nil to disable progress tracking.
//
// Example:
//
//	res, err := client.DownloadFile(ctx, cdnURL, ".", target.LocalName,
//	    func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\r", written, total)
//	    })
func (c *Client) DownloadFile(ctx context.Context, url, dir string, nameFor func(remoteName string) string, onProgress func(written, total int64)) (*DownloadResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	remoteName := dispositionFileName(resp.Header.Get("Content-Disposition"))
	localName := remoteName
	if nameFor != nil {
		localName = nameFor(remoteName)
	}
	if localName == "" {
		return nil, fmt.Errorf("no filename for %s", url)
	}

	partPath := filepath.Join(dir, "."+uuid.NewString()+".part")
	file, err := os.Create(partPath)
	if err != nil {
		return nil, err
	}

	var writer io.Writer = file
	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}
	if onProgress != nil {
		writer = pw
	}

	written, err := io.Copy(writer, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return nil, err
	}

	finalPath := filepath.Join(dir, localName)
	if err := os.Rename(partPath, finalPath); err != nil {
		os.Remove(partPath)
		return nil, err
	}

	return &DownloadResult{
		Path:       finalPath,
		RemoteName: remoteName,
		Written:    written,
	}, nil
}

// dispositionFileName extracts the filename parameter from a
// Content-Disposition header value. Returns "" when the header is absent
// or carries no filename.
func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

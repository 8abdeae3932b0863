// Package http provides an HTTP client configured for Bandcamp API
// requests.
//
// The Client in this package handles:
//   - User-Agent headers for Bandcamp compatibility
//   - The identity session cookie, once resolved
//   - JSON helpers for the collection API endpoints
//   - Streaming file downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient()
//	client.SetIdentity(session.Identity)
//
//	var summary dto.SummaryResponse
//	err := client.GetJSON(ctx, summaryURL, &summary)
//
//	res, err := client.DownloadFile(ctx, cdnURL, outputDir, target.LocalName, nil)
//
// # Downloads
//
// DownloadFile streams through a uniquely named .part file and renames it
// into place once the body is fully written, so failures never leave a
// truncated file under the final name. The local filename is derived from
// the server's Content-Disposition header via a caller-supplied mapping.
//
// # Errors
//
// Non-2xx responses surface as *StatusError; transport failures come back
// as the underlying net/http errors. Callers use this split to report API
// refusals differently from network problems.
package http

// Package download provides the orchestration logic for fetching a
// user's purchased items from Bandcamp.
//
// # Manager
//
// The Manager runs the whole pipeline:
//
//  1. Resolve the identity cookie (explicit value or browser stores)
//  2. Enumerate the collection via the order-history API
//  3. Per item: resolve the download URL in the requested format
//  4. Stream each file to the output directory
//  5. Optionally save cover art and tag single-track MP3s
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    // unknown format, rejected before any network call
//	}
//
//	if err := manager.Initialize(ctx, identityFlag); err != nil {
//	    // authentication or enumeration failure; fatal
//	}
//	err = manager.StartDownloads(ctx)
//
// # Failure policy
//
// Authentication failure aborts the run. Anything that goes wrong with
// a single item (resolution denied, transfer error, write error) is
// reported through the progress callback and that item is skipped;
// the remaining items still download.
//
// # Concurrency
//
// Items run through an errgroup whose limit defaults to 1, so downloads
// are sequential unless max_concurrent_downloads raises the limit.
// Failed fetches retry with exponential backoff; API calls do not retry.
package download

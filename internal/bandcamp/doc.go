// Package bandcamp talks to Bandcamp's undocumented collection and
// download endpoints.
//
// The package handles three operations:
//
//  1. Looking up the authenticated fan's username (collection summary)
//  2. Enumerating every purchase via the paginated order-history API
//  3. Resolving a purchase to direct CDN download URLs in a chosen format
//
// # Enumeration
//
//	client := bandcamp.NewClient(httpClient)
//	username, err := client.CollectionSummary(ctx)
//	items, err := client.Items(ctx, username)
//
// Pagination follows the last_token cursor until the API returns null;
// invalid_crumb responses are retried with the crumb the API supplies.
//
// # Download resolution
//
//	targets, err := client.ResolveDownloads(ctx, item, model.FormatFLAC)
//
// A purchase's download page embeds its per-format descriptors as JSON
// in a data-blob HTML attribute. The descriptor URL is rewritten to the
// statdownload form, which answers with the final bcbits CDN URL.
//
// # Contract stability
//
// Every endpoint here is internal to Bandcamp and subject to breakage;
// failures surface as *APIError with the endpoint that broke.
package bandcamp

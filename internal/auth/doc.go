// Package auth resolves the Bandcamp session credentials.
//
// Bandcamp authenticates purchase downloads with the "identity" session
// cookie. This package obtains that cookie from one of two sources:
//
//   - An explicit value supplied by the user, raw or Base64-encoded
//   - A supported browser's on-disk cookie store (Chrome, Chromium,
//     Firefox), tried in order with first success winning
//
// # Resolving a session
//
//	resolver := &auth.Resolver{Stores: auth.DefaultStores()}
//	session, err := resolver.Resolve(ctx, identityFlag)
//	if errors.Is(err, auth.ErrNoIdentity) {
//	    // fatal: nothing can authenticate without the cookie
//	}
//
// # Browser stores
//
// Both browser families keep cookies in SQLite databases. Firefox stores
// values in plain text; Chromium encrypts them (v10/v11 AES-CBC with a
// PBKDF2-derived key). Databases are copied aside before opening since
// running browsers hold locks on them. Store failures are soft: the
// resolver reports them through an optional callback and tries the next
// backend.
package auth

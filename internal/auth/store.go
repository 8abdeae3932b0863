package auth

import (
	"context"
	"errors"
)

// ErrCookieNotFound is returned by a CookieStore whose on-disk database
// exists but holds no bandcamp.com identity cookie.
var ErrCookieNotFound = errors.New("identity cookie not found")

// CookieStore reads the Bandcamp identity cookie from one browser's
// on-disk cookie database.
//
// Implementations exist per browser family (Chromium-based, Firefox).
// A store that cannot find the cookie, or cannot open its database at
// all, returns an error; the Resolver then moves on to the next store.
type CookieStore interface {
	// Name identifies the backend in verbose output, e.g. "chrome".
	Name() string

	// Identity returns the identity cookie value for .bandcamp.com,
	// already encoded for cookie transport.
	Identity(ctx context.Context) (string, error)
}

// Resolver obtains the Bandcamp session credentials.
//
// An explicit identity value always wins. Otherwise the configured
// browser cookie stores are tried in order and the first success is
// used.
//
// Example:
//
//	resolver := &auth.Resolver{
//	    Stores: auth.DefaultStores(),
//	    OnStoreError: func(store string, err error) {
//	        fmt.Fprintf(os.Stderr, "%s: %v\n", store, err)
//	    },
//	}
//	session, err := resolver.Resolve(ctx, *identityFlag)
//	if errors.Is(err, auth.ErrNoIdentity) {
//	    os.Exit(1)
//	}
type Resolver struct {
	// Stores are the browser backends to probe, in preference order.
	Stores []CookieStore

	// OnStoreError, when set, receives each store failure. The CLI
	// wires this to stderr under -verbose; failures are otherwise
	// silent because a missing browser is the normal case.
	OnStoreError func(store string, err error)
}

// DefaultStores returns the supported browser backends in probe order:
// Chrome, Chromium, Firefox.
func DefaultStores() []CookieStore {
	return []CookieStore{
		NewChromeStore(),
		NewChromiumStore(),
		NewFirefoxStore(),
	}
}

// Resolve produces the Session for this run.
//
// explicit is the -identity flag value, raw or Base64; when empty the
// cookie stores are consulted instead. Returns ErrNoIdentity when no
// source yields a cookie.
func (r *Resolver) Resolve(ctx context.Context, explicit string) (*Session, error) {
	if explicit != "" {
		return &Session{Identity: NormalizeIdentity(explicit)}, nil
	}

	for _, store := range r.Stores {
		identity, err := store.Identity(ctx)
		if err != nil {
			if r.OnStoreError != nil {
				r.OnStoreError(store.Name(), err)
			}
			continue
		}
		// Store values are already cookie-encoded by the browser.
		return &Session{Identity: identity}, nil
	}

	return nil, ErrNoIdentity
}

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrNoIdentity is returned when no identity cookie could be obtained
// from either an explicit value or any browser cookie store.
//
// This is the one unrecoverable failure of a run: without the cookie no
// API call can be made, so callers should exit non-zero.
var ErrNoIdentity = errors.New("failed to load identity cookie for bandcamp.com")

// Session carries the credentials every Bandcamp API call needs.
//
// A Session is resolved once at startup and read-only afterwards. The
// username is filled in by the first collection summary call; only the
// identity cookie is needed to authenticate.
type Session struct {
	// Identity is the value of the "identity" cookie, already encoded
	// for cookie transport.
	Identity string

	// Username is the fan account name, learned from the collection
	// summary endpoint.
	Username string
}

// NormalizeIdentity prepares an explicitly supplied identity value for
// cookie transport.
//
// The value may be given raw or Base64-encoded. It is treated as Base64
// only when re-encoding the decoded bytes reproduces the input exactly;
// this keeps raw values that merely look like Base64 intact. The result
// is percent-escaped so the cookie header stays valid whatever bytes the
// identity contains.
//
// A Base64-encoded value therefore normalizes to the same string as its
// raw equivalent.
func NormalizeIdentity(raw string) string {
	value := raw
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if base64.StdEncoding.EncodeToString(decoded) == raw {
			value = string(decoded)
		}
	}
	return escapeCookieValue(value)
}

// escapeCookieValue percent-escapes every byte outside the unreserved
// set. Browser stores keep identity values pre-encoded this way, so
// explicit raw input must end up in the same shape.
func escapeCookieValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

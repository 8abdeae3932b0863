package auth

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FirefoxStore reads the identity cookie from Firefox's cookies.sqlite.
//
// Firefox keeps one cookie database per profile under the profiles
// directory (~/.mozilla/firefox on Linux). Cookie values are stored in
// plain text, so no decryption is involved. The database is copied to a
// temporary file before opening because a running Firefox holds a lock
// on the original.
type FirefoxStore struct {
	// ProfilesDir overrides the default profile search root.
	// Empty means ~/.mozilla/firefox.
	ProfilesDir string
}

// NewFirefoxStore creates a FirefoxStore probing the default profiles
// directory.
func NewFirefoxStore() *FirefoxStore {
	return &FirefoxStore{}
}

// Name implements CookieStore.
func (s *FirefoxStore) Name() string {
	return "firefox"
}

// Identity implements CookieStore. Every profile's cookie database is
// tried; the first one holding a bandcamp.com identity cookie wins.
func (s *FirefoxStore) Identity(ctx context.Context) (string, error) {
	root := s.ProfilesDir
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(home, ".mozilla", "firefox")
	}

	databases, err := filepath.Glob(filepath.Join(root, "*", "cookies.sqlite"))
	if err != nil {
		return "", err
	}
	if len(databases) == 0 {
		return "", fmt.Errorf("%w: no profiles under %s", ErrCookieNotFound, root)
	}

	var lastErr error
	for _, dbPath := range databases {
		value, err := s.readCookie(ctx, dbPath)
		if err != nil {
			lastErr = err
			continue
		}
		return value, nil
	}
	return "", lastErr
}

func (s *FirefoxStore) readCookie(ctx context.Context, dbPath string) (string, error) {
	copyPath, err := copyToTemp(dbPath)
	if err != nil {
		return "", err
	}
	defer os.Remove(copyPath)

	db, err := sql.Open("sqlite", copyPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var value string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM moz_cookies WHERE name = 'identity' AND host = '.bandcamp.com'`,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w in %s", ErrCookieNotFound, dbPath)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// copyToTemp copies a cookie database to a temporary file so it can be
// opened while the browser holds the original.
func copyToTemp(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "cookies-*.sqlite")
	if err != nil {
		return "", err
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

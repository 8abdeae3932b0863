package auth

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	_ "modernc.org/sqlite"
)

// Chromium cookie encryption parameters (Linux scheme). Values prefixed
// "v10" are AES-128-CBC with a key derived from the hardcoded password;
// "v11" uses a password from the OS keyring, which this store does not
// consult, so v11 values are only readable when the keyring password is
// the default.
const (
	chromiumPassword   = "peanuts"
	chromiumSalt       = "saltysalt"
	chromiumIterations = 1
	chromiumKeyLength  = 16
)

// ChromiumStore reads the identity cookie from a Chromium-family
// browser's Cookies database.
//
// Cookie values are encrypted at rest; see decryptValue for the scheme.
// The database is copied to a temporary file before opening because a
// running browser holds a lock on the original.
type ChromiumStore struct {
	// BrowserName identifies the backend in verbose output.
	BrowserName string

	// ConfigDir is the browser's config root holding Default/Cookies
	// and Profile */Cookies, e.g. ~/.config/google-chrome.
	ConfigDir string
}

// NewChromeStore creates a store for Google Chrome's default config dir.
func NewChromeStore() *ChromiumStore {
	return &ChromiumStore{BrowserName: "chrome", ConfigDir: configDir("google-chrome")}
}

// NewChromiumStore creates a store for Chromium's default config dir.
func NewChromiumStore() *ChromiumStore {
	return &ChromiumStore{BrowserName: "chromium", ConfigDir: configDir("chromium")}
}

func configDir(browser string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, browser)
}

// Name implements CookieStore.
func (s *ChromiumStore) Name() string {
	return s.BrowserName
}

// Identity implements CookieStore. The default profile and any numbered
// profiles are tried in glob order.
func (s *ChromiumStore) Identity(ctx context.Context) (string, error) {
	if s.ConfigDir == "" {
		return "", fmt.Errorf("%s: no config directory", s.BrowserName)
	}

	var databases []string
	for _, pattern := range []string{"Default/Cookies", "Profile */Cookies"} {
		matches, err := filepath.Glob(filepath.Join(s.ConfigDir, pattern))
		if err != nil {
			return "", err
		}
		databases = append(databases, matches...)
	}
	if len(databases) == 0 {
		return "", fmt.Errorf("%w: no cookie database under %s", ErrCookieNotFound, s.ConfigDir)
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

func (s *ChromiumStore) readCookie(ctx context.Context, dbPath string) (string, error) {
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

	var hostKey, value string
	var encrypted []byte
	err = db.QueryRowContext(ctx,
		`SELECT host_key, value, encrypted_value FROM cookies
		 WHERE name = 'identity' AND host_key = '.bandcamp.com'`,
	).Scan(&hostKey, &value, &encrypted)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w in %s", ErrCookieNotFound, dbPath)
	}
	if err != nil {
		return "", err
	}

	// Older Chromium versions kept some cookies in the clear.
	if value != "" {
		return value, nil
	}

	plain, err := decryptValue(encrypted, hostKey)
	if err != nil {
		return "", fmt.Errorf("decrypting cookie from %s: %w", dbPath, err)
	}
	return string(plain), nil
}

// decryptValue decrypts a Chromium v10/v11 cookie value.
//
// The scheme on Linux: AES-128-CBC, key = PBKDF2-SHA1(password,
// "saltysalt", 1 iteration, 16 bytes), IV = 16 spaces, PKCS#7 padding.
// Recent Chromium prepends SHA-256(host_key) to the plaintext; that
// prefix is stripped when present.
func decryptValue(encrypted []byte, hostKey string) ([]byte, error) {
	if len(encrypted) < 3 {
		return nil, fmt.Errorf("encrypted value too short")
	}

	version := string(encrypted[:3])
	if version != "v10" && version != "v11" {
		return nil, fmt.Errorf("unsupported encryption version %q", version)
	}
	ciphertext := encrypted[3:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d not a multiple of the block size", len(ciphertext))
	}

	key := pbkdf2.Key([]byte(chromiumPassword), []byte(chromiumSalt), chromiumIterations, chromiumKeyLength, sha1.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := bytes.Repeat([]byte{' '}, aes.BlockSize)
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = stripPKCS7(plain)
	if err != nil {
		return nil, err
	}

	if len(plain) >= sha256.Size {
		prefix := sha256.Sum256([]byte(hostKey))
		if bytes.Equal(plain[:sha256.Size], prefix[:]) {
			plain = plain[sha256.Size:]
		}
	}

	return plain, nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	return data[:len(data)-pad], nil
}

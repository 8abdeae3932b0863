package ioutils

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it with mode 0644 or
// truncating it if it exists.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// ExistsMatching reports whether any file in dir matches the glob
// pattern. The download manager uses this to recognize items a previous
// run already saved, via the download-id marker in their filenames.
//
// Example:
//
//	done := ioutils.ExistsMatching(".", item.DownloadedGlob())
func ExistsMatching(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}

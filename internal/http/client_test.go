package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClient_Get_SetsHeaders(t *testing.T) {
	var gotUA, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()
	client.SetIdentity("secret%09value")

	body, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, UserAgent)
	}
	if gotCookie != "identity=secret%09value" {
		t.Errorf("Cookie = %q, want identity cookie", gotCookie)
	}
}

func TestClient_Get_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient().Get(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusForbidden)
	}
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"value":42}`))
	}))
	defer server.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := NewClient().PostJSON(context.Background(), server.URL, map[string]string{"k": "v"}, &out)
	if err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("Value = %d, want 42", out.Value)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	content := strings.Repeat("audio-bytes-", 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="Artist - Album.zip"`)
		w.Write([]byte(content))
	}))
	defer server.Close()

	dir := t.TempDir()
	var lastWritten int64

	res, err := NewClient().DownloadFile(context.Background(), server.URL, dir,
		func(remoteName string) string {
			if remoteName != "Artist - Album.zip" {
				t.Errorf("remoteName = %q", remoteName)
			}
			return "Artist - Album (123).zip"
		},
		func(written, total int64) {
			lastWritten = written
		})
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}

	if filepath.Base(res.Path) != "Artist - Album (123).zip" {
		t.Errorf("Path = %q", res.Path)
	}
	if res.RemoteName != "Artist - Album.zip" {
		t.Errorf("RemoteName = %q", res.RemoteName)
	}

	// Saved bytes must match the response body exactly.
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != content {
		t.Errorf("file content differs from response body (%d vs %d bytes)", len(data), len(content))
	}
	if lastWritten != int64(len(content)) {
		t.Errorf("progress saw %d bytes, want %d", lastWritten, len(content))
	}

	// No .part file may survive a successful download.
	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.part"))
	if len(leftovers) != 0 {
		t.Errorf("leftover part files: %v", leftovers)
	}
}

func TestClient_DownloadFile_ErrorLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := NewClient().DownloadFile(context.Background(), server.URL, dir, nil, nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory not empty after failed download: %v", entries)
	}
}

func TestDispositionFileName(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="Some Album.zip"`, "Some Album.zip"},
		{`attachment; filename=track.flac`, "track.flac"},
		{`attachment`, ""},
		{``, ""},
	}

	for _, tt := range tests {
		if got := dispositionFileName(tt.header); got != tt.want {
			t.Errorf("dispositionFileName(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

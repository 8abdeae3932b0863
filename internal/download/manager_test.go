package download

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bandcamp-collection-dl/internal/config"
	"bandcamp-collection-dl/internal/model"
)

const albumContent = "fake-zip-archive-bytes-for-testing"

// newCollectionServer mocks the whole Bandcamp surface the pipeline
// touches: summary, order history, download page, statdownload, CDN.
func newCollectionServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/fan/2/collection_summary":
			fmt.Fprint(w, `{"collection_summary":{"fan_id":1,"username":"testfan"}}`)

		case "/api/orderhistory/1/get_items":
			fmt.Fprintf(w, `{"last_token":null,"items":[
				{"download_id":11,"item_type":"album","artist_name":"Artist","item_title":"Album","download_url":"%s/dl/11"},
				{"download_id":22,"item_type":"album","artist_name":"Old","item_title":"Stuff","download_url":"%s/dl/22"},
				{"download_id":0,"item_type":"album","artist_name":"Merch","item_title":"Shirt"}
			]}`, server.URL, server.URL)

		case "/dl/11":
			blob := fmt.Sprintf(`{"digital_items":[{"artist":"Artist","title":"Album","download_id":11,
				"downloads":{"flac":{"url":"%s/download/album?id=11"}}}]}`, server.URL)
			fmt.Fprintf(w, `<html><div id="pagedata" data-blob="%s"></div></html>`, html.EscapeString(blob))

		case "/statdownload/album":
			fmt.Fprintf(w, `{"result":"ok","download_url":"%s/file/11"}`, server.URL)

		case "/file/11":
			w.Header().Set("Content-Disposition", `attachment; filename="Artist - Album.zip"`)
			fmt.Fprint(w, albumContent)

		default:
			t.Errorf("unexpected request: %s", r.URL)
			http.NotFound(w, r)
		}
	}))
	return server
}

func TestManager_Pipeline(t *testing.T) {
	server := newCollectionServer(t)
	defer server.Close()

	dir := t.TempDir()
	// Item 22 was saved by an earlier run.
	if err := os.WriteFile(filepath.Join(dir, "Old - Stuff (22).zip"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.DownloadsPath = dir
	settings.DownloadMaxRetries = 1

	var events []ProgressEvent
	manager, err := NewManager(settings, func(event ProgressEvent) {
		events = append(events, event)
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	manager.bc.SetBaseURL(server.URL)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "test-identity"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if len(manager.Items()) != 3 {
		t.Fatalf("enumerated %d items, want 3", len(manager.Items()))
	}
	if manager.Username() != "testfan" {
		t.Errorf("Username = %q", manager.Username())
	}

	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	// The fetched file must be byte-identical to the response body.
	data, err := os.ReadFile(filepath.Join(dir, "Artist - Album (11).zip"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != albumContent {
		t.Errorf("file content differs from response body")
	}

	received, filesReceived, filesTotal := manager.GetProgress()
	if filesReceived != 1 || filesTotal != 1 {
		t.Errorf("progress files = %d/%d, want 1/1", filesReceived, filesTotal)
	}
	if received != int64(len(albumContent)) {
		t.Errorf("received bytes = %d, want %d", received, len(albumContent))
	}

	var skipped bool
	for _, event := range events {
		if strings.Contains(event.Message, "already downloaded") {
			skipped = true
		}
	}
	if !skipped {
		t.Error("expected an already-downloaded skip message for item 22")
	}
}

func TestManager_ItemFailureContinuesRun(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/fan/2/collection_summary":
			fmt.Fprint(w, `{"collection_summary":{"username":"testfan"}}`)
		case "/api/orderhistory/1/get_items":
			fmt.Fprintf(w, `{"last_token":null,"items":[
				{"download_id":1,"item_type":"album","artist_name":"A","item_title":"Broken","download_url":"%s/dl/broken"},
				{"download_id":2,"item_type":"track","artist_name":"B","item_title":"Fine","download_url":"%s/dl/fine"}
			]}`, server.URL, server.URL)
		case "/dl/broken":
			http.Error(w, "denied", http.StatusForbidden)
		case "/dl/fine":
			blob := fmt.Sprintf(`{"digital_items":[{"artist":"B","title":"Fine","download_id":2,
				"downloads":{"flac":{"url":"%s/download/track?id=2"}}}]}`, server.URL)
			fmt.Fprintf(w, `<html><div data-blob="%s"></div></html>`, html.EscapeString(blob))
		case "/statdownload/track":
			fmt.Fprintf(w, `{"download_url":"%s/file/2"}`, server.URL)
		case "/file/2":
			w.Header().Set("Content-Disposition", `attachment; filename="B - Fine.flac"`)
			fmt.Fprint(w, "flac-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()
	settings.DownloadMaxRetries = 1

	var errorEvents int
	manager, err := NewManager(settings, func(event ProgressEvent) {
		if event.Level == LevelError {
			errorEvents++
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	manager.bc.SetBaseURL(server.URL)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "id"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	if errorEvents != 1 {
		t.Errorf("error events = %d, want 1 (the broken item)", errorEvents)
	}
	if _, err := os.Stat(filepath.Join(settings.DownloadsPath, "B - Fine (2).flac")); err != nil {
		t.Errorf("second item should still download: %v", err)
	}

	_, filesReceived, filesTotal := manager.GetProgress()
	if filesReceived != 1 || filesTotal != 2 {
		t.Errorf("progress = %d/%d, want 1/2", filesReceived, filesTotal)
	}
}

func TestManager_ZeroRetriesStillAttemptsOnce(t *testing.T) {
	server := newCollectionServer(t)
	defer server.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Old - Stuff (22).zip"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	settings := config.DefaultSettings()
	settings.DownloadsPath = dir
	settings.DownloadMaxRetries = 0

	manager, err := NewManager(settings, nil)
	if err != nil {
		t.Fatal(err)
	}
	manager.bc.SetBaseURL(server.URL)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "test-identity"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.DownloadsPath, "Artist - Album (11).zip")); err != nil {
		t.Errorf("download should run once with retries disabled: %v", err)
	}
}

func TestNewManager_RejectsUnknownFormat(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Format = "wma"

	_, err := NewManager(settings, nil)
	if !errors.Is(err, model.ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestStoresFor(t *testing.T) {
	stores := storesFor([]string{"firefox", "chrome", "unknown"})
	if len(stores) != 2 {
		t.Fatalf("store count = %d, want 2", len(stores))
	}
	if stores[0].Name() != "firefox" || stores[1].Name() != "chrome" {
		t.Errorf("order = [%s, %s], want configured order", stores[0].Name(), stores[1].Name())
	}

	if len(storesFor(nil)) == 0 {
		t.Error("empty config should fall back to defaults")
	}
}

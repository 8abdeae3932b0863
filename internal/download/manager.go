package download

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"bandcamp-collection-dl/internal/audio"
	"bandcamp-collection-dl/internal/auth"
	"bandcamp-collection-dl/internal/bandcamp"
	"bandcamp-collection-dl/internal/config"
	httpx "bandcamp-collection-dl/internal/http"
	ioutils "bandcamp-collection-dl/internal/io"
	"bandcamp-collection-dl/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates the collection download pipeline: resolve
// credentials, enumerate purchases, resolve each item's download URL in
// the requested format, and stream the files to disk.
type Manager struct {
	settings   *config.Settings
	format     model.Format
	httpClient *httpx.Client
	bc         *bandcamp.Client
	resolver   *auth.Resolver
	tagger     *audio.Tagger
	images     *ioutils.ImageService

	session *auth.Session
	items   []model.Item

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// The configured format is validated here, before anything touches the
// network; an unknown identifier is rejected with model.ErrUnknownFormat.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	format, err := settings.ParseFormat()
	if err != nil {
		return nil, err
	}

	hc := httpx.NewClient()
	m := &Manager{
		settings:   settings,
		format:     format,
		httpClient: hc,
		bc:         bandcamp.NewClient(hc),
		tagger:     audio.NewTagger(),
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}

	m.resolver = &auth.Resolver{
		Stores: storesFor(settings.Browsers),
		OnStoreError: func(store string, err error) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cookie store %s: %v", store, err), Level: LevelVerbose})
		},
	}

	return m, nil
}

// storesFor maps configured browser names to cookie store backends,
// preserving order. Unknown names are ignored; an empty result falls
// back to the default probe order.
func storesFor(names []string) []auth.CookieStore {
	var stores []auth.CookieStore
	for _, name := range names {
		switch name {
		case "chrome":
			stores = append(stores, auth.NewChromeStore())
		case "chromium":
			stores = append(stores, auth.NewChromiumStore())
		case "firefox":
			stores = append(stores, auth.NewFirefoxStore())
		}
	}
	if len(stores) == 0 {
		return auth.DefaultStores()
	}
	return stores
}

// Initialize resolves the session and enumerates the collection.
//
// explicitIdentity is the -identity flag value; empty means the browser
// cookie stores are probed. Authentication failure here is fatal for
// the run: it is the only error the pipeline does not skip past.
func (m *Manager) Initialize(ctx context.Context, explicitIdentity string) error {
	session, err := m.resolver.Resolve(ctx, explicitIdentity)
	if err != nil {
		return err
	}
	m.httpClient.SetIdentity(session.Identity)

	username, err := m.bc.CollectionSummary(ctx)
	if err != nil {
		return err
	}
	session.Username = username
	m.session = session
	m.progress(ProgressEvent{Message: fmt.Sprintf("Logged in as %s", username), Level: LevelVerbose})

	items, err := m.bc.Items(ctx, username)
	if err != nil {
		return err
	}
	m.items = items

	downloadable := 0
	for _, item := range items {
		if item.Downloadable() {
			downloadable++
		}
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d purchases (%d downloadable)", len(items), downloadable),
		Level:   LevelInfo,
	})

	return nil
}

// Items returns the enumerated collection.
func (m *Manager) Items() []model.Item {
	return m.items
}

// SetItems narrows the work list, e.g. to the TUI's selection.
func (m *Manager) SetItems(items []model.Item) {
	m.items = items
}

// ItemNames returns display names for all enumerated items.
func (m *Manager) ItemNames() []string {
	names := make([]string, len(m.items))
	for i, item := range m.items {
		names[i] = item.Display()
	}
	return names
}

// Username returns the fan name of the resolved session.
func (m *Manager) Username() string {
	if m.session == nil {
		return ""
	}
	return m.session.Username
}

// StartDownloads processes every downloadable item.
//
// Items a previous run already saved are skipped by download-id glob.
// A failing item is reported and skipped; processing continues with the
// rest. Work runs through an errgroup whose limit defaults to 1, so the
// pipeline is sequential unless configured otherwise.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if err := ioutils.EnsureDir(m.settings.DownloadsPath); err != nil {
		return err
	}

	var pending []model.Item
	for _, item := range m.items {
		if !item.Downloadable() {
			m.progress(ProgressEvent{Message: fmt.Sprintf("No download for %s - %s", item.Artist, item.Title), Level: LevelVerbose})
			continue
		}
		if m.settings.SkipDownloaded && ioutils.ExistsMatching(m.settings.DownloadsPath, item.DownloadedGlob()) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("%s: already downloaded", item.Display()), Level: LevelInfo})
			continue
		}
		pending = append(pending, item)
	}
	atomic.StoreInt32(&m.totalFiles, int32(len(pending)))

	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, item := range pending {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := m.downloadItem(ctx, item); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", item.Display(), err), Level: LevelError})
				return nil // Continue with other items
			}
			atomic.AddInt32(&m.downloadedFiles, 1)
			return nil
		})
	}

	return g.Wait()
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) downloadItem(ctx context.Context, item model.Item) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("%s: resolving...", item.Display()), Level: LevelVerbose})

	targets, err := m.bc.ResolveDownloads(ctx, item, m.format)
	if err != nil {
		return err
	}

	var artwork []byte
	if m.settings.SaveCoverArt && item.ArtURL != "" {
		artwork, err = m.saveArtwork(ctx, item)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("%s: artwork: %v", item.Display(), err), Level: LevelWarning})
		}
	}

	for _, target := range targets {
		if err := m.fetchTarget(ctx, target, artwork); err != nil {
			return err
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", item.Display()), Level: LevelSuccess})
	return nil
}

func (m *Manager) fetchTarget(ctx context.Context, target model.DownloadTarget, artwork []byte) error {
	var res *httpx.DownloadResult
	var err error

	var lastReported int64
	onProgress := func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-lastReported)
		lastReported = written
	}

	// Always at least one attempt, whatever the configured retry count.
	attempts := m.settings.DownloadMaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for tries := 0; tries < attempts; tries++ {
		res, err = m.httpClient.DownloadFile(ctx, target.URL, m.settings.DownloadsPath, target.LocalName, onProgress)
		if err == nil || ctx.Err() != nil {
			break
		}
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Retry %d/%d for %s - %s", tries+1, attempts, target.Artist, target.Title),
			Level:   LevelWarning,
		})
		m.waitForRetry(ctx, tries)
	}
	if err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", filepath.Base(res.Path)), Level: LevelVerbose})

	if m.settings.ModifyTags && target.IsMP3() && filepath.Ext(res.Path) == ".mp3" {
		if err := m.tagger.SaveTags(res.Path, target, artwork); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Tagging %s: %v", filepath.Base(res.Path), err), Level: LevelWarning})
		}
	}

	return nil
}

// saveArtwork fetches, post-processes and writes the item's cover art
// next to the download. The processed JPEG bytes are returned for tag
// embedding.
func (m *Manager) saveArtwork(ctx context.Context, item model.Item) ([]byte, error) {
	artwork, err := m.httpClient.Get(ctx, item.ArtURL)
	if err != nil {
		return nil, err
	}

	if m.settings.CoverArtResize {
		if resized, err := m.images.ResizeImage(ctx, artwork, m.settings.CoverArtMaxSize, m.settings.CoverArtMaxSize); err == nil {
			artwork = resized
		}
	} else if m.settings.ConvertCoverArtJPG {
		if converted, err := m.images.ConvertToJPEG(ctx, artwork); err == nil {
			artwork = converted
		}
	}

	name := model.SanitizeFileName(fmt.Sprintf("%s - %s (%d).jpg", item.Artist, item.Title, item.DownloadID))
	path := filepath.Join(m.settings.DownloadsPath, name)
	if err := ioutils.WriteFile(path, artwork); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved artwork %s", name), Level: LevelVerbose})
	return artwork, nil
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

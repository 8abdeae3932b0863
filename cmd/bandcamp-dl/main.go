package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"bandcamp-collection-dl/internal/auth"
	"bandcamp-collection-dl/internal/config"
	"bandcamp-collection-dl/internal/download"
	"bandcamp-collection-dl/internal/model"
)

func main() {
	// Command line flags
	var (
		formatFlag      = flag.String("format", "", "Audio format to download (default flac)")
		identityFlag    = flag.String("identity", "", "Bandcamp identity cookie (raw or Base64); overrides browser lookup")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		concurrencyFlag = flag.Int("concurrency", 0, "Parallel downloads (default 1)")
		browsersFlag    = flag.String("browsers", "", "Comma-separated browser probe order (chrome,chromium,firefox)")
		saveArtFlag     = flag.Bool("save-art", false, "Save cover art next to each download")
		tagFlag         = flag.Bool("tag", false, "Write ID3 tags to single-track MP3 downloads")
		listFormatsFlag = flag.Bool("list-formats", false, "List known format identifiers and exit")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Enumerate the collection without downloading")
	)
	flag.BoolVar(verboseFlag, "v", false, "Show verbose output (shorthand)")

	flag.Parse()

	if *listFormatsFlag {
		for _, format := range model.KnownFormats() {
			fmt.Println(format)
		}
		return
	}

	// Load config
	settings, err := config.Load(configPath(*configFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *formatFlag != "" {
		settings.Format = *formatFlag
	}
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if *browsersFlag != "" {
		settings.Browsers = strings.Split(*browsersFlag, ",")
	}
	if *saveArtFlag {
		settings.SaveCoverArt = true
	}
	if *tagFlag {
		settings.ModifyTags = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Plain prefixes when stdout is piped, symbols on a terminal.
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	// Create manager with progress callback
	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		fmt.Println(levelPrefix(event.Level, isTTY) + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Bandcamp Collection Downloader")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println()

	if err := manager.Initialize(ctx, *identityFlag); err != nil {
		if errors.Is(err, auth.ErrNoIdentity) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Log in to bandcamp.com in a supported browser or pass -identity.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println()
		for _, name := range manager.ItemNames() {
			fmt.Println("  " + name)
		}
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	// Start downloads
	fmt.Println("\nStarting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, filesReceived, filesTotal := manager.GetProgress()
	fmt.Println()
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Complete! Downloaded %d/%d items (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
}

// levelPrefix picks the message prefix for a progress level. Symbols
// stay off when output is piped so logs stay grep-friendly.
func levelPrefix(level download.ProgressLevel, isTTY bool) string {
	if !isTTY {
		switch level {
		case download.LevelError:
			return "ERROR: "
		case download.LevelWarning:
			return "WARN:  "
		default:
			return ""
		}
	}
	switch level {
	case download.LevelError:
		return "✗ "
	case download.LevelWarning:
		return "! "
	case download.LevelSuccess:
		return "✓ "
	case download.LevelInfo:
		return "· "
	default:
		return "  "
	}
}

// configPath resolves the settings file location: the -config flag, or
// the per-user config directory.
func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "bandcamp-collection-dl", "settings.json")
}

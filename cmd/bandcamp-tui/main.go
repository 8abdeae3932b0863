package main

import (
	"flag"
	"fmt"
	"os"

	"bandcamp-collection-dl/internal/config"
	"bandcamp-collection-dl/internal/tui"
)

func main() {
	var (
		formatFlag   = flag.String("format", "", "Audio format to download (default flac)")
		identityFlag = flag.String("identity", "", "Bandcamp identity cookie; overrides browser lookup")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *formatFlag != "" {
		settings.Format = *formatFlag
	}
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}

	if err := tui.Run(settings, *identityFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

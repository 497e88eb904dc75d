package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/warden-archive/warden/internal/extractor"
)

// runExtract handles the `warden extract <url>` subcommand.
// Returns an exit code (0 = all extractors succeeded or skipped, 1 = at
// least one failed) and an error for conditions that prevented extraction
// from starting at all.
func runExtract(args []string) (int, error) {
	var url string
	only := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			printExtractHelp()
			return 0, nil
		case "--only":
			if i+1 < len(args) {
				i++
				only = args[i]
			}
		default:
			if url == "" && !strings.HasPrefix(args[i], "-") {
				url = args[i]
			}
		}
	}
	if url == "" {
		printExtractHelp()
		return 1, fmt.Errorf("extract requires a URL")
	}

	ctx := context.Background()

	app, err := newApp(ctx)
	if err != nil {
		return 1, err
	}

	// One output root per invocation, timestamped under the archive dir
	target := extractor.Target{
		URL:    url,
		OutDir: filepath.Join(app.cfg.Storage.ArchiveDir(), fmt.Sprintf("%d", time.Now().Unix())),
	}

	fmt.Printf("Extracting %s\n", url)
	fmt.Printf("Output: %s\n", target.OutDir)
	fmt.Println()

	failed := 0
	for _, e := range app.registry.Extractors() {
		if only != "" && e.Name() != only {
			continue
		}
		if !e.ShouldExtract(target) {
			fmt.Printf("  %-12s skipped\n", e.Name())
			continue
		}

		result, err := e.Extract(ctx, target)
		if err != nil {
			// Unresolvable binary: this target's extractor fails, the run
			// continues
			fmt.Printf("  %-12s error: %v\n", e.Name(), err)
			failed++
			continue
		}

		switch result.Status {
		case extractor.StatusSucceeded:
			fmt.Printf("  %-12s ok (%d files, %s)\n", e.Name(), len(result.OutputFiles), result.Duration.Round(time.Millisecond))
		default:
			fmt.Printf("  %-12s failed (exit %d): %s\n", e.Name(), result.ReturnCode, result.Output)
			failed++
		}
	}

	if failed > 0 {
		return 1, nil
	}
	return 0, nil
}

func printExtractHelp() {
	fmt.Println("Usage: warden extract [options] <url>")
	fmt.Println()
	fmt.Println("Run every applicable extractor against the URL, placing output in a")
	fmt.Println("timestamped directory under $WARDEN_DATA_DIR/archive.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  --only <name>  Run a single extractor (wget, warc, media, pdf, screenshot, dom)")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  All extractors succeeded or were skipped")
	fmt.Println("  1  One or more extractors failed")
}

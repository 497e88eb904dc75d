package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("WARDEN %s\n", Version)
			fmt.Println("Web ARchive Dependency & Extraction Nexus")
			return
		case "setup":
			// Handle warden setup subcommand
			if err := runSetup(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "extract":
			// Handle warden extract subcommand
			code, err := runExtract(os.Args[2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(code)
		case "status":
			// Handle warden status subcommand
			if err := runStatus(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Default: show help
	fmt.Println("WARDEN - Web ARchive Dependency & Extraction Nexus")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  warden --version         Show version information")
	fmt.Println("  warden setup             Resolve and install all extraction tools")
	fmt.Println("  warden extract <url>     Run all applicable extractors against a URL")
	fmt.Println("  warden status            Show resolved tools and configuration")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  WARDEN_DATA_DIR          Archive root directory (required)")
	fmt.Println("  WARDEN_LIB_DIR           Managed tool installations (default: $WARDEN_DATA_DIR/lib)")
	fmt.Println("  WARDEN_TMP_DIR           Scratch space (default: $WARDEN_DATA_DIR/tmp)")
	fmt.Println()
	fmt.Println("Per-tool settings (WGET_ARGS, CHROME_BINARY, SAVE_MEDIA, ...) are read")
	fmt.Println("from the environment and from $WARDEN_DATA_DIR/warden.lua.")
}

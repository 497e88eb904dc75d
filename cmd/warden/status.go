package main

import (
	"context"
	"fmt"
)

// runStatus handles the `warden status` subcommand: report the detected
// platform, the loaded configuration, and where each binary resolves.
// Status never installs anything.
func runStatus(args []string) error {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printStatusHelp()
			return nil
		}
	}

	ctx := context.Background()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Platform:  %s/%s", app.platform.OS, app.platform.Arch)
	if distro := app.platform.GetDistro(); distro != nil {
		fmt.Printf(" (%s %s, %s family)", distro.ID, distro.Version, distro.Family)
	}
	fmt.Println()
	fmt.Printf("Data dir:  %s\n", app.cfg.Storage.DataDir)
	fmt.Printf("Lib dir:   %s\n", app.cfg.Storage.LibDir)
	fmt.Println()

	fmt.Println("Binaries:")
	for _, bin := range app.registry.Binaries() {
		abspath, err := bin.Load(ctx)
		if err != nil {
			fmt.Printf("  %-12s not found\n", bin.Name())
			continue
		}

		line := fmt.Sprintf("  %-12s %s (via %s)", bin.Name(), abspath, bin.ProviderName())
		if version, err := bin.Version(ctx); err == nil {
			line += fmt.Sprintf(" %s", version)
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println("Extractors:")
	for _, name := range app.registry.ExtractorNames() {
		fmt.Printf("  %s\n", name)
	}

	if !app.cfg.Media.Enabled {
		fmt.Println()
		fmt.Println("Note: media extraction is disabled (SAVE_MEDIA=false or incomplete config).")
	}
	if app.cfg.LDAP.Enabled {
		fmt.Println()
		fmt.Printf("LDAP auth: enabled (%s)\n", app.cfg.LDAP.ServerURI)
	}

	return nil
}

func printStatusHelp() {
	fmt.Println("Usage: warden status")
	fmt.Println()
	fmt.Println("Show the detected platform, loaded configuration, and the resolved")
	fmt.Println("path of every extraction tool. Resolution only; nothing is installed.")
}

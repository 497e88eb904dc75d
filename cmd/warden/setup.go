package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/warden-archive/warden/internal/lock"
)

// runSetup handles the `warden setup` subcommand: prepare every provider
// and resolve (installing where needed) every declared binary.
func runSetup(args []string) error {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printSetupHelp()
			return nil
		}
	}

	ctx := context.Background()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Preparing providers...")
	for _, name := range app.registry.ProviderNames() {
		provider, _ := app.registry.Provider(name)
		if err := provider.Setup(); err != nil {
			return fmt.Errorf("setup provider %s: %w", name, err)
		}
	}

	fmt.Println("Resolving binaries...")
	failed := 0
	for _, bin := range app.registry.Binaries() {
		// Installs mutate shared prefixes; one install per binary name at
		// a time, across processes
		installLock, err := lock.Acquire(ctx, app.lockDir(), bin.Name())
		if err != nil {
			if errors.Is(err, lock.ErrLockExists) {
				fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", bin.Name(), err)
				failed++
				continue
			}
			return fmt.Errorf("acquire install lock for %s: %w", bin.Name(), err)
		}

		abspath, err := bin.LoadOrInstall(ctx)
		installLock.Release()
		if err != nil {
			fmt.Printf("  %-12s MISSING (%v)\n", bin.Name(), err)
			failed++
			continue
		}
		fmt.Printf("  %-12s %s (via %s)\n", bin.Name(), abspath, bin.ProviderName())
	}

	if failed > 0 {
		return fmt.Errorf("%d binaries could not be resolved", failed)
	}
	fmt.Println()
	fmt.Println("All binaries resolved.")
	return nil
}

func printSetupHelp() {
	fmt.Println("Usage: warden setup")
	fmt.Println()
	fmt.Println("Prepare provider environments and resolve every extraction tool,")
	fmt.Println("installing missing tools through the configured providers.")
	fmt.Println()
	fmt.Println("Installs are serialized per binary name with a lock file under")
	fmt.Println("$WARDEN_TMP_DIR/locks, so concurrent setups do not corrupt the")
	fmt.Println("managed tool prefixes.")
}

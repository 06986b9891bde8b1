package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/five82/encore/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (default ~/.config/encore/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (default ~/.config/encore/prefs.toml)")
	strict := flag.Bool("strict", false, "abort on any action fault instead of recovering")
	headless := flag.Bool("headless", false, "run without the terminal UI (sync and control server only)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Strict:     *strict,
		Headless:   *headless,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "encore: %v\n", err)
		return 1
	}
	return 0
}

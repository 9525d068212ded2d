package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/clings-dev/clings/cli"
	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/things"
	"github.com/clings-dev/clings/tui"
)

// main wires configuration, the Things bridge, and the command dispatcher.
func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("clings version %s\ncommit: %s\nbuilt: %s\n",
			config.Version, config.GitCommit, config.BuildDate)
		os.Exit(0)
	}

	// Initialize paths early - this must succeed for the application to function
	if err := config.InitPaths(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := config.EnsureDirs(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so its logs go to the cache-dir log file.
	// Every other command logs to stderr.
	if isTUICommand(os.Args[1:]) {
		_, cleanup, logErr := config.InitFileLogging(cfg)
		defer cleanup()
		if logErr != nil {
			slog.Warn("file logging unavailable", "error", logErr)
		}
	} else {
		config.InitLogging(cfg)
	}

	client := things.NewClient(bridgeOptions(cfg)...)

	app := cli.NewApp(client, cli.WithTUI(func(ctx context.Context, bridge cli.Bridge) error {
		return tui.NewUI(bridge).Run(ctx)
	}))
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}

// bridgeOptions attaches the read-only database mirror when it is enabled
// and the Things database can be found. Reads fall back to JXA either way,
// so a missing mirror is never fatal.
func bridgeOptions(cfg *config.Config) []things.Option {
	if !cfg.Database.Enabled {
		return nil
	}

	path := cfg.Database.Path
	if path == "" {
		detected, err := things.DefaultDatabasePath()
		if err != nil {
			slog.Debug("no Things database found", "error", err)
			return nil
		}
		path = detected
	}

	mirror, err := things.OpenMirror(path)
	if err != nil {
		slog.Warn("database mirror unavailable, reads go through automation", "path", path, "error", err)
		return nil
	}
	return []things.Option{things.WithMirror(mirror)}
}

// isTUICommand reports whether the first command word is tui, skipping over
// the global flags the root command accepts.
func isTUICommand(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") && (arg == "-o" || arg == "--output" || arg == "--log-level") {
				i++
			}
			continue
		}
		return arg == "tui"
	}
	return false
}

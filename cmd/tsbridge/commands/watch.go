package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tsbridge/tsbridge/config"
	"github.com/tsbridge/tsbridge/internal/cliutil"
)

// watchFlags contains flags for the watch command.
type watchFlags struct {
	sourceFlags
	Debounce time.Duration
}

// setupWatchFlags creates and configures a FlagSet for the watch command.
func setupWatchFlags() (*flag.FlagSet, *watchFlags) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags := &watchFlags{}
	bindSourceFlags(fs, &flags.sourceFlags)

	fs.DurationVar(&flags.Debounce, "debounce", 0, "coalescing window for bursts of file changes (default: 2s or config value)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: tsbridge watch [flags] [file]\n\n")
		cliutil.Writef(fs.Output(), "Regenerate the TypeScript client package whenever the schema file changes.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  tsbridge watch -o ./frontend/src/api openapi.json\n")
		cliutil.Writef(fs.Output(), "  tsbridge watch --debounce 500ms -o ./src/api openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  tsbridge watch -c tsbridge.yaml --verbose\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Rapid schema edits within the debounce window coalesce into one cycle\n")
		cliutil.Writef(fs.Output(), "  - A revision that fails to resolve is logged and skipped; the previous\n")
		cliutil.Writef(fs.Output(), "    output stays in place and watching continues\n")
		cliutil.Writef(fs.Output(), "  - Use --verbose to log each regeneration cycle\n")
	}

	return fs, flags
}

// HandleWatch executes the watch command. It blocks until interrupted.
func HandleWatch(args []string) error {
	fs, flags := setupWatchFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("watch command takes at most one file path")
	}

	if err := loadEnv(flags.EnvFile); err != nil {
		return err
	}

	cfg, err := buildConfig(&flags.sourceFlags, fs.Arg(0))
	if err != nil {
		return err
	}
	if flags.Debounce > 0 {
		cfg.Debounce = config.Duration(flags.Debounce)
	}

	eng, err := newEngine(cfg, flags.Verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SourceFile != "" {
		cliutil.Writef(os.Stderr, "Watching %s (debounce %v). Press Ctrl+C to stop.\n",
			cfg.SourceFile, cfg.Debounce.Std())
	}

	if err := eng.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cliutil.Writeln(os.Stderr, "Stopped.")
	return nil
}

package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsbridge/tsbridge/internal/cliutil"
)

// generateFlags contains flags for the generate command.
type generateFlags struct {
	sourceFlags
}

// setupGenerateFlags creates and configures a FlagSet for the generate
// command. Returns the FlagSet and a generateFlags struct with bound flag
// variables.
func setupGenerateFlags() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &generateFlags{}
	bindSourceFlags(fs, &flags.sourceFlags)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: tsbridge generate [flags] [file|url]\n\n")
		cliutil.Writef(fs.Output(), "Generate a TypeScript client package from an OpenAPI 3.x schema.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate -o ./frontend/src/api openapi.json\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate -o ./src/api https://api.example.com/openapi.json\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate -o ./src/api -H 'Authorization: Bearer ${API_TOKEN}' https://api.example.com/openapi.json\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate --curl \"curl -H 'Authorization: Bearer abc123' https://api.example.com/openapi.json\" -o ./src/api\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate --hooks query-style -o ./src/api openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  tsbridge generate -c tsbridge.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - The schema argument overrides sourceFile/sourceUrl from tsbridge.yaml\n")
		cliutil.Writef(fs.Output(), "  - Header values may reference environment variables as ${VAR}; a ./.env\n")
		cliutil.Writef(fs.Output(), "    file (or --env-file) is loaded first\n")
		cliutil.Writef(fs.Output(), "  - Artifacts are staged and committed atomically; a failed run leaves the\n")
		cliutil.Writef(fs.Output(), "    previous output untouched\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command.
func HandleGenerate(args []string) error {
	fs, flags := setupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("generate command takes at most one file path or URL")
	}

	if err := loadEnv(flags.EnvFile); err != nil {
		return err
	}

	cfg, err := buildConfig(&flags.sourceFlags, fs.Arg(0))
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, flags.Verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := eng.RunOnce(ctx)
	if err != nil {
		return err
	}

	printReport(cfg, report)
	return nil
}

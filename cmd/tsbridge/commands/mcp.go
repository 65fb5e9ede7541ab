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
	"github.com/tsbridge/tsbridge/internal/mcpserver"
)

// setupMCPFlags creates and configures a FlagSet for the mcp command.
func setupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: tsbridge mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the generate and inspect tools over MCP stdio transport.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  TSBRIDGE_ALLOW_PRIVATE_IPS  allow schema URLs resolving to private addresses\n")
		cliutil.Writef(fs.Output(), "  TSBRIDGE_MAX_INLINE_SIZE    maximum inline schema size in bytes (default 2097152)\n")
		cliutil.Writef(fs.Output(), "  TSBRIDGE_HOOK_MODE          default hooks flavor (none, basic, query-style)\n")
		cliutil.Writef(fs.Output(), "  TSBRIDGE_EXCLUDE_TAGS       comma-separated default tag exclusions\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  tsbridge mcp\n")
		cliutil.Writef(fs.Output(), "  TSBRIDGE_HOOK_MODE=query-style tsbridge mcp\n")
	}

	return fs
}

// HandleMCP executes the mcp command. It blocks until the client disconnects
// or the process is interrupted.
func HandleMCP(args []string) error {
	fs := setupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

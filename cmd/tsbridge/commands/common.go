// Package commands provides CLI command handlers for tsbridge.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tsbridge/tsbridge/config"
	"github.com/tsbridge/tsbridge/engine"
	"github.com/tsbridge/tsbridge/internal/cliutil"
	"github.com/tsbridge/tsbridge/internal/curlparse"
	"github.com/tsbridge/tsbridge/resolver"
)

// headerValues collects repeated -H flags. Each value is split on the first
// colon, curl style.
type headerValues map[string]string

func (h headerValues) String() string {
	if len(h) == 0 {
		return ""
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func (h headerValues) Set(value string) error {
	key, val, found := strings.Cut(value, ":")
	if !found {
		return fmt.Errorf("header must be in 'Name: value' form, got %q", value)
	}
	h[strings.TrimSpace(key)] = strings.TrimSpace(val)
	return nil
}

// sourceFlags are the flags shared by the generate and watch commands.
type sourceFlags struct {
	ConfigPath  string
	Output      string
	HookMode    string
	ExcludeTags string
	Headers     headerValues
	Curl        string
	EnvFile     string
	Verbose     bool
}

// bindSourceFlags registers the shared schema-source and output flags on fs.
func bindSourceFlags(fs *flag.FlagSet, flags *sourceFlags) {
	flags.Headers = headerValues{}

	fs.StringVar(&flags.ConfigPath, "c", "", "path to a tsbridge.yaml configuration file")
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a tsbridge.yaml configuration file")
	fs.StringVar(&flags.Output, "o", "", "output directory for generated files")
	fs.StringVar(&flags.Output, "output", "", "output directory for generated files")
	fs.StringVar(&flags.HookMode, "hooks", "", "hooks artifact flavor: none, basic, or query-style")
	fs.StringVar(&flags.ExcludeTags, "exclude-tags", "", "comma-separated operation tags to exclude (default: internal)")
	fs.Var(flags.Headers, "H", "schema fetch header as 'Name: value' (repeatable)")
	fs.Var(flags.Headers, "header", "schema fetch header as 'Name: value' (repeatable)")
	fs.StringVar(&flags.Curl, "curl", "", "curl command to copy the schema URL and headers from")
	fs.StringVar(&flags.EnvFile, "env-file", "", "env file with header secrets (default: ./.env if present)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log regeneration cycle progress to stderr")
}

// loadEnv loads environment variables for ${VAR} header interpolation.
// A missing file at the default path is fine; a missing file at an
// explicitly requested path is an error.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// buildConfig loads the configuration file and layers the command-line
// overrides on top. specArg is the positional schema file path or URL; it
// takes precedence over both the config file and --curl.
func buildConfig(flags *sourceFlags, specArg string) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.Curl != "" {
		req, err := curlparse.Parse(flags.Curl)
		if err != nil {
			return nil, fmt.Errorf("parsing curl command: %w", err)
		}
		cfg.SourceURL = req.URL
		cfg.SourceFile = ""
		for k, v := range req.Headers {
			setHeader(cfg, k, v)
		}
	}

	if specArg != "" {
		if isURL(specArg) {
			cfg.SourceURL = specArg
			cfg.SourceFile = ""
		} else {
			cfg.SourceFile = specArg
			cfg.SourceURL = ""
		}
	}

	for k, v := range flags.Headers {
		setHeader(cfg, k, os.Expand(v, os.Getenv))
	}
	if flags.Output != "" {
		cfg.OutputDir = flags.Output
	}
	if flags.HookMode != "" {
		cfg.HookMode = flags.HookMode
	}
	if flags.ExcludeTags != "" {
		cfg.ExcludeTags = splitTags(flags.ExcludeTags)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SourceFile == "" && cfg.SourceURL == "" {
		return nil, fmt.Errorf("a schema file, URL, or --curl command is required")
	}
	return cfg, nil
}

func setHeader(cfg *config.Config, key, value string) {
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	cfg.Headers[key] = value
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// splitTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// newEngine builds the regeneration engine for cfg. Verbose mode attaches a
// slog text logger on stderr; otherwise the engine stays silent.
func newEngine(cfg *config.Config, verbose bool) (*engine.Engine, error) {
	var opts []engine.Option
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		opts = append(opts, engine.WithLogger(resolver.NewSlogAdapter(logger)))
	}
	return engine.New(cfg, nil, opts...)
}

// printReport writes a single-cycle summary to stdout.
func printReport(cfg *config.Config, report *engine.Report) {
	if len(report.Issues) > 0 {
		cliutil.Writef(os.Stdout, "Generation Issues (%d):\n", len(report.Issues))
		for _, issue := range report.Issues {
			cliutil.Writef(os.Stdout, "  %s\n", issue.String())
		}
		cliutil.Writef(os.Stdout, "\n")
	}

	if report.UpToDate {
		cliutil.Writef(os.Stdout, "✓ Output is up to date (%d types, %d endpoints)\n",
			report.Types, report.Endpoints)
		return
	}

	cliutil.Writef(os.Stdout, "Generated Files (%d):\n", len(report.Written))
	for _, name := range report.Written {
		cliutil.Writef(os.Stdout, "  - %s\n", filepath.Join(cfg.OutputDir, name))
	}
	cliutil.Writef(os.Stdout, "\n✓ Generation successful (%d types, %d endpoints, %v)\n",
		report.Types, report.Endpoints, report.Duration.Round(time.Millisecond))
}

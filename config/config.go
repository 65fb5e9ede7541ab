// Package config defines the tsbridge configuration surface: output
// directory, schema source, tag exclusion, hook mode, and watch-daemon
// tuning. Configuration loads from a tsbridge.yaml file, with header
// values interpolating ${VAR} references from the process environment so
// auth secrets stay out of the file.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/tsbridge/tsbridge/emit"
	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

// DefaultFileName is the configuration file looked up when no explicit
// path is given.
const DefaultFileName = "tsbridge.yaml"

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return &tserrors.ConfigError{
			Option:  "debounce",
			Value:   s,
			Message: "invalid duration",
			Cause:   err,
		}
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// Config holds every knob the generation pipeline consumes. The zero value
// is not usable; start from Default.
type Config struct {
	// OutputDir is the directory the artifacts are written into.
	OutputDir string `yaml:"outputDir"`

	// SourceFile is the path of a local schema document. Mutually exclusive
	// with SourceURL.
	SourceFile string `yaml:"sourceFile"`

	// SourceURL is the URL of a schema endpoint. Mutually exclusive with
	// SourceFile.
	SourceURL string `yaml:"sourceUrl"`

	// Headers are sent with every schema fetch (e.g., Authorization).
	// Values may reference environment variables as ${VAR}.
	Headers map[string]string `yaml:"headers"`

	// ExcludeTags drops endpoints carrying any of these tags before
	// emission. Default: ["internal"].
	ExcludeTags []string `yaml:"excludeTags"`

	// HookMode selects the hooks artifact flavor: none, basic, or
	// query-style. Default: basic.
	HookMode string `yaml:"hookMode"`

	// BaseDir is the base directory for external file references. Defaults
	// to the schema file's directory.
	BaseDir string `yaml:"baseDir"`

	// Debounce is the coalescing window for watch-mode change
	// notifications. Default: 2s.
	Debounce Duration `yaml:"debounce"`

	// MaxRetries bounds the backoff retries for transient schema fetch
	// failures in watch mode. Single-run invocations never retry.
	// Default: 3.
	MaxRetries int `yaml:"maxRetries"`

	// MaxRefDepth bounds reference chain length during resolution.
	MaxRefDepth int `yaml:"maxRefDepth"`

	// MaxCachedDocuments bounds the external document cache.
	MaxCachedDocuments int `yaml:"maxCachedDocuments"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		OutputDir:   "./src/api",
		ExcludeTags: []string{"internal"},
		HookMode:    string(emit.HookModeBasic),
		Debounce:    Duration(2 * time.Second),
		MaxRetries:  3,
	}
}

// Load reads a YAML configuration file and merges it over Default.
// A missing file at the default path is not an error; a missing file at an
// explicitly requested path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, &tserrors.IOError{Op: "read", Target: path, Cause: err}
	}
	return Parse(data, path)
}

// Parse decodes YAML configuration bytes and merges them over Default.
// name identifies the source in error messages.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &tserrors.ConfigError{
			Option:  name,
			Message: "invalid YAML",
			Cause:   err,
		}
	}
	cfg.interpolateHeaders()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// interpolateHeaders expands ${VAR} references in header values from the
// process environment. Unset variables expand to the empty string.
func (c *Config) interpolateHeaders() {
	for k, v := range c.Headers {
		c.Headers[k] = os.Expand(v, os.Getenv)
	}
}

// Validate checks the configuration for contradictions and out-of-range
// values. All failures are ConfigError.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return &tserrors.ConfigError{
			Option:  "outputDir",
			Message: "output directory is required",
		}
	}
	if c.SourceFile != "" && c.SourceURL != "" {
		return &tserrors.ConfigError{
			Option:  "sourceFile",
			Message: "sourceFile and sourceUrl are mutually exclusive",
		}
	}
	if _, err := emit.ParseHookMode(c.HookMode); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return &tserrors.ConfigError{
			Option:  "debounce",
			Value:   c.Debounce.String(),
			Message: "must not be negative",
		}
	}
	if c.MaxRetries < 0 {
		return &tserrors.ConfigError{
			Option:  "maxRetries",
			Value:   c.MaxRetries,
			Message: "must not be negative",
		}
	}
	return nil
}

// ParsedHookMode returns the validated hook mode. Call Validate first;
// an invalid mode here falls back to basic.
func (c *Config) ParsedHookMode() emit.HookMode {
	mode, err := emit.ParseHookMode(c.HookMode)
	if err != nil {
		return emit.HookModeBasic
	}
	return mode
}

// Source builds the schema source the configuration describes. Returns a
// ConfigError when neither sourceFile nor sourceUrl is set.
func (c *Config) Source() (resolver.Source, error) {
	switch {
	case c.SourceFile != "":
		return resolver.NewFileSource(c.SourceFile), nil
	case c.SourceURL != "":
		return resolver.NewHTTPSource(c.SourceURL, c.Headers), nil
	default:
		return nil, &tserrors.ConfigError{
			Option:  "sourceFile",
			Message: "a schema source (sourceFile or sourceUrl) is required",
		}
	}
}

// String renders the effective configuration for debug logs, with header
// values redacted.
func (c *Config) String() string {
	src := c.SourceFile
	if src == "" {
		src = c.SourceURL
	}
	return fmt.Sprintf("output=%s source=%s hookMode=%s excludeTags=%v headers=%d",
		c.OutputDir, src, c.HookMode, c.ExcludeTags, len(c.Headers))
}

package resolver

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/tsbridge/tsbridge"
	"github.com/tsbridge/tsbridge/internal/options"
)

// baseDirOf returns the directory of a schema file path, used as the
// default root for external file references.
func baseDirOf(path string) string {
	return filepath.Dir(path)
}

// Option is a function that configures a resolve operation
type Option func(*resolveConfig) error

// resolveConfig holds configuration for a resolve operation
type resolveConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	url      *string
	bytes    []byte
	source   Source

	// Configuration options
	headers          map[string]string
	httpClient       *http.Client
	userAgent        string
	disableFallbacks bool
	logger           Logger
	baseDir          string

	// Resource limits (0 means use default)
	maxRefDepth        int
	maxCachedDocuments int

	ctx context.Context
}

// ResolveWithOptions resolves a schema document into a graph using
// functional options, combining input source selection and configuration in
// a single call.
//
// Example:
//
//	graph, err := resolver.ResolveWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithLogger(resolver.NewSlogAdapter(logger)),
//	)
func ResolveWithOptions(opts ...Option) (*ResolvedGraph, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}

	r := &Resolver{
		MaxRefDepth:        cfg.maxRefDepth,
		MaxCachedDocuments: cfg.maxCachedDocuments,
		BaseDir:            cfg.baseDir,
		Logger:             cfg.logger,
	}

	ctx := cfg.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var src Source
	switch {
	case cfg.filePath != nil:
		src = &FileSource{Path: *cfg.filePath}
		if cfg.baseDir == "" {
			r.BaseDir = baseDirOf(*cfg.filePath)
		}
	case cfg.url != nil:
		src = &HTTPSource{
			URL:              *cfg.url,
			Headers:          cfg.headers,
			Client:           cfg.httpClient,
			UserAgent:        cfg.userAgent,
			DisableFallbacks: cfg.disableFallbacks,
		}
	case cfg.bytes != nil:
		src = &BytesSource{Data: cfg.bytes, Name: "<bytes>"}
	case cfg.source != nil:
		src = cfg.source
	default:
		// Should never reach here due to validation in applyOptions
		return nil, fmt.Errorf("resolver: no input source specified")
	}

	return r.Resolve(ctx, src)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*resolveConfig, error) {
	cfg := &resolveConfig{
		userAgent: tsbridge.UserAgent(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"resolver: must specify an input source (use WithFilePath, WithURL, WithBytes, or WithSource)",
		"resolver: must specify exactly one input source",
		cfg.filePath != nil, cfg.url != nil, cfg.bytes != nil, cfg.source != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a local schema file as the input source
func WithFilePath(path string) Option {
	return func(cfg *resolveConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithURL specifies an HTTP(S) URL as the input source. Common schema
// endpoint fallbacks are probed when the URL itself does not serve a schema;
// disable them with WithDisableFallbacks.
func WithURL(url string) Option {
	return func(cfg *resolveConfig) error {
		cfg.url = &url
		return nil
	}
}

// WithBytes specifies an in-memory document as the input source
func WithBytes(data []byte) Option {
	return func(cfg *resolveConfig) error {
		cfg.bytes = data
		return nil
	}
}

// WithSource specifies a custom Source implementation as the input source
func WithSource(src Source) Option {
	return func(cfg *resolveConfig) error {
		cfg.source = src
		return nil
	}
}

// WithContext sets the context used while loading the document
func WithContext(ctx context.Context) Option {
	return func(cfg *resolveConfig) error {
		cfg.ctx = ctx
		return nil
	}
}

// WithHeader adds an HTTP header sent when fetching a URL source, typically
// an Authorization header for protected schema endpoints.
func WithHeader(name, value string) Option {
	return func(cfg *resolveConfig) error {
		if name == "" {
			return fmt.Errorf("header name must not be empty")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers[name] = value
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for URL sources
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *resolveConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent overrides the User-Agent header for URL sources
func WithUserAgent(ua string) Option {
	return func(cfg *resolveConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithDisableFallbacks disables probing of common schema endpoint paths
// when the configured URL does not serve a schema document
func WithDisableFallbacks(disable bool) Option {
	return func(cfg *resolveConfig) error {
		cfg.disableFallbacks = disable
		return nil
	}
}

// WithLogger sets the structured logger for resolution debug output
func WithLogger(logger Logger) Option {
	return func(cfg *resolveConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithBaseDir sets the directory external file references resolve against.
// Defaults to the directory of the input file when resolving from a path.
func WithBaseDir(dir string) Option {
	return func(cfg *resolveConfig) error {
		cfg.baseDir = dir
		return nil
	}
}

// WithMaxRefDepth overrides the maximum reference nesting depth
func WithMaxRefDepth(depth int) Option {
	return func(cfg *resolveConfig) error {
		if depth < 0 {
			return fmt.Errorf("max ref depth must not be negative")
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments overrides the external document cache size
func WithMaxCachedDocuments(n int) Option {
	return func(cfg *resolveConfig) error {
		if n < 0 {
			return fmt.Errorf("max cached documents must not be negative")
		}
		cfg.maxCachedDocuments = n
		return nil
	}
}

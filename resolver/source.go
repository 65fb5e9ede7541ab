package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tsbridge/tsbridge"
	"github.com/tsbridge/tsbridge/tserrors"
)

// maxDocumentSize is the maximum size (in bytes) allowed for a schema
// document. This prevents resource exhaustion from arbitrarily large inputs.
// Set to 10MB which should be sufficient for most OpenAPI documents.
const maxDocumentSize = 10 * 1024 * 1024

// defaultHTTPTimeout bounds a single schema fetch attempt.
const defaultHTTPTimeout = 30 * time.Second

// Source is the single capability behind which all schema producers live:
// a static file, an HTTP endpoint, raw bytes, or any external collaborator
// (framework introspection adapters implement this interface out of tree).
type Source interface {
	// Load produces the raw schema document bytes. Implementations must be
	// safe to call repeatedly; the watch daemon reloads on every cycle.
	Load(ctx context.Context) ([]byte, error)

	// Location describes the source for logs and error messages.
	Location() string
}

// FileSource loads the schema document from a local file.
type FileSource struct {
	// Path is the schema file path.
	Path string
}

// NewFileSource creates a Source reading from the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source.
func (f *FileSource) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &tserrors.IOError{Op: "read", Target: f.Path, Cause: err}
	}
	if int64(len(data)) > maxDocumentSize {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        maxDocumentSize,
			Actual:       int64(len(data)),
			Message:      f.Path,
		}
	}
	return data, nil
}

// Location implements Source.
func (f *FileSource) Location() string { return f.Path }

// HTTPSource fetches the schema document from a URL, optionally with
// caller-supplied headers (commonly extracted from a pasted curl command).
type HTTPSource struct {
	// URL is the schema endpoint.
	URL string
	// Headers are added to every request (e.g., Authorization).
	Headers map[string]string
	// Client is the HTTP client used for fetching. If nil, a default client
	// with a 30-second timeout is used.
	Client *http.Client
	// UserAgent overrides the default tsbridge User-Agent when non-empty.
	UserAgent string
	// DisableFallbacks turns off the conventional-path retries
	// (/openapi.json, /api/schema/) applied when URL does not end in .json.
	DisableFallbacks bool
}

// NewHTTPSource creates a Source fetching from the given URL.
func NewHTTPSource(url string, headers map[string]string) *HTTPSource {
	return &HTTPSource{URL: url, Headers: headers}
}

// Location implements Source.
func (h *HTTPSource) Location() string { return h.URL }

// candidateURLs returns the URLs to try in order. When the configured URL
// does not already point at a JSON document, the conventional schema paths
// used by common backend frameworks are appended as fallbacks.
func (h *HTTPSource) candidateURLs() []string {
	urls := []string{h.URL}
	if h.DisableFallbacks || strings.HasSuffix(h.URL, ".json") {
		return urls
	}
	base := strings.TrimRight(h.URL, "/")
	return append(urls, base+"/openapi.json", base+"/api/schema/")
}

// Load implements Source. Each candidate URL is tried once; the last error
// is returned when none succeeds. Network failures and 5xx responses are
// marked transient so the watch daemon retries them with backoff.
func (h *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	var lastErr error
	for _, url := range h.candidateURLs() {
		data, err := h.fetch(ctx, client, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (h *HTTPSource) fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &tserrors.IOError{Op: "fetch", Target: url, Cause: err}
	}

	ua := h.UserAgent
	if ua == "" {
		ua = tsbridge.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &tserrors.IOError{Op: "fetch", Target: url, Transient: true, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &tserrors.IOError{
			Op:        "fetch",
			Target:    url,
			Transient: resp.StatusCode >= 500,
			Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, &tserrors.IOError{Op: "fetch", Target: url, Transient: true, Cause: err}
	}
	if int64(len(data)) > maxDocumentSize {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        maxDocumentSize,
			Actual:       int64(len(data)),
			Message:      url,
		}
	}
	return data, nil
}

// BytesSource serves a fixed in-memory document. Useful in tests and for
// callers that already hold the raw schema.
type BytesSource struct {
	// Name describes the document for error messages.
	Name string
	// Data is the raw document.
	Data []byte
}

// NewBytesSource creates a Source returning the given bytes.
func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{Name: name, Data: data}
}

// Load implements Source.
func (b *BytesSource) Load(_ context.Context) ([]byte, error) {
	return b.Data, nil
}

// Location implements Source.
func (b *BytesSource) Location() string {
	if b.Name != "" {
		return b.Name
	}
	return "<bytes>"
}

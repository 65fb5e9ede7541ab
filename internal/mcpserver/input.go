package mcpserver

import (
	"fmt"
	"path/filepath"

	"github.com/tsbridge/tsbridge/resolver"
)

// specInput represents the three ways a schema document can be provided to a
// tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// source builds the schema source for whichever input was provided. URL
// inputs get the SSRF-guarded HTTP client unless private IPs are allowed.
func (s specInput) source() (resolver.Source, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set TSBRIDGE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	switch {
	case s.File != "":
		return resolver.NewFileSource(s.File), nil
	case s.URL != "":
		src := resolver.NewHTTPSource(s.URL, nil)
		if !cfg.AllowPrivateIPs {
			src.Client = newSafeHTTPClient()
		}
		return src, nil
	default:
		return resolver.NewBytesSource("inline", []byte(s.Content)), nil
	}
}

// baseDir returns the directory external file references resolve against:
// the schema file's directory for file inputs, empty otherwise.
func (s specInput) baseDir() string {
	if s.File == "" {
		return ""
	}
	return filepath.Dir(s.File)
}

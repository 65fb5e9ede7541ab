package mcpserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbridge/tsbridge/resolver"
)

func TestSpecInputSource(t *testing.T) {
	tests := []struct {
		name    string
		input   specInput
		want    any
		wantErr string
	}{
		{
			name:    "nothing provided",
			input:   specInput{},
			wantErr: "exactly one of file, url, or content",
		},
		{
			name:    "two provided",
			input:   specInput{File: "a.json", URL: "https://example.com"},
			wantErr: "exactly one of file, url, or content",
		},
		{
			name:  "file",
			input: specInput{File: "openapi.json"},
			want:  &resolver.FileSource{},
		},
		{
			name:  "url",
			input: specInput{URL: "https://api.example.com/openapi.json"},
			want:  &resolver.HTTPSource{},
		},
		{
			name:  "content",
			input: specInput{Content: "{}"},
			want:  &resolver.BytesSource{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := tt.input.source()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestSpecInputSourceURLGetsSafeClient(t *testing.T) {
	src, err := specInput{URL: "https://api.example.com"}.source()
	require.NoError(t, err)

	httpSrc, ok := src.(*resolver.HTTPSource)
	require.True(t, ok)
	assert.NotNil(t, httpSrc.Client, "URL inputs use the SSRF-guarded client by default")
}

func TestSpecInputInlineSizeLimit(t *testing.T) {
	huge := strings.Repeat("x", int(cfg.MaxInlineSize)+1)
	_, err := specInput{Content: huge}.source()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecInputBaseDir(t *testing.T) {
	assert.Equal(t, "specs", specInput{File: "specs/openapi.json"}.baseDir())
	assert.Empty(t, specInput{URL: "https://example.com"}.baseDir())
	assert.Empty(t, specInput{Content: "{}"}.baseDir())
}

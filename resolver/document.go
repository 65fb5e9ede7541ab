package resolver

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/tsbridge/tsbridge/tserrors"
)

// SourceFormat represents the format of the source schema document.
type SourceFormat string

const (
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
)

// Document is the raw decoded OpenAPI 3.x object model, restricted to the
// parts the generation pipeline consumes.
type Document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Info       *Info                `yaml:"info,omitempty" json:"info,omitempty"`
	Servers    []*Server            `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      map[string]*PathItem `yaml:"paths,omitempty" json:"paths,omitempty"`
	Components *Components          `yaml:"components,omitempty" json:"components,omitempty"`
	Tags       []*Tag               `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Info holds document metadata used by the doc generator.
type Info struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Server is an OAS server entry; the first one seeds the client base URL.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Tag is a document-level tag declaration.
type Tag struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Components holds the reusable objects of the document.
type Components struct {
	Schemas map[string]*Schema `yaml:"schemas,omitempty" json:"schemas,omitempty"`
}

// PathItem holds the operations available on a single path.
type PathItem struct {
	Get        *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put        *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post       *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete     *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch      *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Parameters []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Operations returns the operations declared on this path item keyed by
// upper-case HTTP method, in a fixed method order.
func (p *PathItem) Operations() []MethodOperation {
	ops := make([]MethodOperation, 0, 5)
	for _, mo := range []MethodOperation{
		{Method: "GET", Operation: p.Get},
		{Method: "PUT", Operation: p.Put},
		{Method: "POST", Operation: p.Post},
		{Method: "DELETE", Operation: p.Delete},
		{Method: "PATCH", Operation: p.Patch},
	} {
		if mo.Operation != nil {
			ops = append(ops, mo)
		}
	}
	return ops
}

// MethodOperation pairs an HTTP method with its operation object.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operation is a single API operation on a path.
type Operation struct {
	OperationID string               `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string               `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Deprecated  bool                 `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Parameters  []*Parameter         `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses,omitempty" json:"responses,omitempty"`
}

// Parameter is a path or query parameter declaration.
type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"` // "path", "query", "header", "cookie"
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// RequestBody is an operation request body declaration.
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// Response is a single response declaration keyed by status code.
type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// MediaType carries the schema for one content type.
type MediaType struct {
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// jsonContentType is the media type the pipeline generates bindings for.
const jsonContentType = "application/json"

// JSONSchema returns the application/json schema of a content map, or nil.
func jsonSchema(content map[string]*MediaType) *Schema {
	if content == nil {
		return nil
	}
	if mt, ok := content[jsonContentType]; ok && mt != nil {
		return mt.Schema
	}
	return nil
}

// DecodeDocument decodes a raw schema document, auto-detecting JSON versus
// YAML, and validates that it declares an OpenAPI 3.x version.
// sourcePath is used only for error reporting.
func DecodeDocument(data []byte, sourcePath string) (*Document, SourceFormat, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, "", &tserrors.SchemaError{Path: sourcePath, Message: "document is empty"}
	}

	var doc Document
	format := SourceFormatYAML
	if trimmed[0] == '{' {
		format = SourceFormatJSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, format, &tserrors.SchemaError{Path: sourcePath, Message: "invalid JSON document", Cause: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, format, &tserrors.SchemaError{Path: sourcePath, Message: "invalid YAML document", Cause: err}
		}
	}

	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, format, &tserrors.SchemaError{
			Path:    sourcePath,
			Message: "document does not declare an OpenAPI 3.x version",
		}
	}
	return &doc, format, nil
}

// decodeLoose decodes a document without the version check. Externally
// referenced files are often bare component bundles with no openapi key.
func decodeLoose(data []byte, sourcePath string) (*Document, SourceFormat, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, "", &tserrors.SchemaError{Path: sourcePath, Message: "document is empty"}
	}

	var doc Document
	format := SourceFormatYAML
	if trimmed[0] == '{' {
		format = SourceFormatJSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, format, &tserrors.SchemaError{Path: sourcePath, Message: "invalid JSON document", Cause: err}
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, format, &tserrors.SchemaError{Path: sourcePath, Message: "invalid YAML document", Cause: err}
	}
	return &doc, format, nil
}

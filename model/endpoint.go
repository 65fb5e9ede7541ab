package model

import (
	"sort"
	"strings"
)

// Param is one path or query parameter of an endpoint.
type Param struct {
	// Name is the wire parameter name.
	Name        string
	Type        TypeRef
	Required    bool
	Description string
}

// Body is an endpoint request body binding.
type Body struct {
	Type     TypeRef
	Required bool
}

// ResponseBinding binds one status code to its response body type.
type ResponseBinding struct {
	// Status is the response key as declared: "200", "404", or "default".
	Status string
	Type   TypeRef
	// Empty marks responses with no JSON body (204 and friends).
	Empty       bool
	Description string
}

// Endpoint is one API operation. Endpoints are rebuilt wholesale on every
// schema load, never partially mutated.
type Endpoint struct {
	// OperationID is the declared operationId, or a deterministic synthesis
	// from method and path when absent.
	OperationID string
	Method      string
	// Path is the path template with parameter slots, e.g. "/users/{id}".
	Path        string
	Summary     string
	Description string
	Deprecated  bool
	Tags        []string

	PathParams  []Param
	QueryParams []Param
	Request     *Body
	// Responses is sorted by status code.
	Responses []ResponseBinding

	// Visible is false when the operation carries an excluded tag; hidden
	// endpoints never appear in any artifact.
	Visible bool
}

// SuccessResponse returns the lowest 2xx response binding, or nil.
func (e *Endpoint) SuccessResponse() *ResponseBinding {
	for i := range e.Responses {
		if strings.HasPrefix(e.Responses[i].Status, "2") {
			return &e.Responses[i]
		}
	}
	return nil
}

// HasTag reports whether the endpoint carries the given tag.
func (e *Endpoint) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// VisibleEndpoints filters the endpoint list down to the ones that should
// appear in emitted artifacts.
func (m *Model) VisibleEndpoints() []Endpoint {
	out := make([]Endpoint, 0, len(m.Endpoints))
	for _, e := range m.Endpoints {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// sortResponses orders response bindings by status code, with "default"
// last.
func sortResponses(responses []ResponseBinding) {
	sort.Slice(responses, func(i, j int) bool {
		a, b := responses[i].Status, responses[j].Status
		if a == "default" {
			return false
		}
		if b == "default" {
			return true
		}
		return a < b
	})
}

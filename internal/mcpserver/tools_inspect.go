package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsbridge/tsbridge/model"
	"github.com/tsbridge/tsbridge/resolver"
)

type inspectInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OpenAPI document to inspect"`
	ExcludeTags []string  `json:"exclude_tags,omitempty" jsonschema:"Endpoint tags marked hidden in the output (default: internal)"`
}

type typeSummary struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Recursive bool   `json:"recursive,omitempty"`
	Fields    int    `json:"fields,omitempty"`
	Variants  int    `json:"variants,omitempty"`
	Values    int    `json:"values,omitempty"`
}

type endpointSummary struct {
	OperationID string   `json:"operation_id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Visible     bool     `json:"visible"`
}

type inspectOutput struct {
	Title         string            `json:"title"`
	Version       string            `json:"version"`
	Description   string            `json:"description,omitempty"`
	BaseURL       string            `json:"base_url,omitempty"`
	TypeCount     int               `json:"type_count"`
	Types         []typeSummary     `json:"types"`
	EndpointCount int               `json:"endpoint_count"`
	Endpoints     []endpointSummary `json:"endpoints"`
}

func handleInspect(ctx context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	src, err := input.Spec.source()
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	res := &resolver.Resolver{BaseDir: input.Spec.baseDir()}
	graph, err := res.Resolve(ctx, src)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	excludeTags := cfg.ExcludeTags
	if len(input.ExcludeTags) > 0 {
		excludeTags = input.ExcludeTags
	}
	builder := &model.Builder{ExcludeTags: excludeTags}
	m, err := builder.Build(graph)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	output := inspectOutput{
		Title:         m.Title,
		Version:       m.Version,
		Description:   m.Description,
		BaseURL:       m.BaseURL,
		EndpointCount: len(m.Endpoints),
	}

	for _, tn := range m.Types() {
		if tn.Name == "" {
			continue
		}
		output.Types = append(output.Types, typeSummary{
			Name:      tn.Name,
			Kind:      tn.Kind.String(),
			Recursive: tn.Recursive,
			Fields:    len(tn.Fields),
			Variants:  len(tn.Variants),
			Values:    len(tn.Values),
		})
	}
	output.TypeCount = len(output.Types)

	output.Endpoints = makeSlice[endpointSummary](len(m.Endpoints))
	for _, ep := range m.Endpoints {
		output.Endpoints = append(output.Endpoints, endpointSummary{
			OperationID: ep.OperationID,
			Method:      ep.Method,
			Path:        ep.Path,
			Tags:        ep.Tags,
			Deprecated:  ep.Deprecated,
			Visible:     ep.Visible,
		})
	}

	return nil, output, nil
}

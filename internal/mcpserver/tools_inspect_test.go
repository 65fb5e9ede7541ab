package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.0.3"
info:
  title: Pet Store
  description: A sample pet store API
  version: "1.0.0"
servers:
  - url: https://api.example.com
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
  /admin/flush:
    post:
      operationId: flushCaches
      tags: [internal]
      responses:
        "204":
          description: Done
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        name:
          type: string
`

func TestInspectTool(t *testing.T) {
	input := inspectInput{
		Spec: specInput{Content: testSpecYAML},
	}
	_, output, err := handleInspect(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "Pet Store", output.Title)
	assert.Equal(t, "1.0.0", output.Version)
	assert.Equal(t, "A sample pet store API", output.Description)
	assert.Equal(t, "https://api.example.com", output.BaseURL)

	require.Equal(t, 1, output.TypeCount)
	assert.Equal(t, "Pet", output.Types[0].Name)
	assert.Equal(t, "record", output.Types[0].Kind)
	assert.Equal(t, 2, output.Types[0].Fields)

	require.Equal(t, 2, output.EndpointCount)
	byOp := map[string]endpointSummary{}
	for _, ep := range output.Endpoints {
		byOp[ep.OperationID] = ep
	}
	assert.True(t, byOp["listPets"].Visible)
	assert.False(t, byOp["flushCaches"].Visible, "internal tag is hidden by default")
}

func TestInspectToolCustomExcludeTags(t *testing.T) {
	input := inspectInput{
		Spec:        specInput{Content: testSpecYAML},
		ExcludeTags: []string{"pets"},
	}
	_, output, err := handleInspect(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	byOp := map[string]endpointSummary{}
	for _, ep := range output.Endpoints {
		byOp[ep.OperationID] = ep
	}
	assert.False(t, byOp["listPets"].Visible)
	assert.True(t, byOp["flushCaches"].Visible)
}

func TestInspectToolBadSpec(t *testing.T) {
	input := inspectInput{
		Spec: specInput{Content: `{"openapi": "2.0"}`},
	}
	result, _, err := handleInspect(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsSchema = `{
  "openapi": "3.0.3",
  "info": {"title": "Pets API", "version": "1.0.0"},
  "servers": [{"url": "https://api.example.com"}],
  "paths": {
    "/pets": {
      "get": {
        "operationId": "listPets",
        "responses": {
          "200": {
            "description": "pets",
            "content": {
              "application/json": {
                "schema": {"type": "array", "items": {"$ref": "#/components/schemas/Pet"}}
              }
            }
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "integer"},
          "name": {"type": "string"}
        }
      }
    }
  }
}`

func writePetsSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(petsSchema), 0o600))
	return path
}

func TestHandleGenerateWritesArtifacts(t *testing.T) {
	dir := chdirTemp(t)
	schemaPath := writePetsSchema(t, dir)
	outDir := filepath.Join(dir, "api")

	err := HandleGenerate([]string{"-o", outDir, schemaPath})
	require.NoError(t, err)

	for _, name := range []string{"types.ts", "validators.ts", "client.ts", "hooks.ts", "API_INTEGRATION.md", "QUICKSTART.md"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	types, err := os.ReadFile(filepath.Join(outDir, "types.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "export interface Pet {")
}

func TestHandleGenerateHookModeNone(t *testing.T) {
	dir := chdirTemp(t)
	schemaPath := writePetsSchema(t, dir)
	outDir := filepath.Join(dir, "api")

	err := HandleGenerate([]string{"-o", outDir, "--hooks", "none", schemaPath})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "client.ts"))
	assert.NoFileExists(t, filepath.Join(outDir, "hooks.ts"))
}

func TestHandleGenerateUsesConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	schemaPath := writePetsSchema(t, dir)
	outDir := filepath.Join(dir, "api")

	cfgPath := filepath.Join(dir, "tsbridge.yaml")
	cfgBody := "sourceFile: " + schemaPath + "\noutputDir: " + outDir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o600))

	err := HandleGenerate([]string{"-c", cfgPath})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "types.ts"))
}

func TestHandleGenerateMissingSchemaFails(t *testing.T) {
	dir := chdirTemp(t)

	err := HandleGenerate([]string{"-o", filepath.Join(dir, "api"), "missing.json"})
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "api"))
}

func TestHandleGenerateRejectsExtraArgs(t *testing.T) {
	chdirTemp(t)

	err := HandleGenerate([]string{"-o", "./api", "a.json", "b.json"})
	assert.ErrorContains(t, err, "at most one")
}

func TestHandleGenerateHelp(t *testing.T) {
	assert.NoError(t, HandleGenerate([]string{"--help"}))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

func buildFromJSON(t *testing.T, doc string, opts ...func(*Builder)) *Model {
	t.Helper()
	graph, err := resolver.ResolveWithOptions(resolver.WithBytes([]byte(doc)))
	require.NoError(t, err)
	b := NewBuilder()
	for _, opt := range opts {
		opt(b)
	}
	m, err := b.Build(graph)
	require.NoError(t, err)
	return m
}

func typeByName(t *testing.T, m *Model, name string) *TypeNode {
	t.Helper()
	for _, tn := range m.Types() {
		if tn.Name == name {
			return tn
		}
	}
	t.Fatalf("type %s not found in model", name)
	return nil
}

func fieldByName(t *testing.T, tn *TypeNode, name string) Field {
	t.Helper()
	for _, f := range tn.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not found on %s", name, tn.Name)
	return Field{}
}

const userScenarioJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "User API", "version": "1.0.0"},
  "servers": [{"url": "https://api.example.com"}],
  "paths": {
    "/users/{id}": {
      "get": {
        "operationId": "getUser",
        "tags": ["users"],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}
        ],
        "responses": {
          "200": {
            "description": "ok",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/User"}}}
          }
        }
      }
    }
  },
  "components": {"schemas": {
    "User": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": {"type": "integer"},
        "name": {"type": "string", "minLength": 1, "maxLength": 50},
        "email": {"type": "string", "format": "email"}
      }
    }
  }}
}`

func TestBuildUserScenario(t *testing.T) {
	m := buildFromJSON(t, userScenarioJSON)

	assert.Equal(t, "User API", m.Title)
	assert.Equal(t, "https://api.example.com", m.BaseURL)

	user := typeByName(t, m, "User")
	assert.Equal(t, KindRecord, user.Kind)
	require.Len(t, user.Fields, 3)

	id := fieldByName(t, user, "id")
	assert.True(t, id.Required)
	assert.Equal(t, PrimitiveInteger, m.Node(id.Type).Primitive)

	name := fieldByName(t, user, "name")
	assert.True(t, name.Required)
	require.NotNil(t, name.Constraint.MinLength)
	require.NotNil(t, name.Constraint.MaxLength)
	assert.Equal(t, 1, *name.Constraint.MinLength)
	assert.Equal(t, 50, *name.Constraint.MaxLength)

	email := fieldByName(t, user, "email")
	assert.False(t, email.Required, "email is optional")
	assert.Equal(t, "email", email.Constraint.Format)

	require.Len(t, m.Endpoints, 1)
	ep := m.Endpoints[0]
	assert.Equal(t, "getUser", ep.OperationID)
	assert.Equal(t, "GET", ep.Method)
	assert.Equal(t, "/users/{id}", ep.Path)
	assert.True(t, ep.Visible)
	require.Len(t, ep.PathParams, 1)
	assert.Equal(t, "id", ep.PathParams[0].Name)
	assert.True(t, ep.PathParams[0].Required)
	assert.Equal(t, PrimitiveInteger, m.Node(ep.PathParams[0].Type).Primitive)

	success := ep.SuccessResponse()
	require.NotNil(t, success)
	assert.Equal(t, user.ID, success.Type.ID, "response binds to the User component")
}

func TestBuildNoDanglingRefs(t *testing.T) {
	m := buildFromJSON(t, userScenarioJSON)
	for _, tn := range m.Types() {
		switch tn.Kind {
		case KindRecord:
			for _, f := range tn.Fields {
				assert.NotNil(t, m.Node(f.Type), "field %s.%s dangles", tn.Name, f.Name)
			}
		case KindArray:
			assert.NotNil(t, m.Node(tn.Elem))
		case KindUnion:
			for _, v := range tn.Variants {
				assert.NotNil(t, m.Node(v))
			}
		case KindAlias:
			assert.NotNil(t, m.Node(tn.Target))
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first := buildFromJSON(t, userScenarioJSON)
	second := buildFromJSON(t, userScenarioJSON)

	require.Equal(t, len(first.Types()), len(second.Types()))
	for i, tn := range first.Types() {
		assert.Equal(t, tn.Name, second.Types()[i].Name)
		assert.Equal(t, tn.Kind, second.Types()[i].Kind)
	}
	assert.Equal(t, first.Endpoints, second.Endpoints)
}

func TestBuildDiscriminatedUnion(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {
    "Cat": {"type": "object", "required": ["kind"], "properties": {"kind": {"type": "string", "enum": ["cat"]}, "lives": {"type": "integer"}}},
    "Dog": {"type": "object", "required": ["kind"], "properties": {"kind": {"type": "string", "enum": ["dog"]}, "breed": {"type": "string"}}},
    "Animal": {
      "oneOf": [{"$ref": "#/components/schemas/Cat"}, {"$ref": "#/components/schemas/Dog"}],
      "discriminator": {"propertyName": "kind"}
    }
  }}
}`
	m := buildFromJSON(t, doc)

	animal := typeByName(t, m, "Animal")
	assert.Equal(t, KindUnion, animal.Kind)
	assert.Equal(t, "kind", animal.Discriminator)
	require.Len(t, animal.Variants, 2)
	assert.Equal(t, "Cat", m.Node(animal.Variants[0]).Name)
	assert.Equal(t, "Dog", m.Node(animal.Variants[1]).Name)

	// Each variant's tag field carries its literal as an enum constraint.
	cat := typeByName(t, m, "Cat")
	kind := fieldByName(t, cat, "kind")
	require.NotNil(t, kind.Constraint.Enum)
	assert.Equal(t, []any{"cat"}, kind.Constraint.Enum.Values)
}

func TestBuildRecursiveTypes(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {
    "Category": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "parent": {"$ref": "#/components/schemas/Category"},
        "children": {"type": "array", "items": {"$ref": "#/components/schemas/Category"}}
      }
    }
  }}
}`
	m := buildFromJSON(t, doc)

	category := typeByName(t, m, "Category")
	assert.True(t, category.Recursive)
	assert.Equal(t, KindRecord, category.Kind)

	parent := fieldByName(t, category, "parent")
	assert.Equal(t, category.ID, parent.Type.ID, "self reference points back at the node")

	children := fieldByName(t, category, "children")
	elem := m.Node(children.Type)
	require.Equal(t, KindArray, elem.Kind)
	assert.Equal(t, category.ID, elem.Elem.ID)
}

func TestBuildNullableOptionalIndependence(t *testing.T) {
	doc := `{
  "openapi": "3.1.0",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {
    "Profile": {
      "type": "object",
      "required": ["nickname"],
      "properties": {
        "nickname": {"type": ["string", "null"]},
        "bio": {"type": "string"}
      }
    }
  }}
}`
	m := buildFromJSON(t, doc)
	profile := typeByName(t, m, "Profile")

	nickname := fieldByName(t, profile, "nickname")
	assert.True(t, nickname.Required, "required and nullable are independent")
	assert.True(t, nickname.Type.Nullable)

	bio := fieldByName(t, profile, "bio")
	assert.False(t, bio.Required)
	assert.False(t, bio.Type.Nullable)
}

func TestBuildEmptySchemaIsUnknown(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {
    "Event": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "payload": {}
      }
    }
  }}
}`
	m := buildFromJSON(t, doc)
	event := typeByName(t, m, "Event")

	payload := fieldByName(t, event, "payload")
	node := m.Node(payload.Type)
	assert.Equal(t, KindPrimitive, node.Kind)
	assert.Equal(t, PrimitiveUnknown, node.Primitive)
}

func TestBuildTagExclusion(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/public": {"get": {"operationId": "listPublic", "tags": ["users"], "responses": {"204": {"description": "ok"}}}},
    "/admin": {"get": {"operationId": "listAdmin", "tags": ["internal"], "responses": {"204": {"description": "ok"}}}}
  }
}`
	m := buildFromJSON(t, doc, func(b *Builder) { b.ExcludeTags = []string{"internal"} })

	require.Len(t, m.Endpoints, 2)
	visible := m.VisibleEndpoints()
	require.Len(t, visible, 1)
	assert.Equal(t, "listPublic", visible[0].OperationID)
}

func TestBuildNameCollisionDisambiguation(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {
    "Account": {"title": "Item", "type": "object", "properties": {"id": {"type": "string"}}},
    "Basket": {"title": "Item", "type": "object", "properties": {"qty": {"type": "integer"}}}
  }}
}`
	m := buildFromJSON(t, doc)

	names := make(map[string]bool)
	for _, tn := range m.Types() {
		if tn.Name == "" {
			continue
		}
		assert.False(t, names[tn.Name], "duplicate declaration name %s", tn.Name)
		names[tn.Name] = true
	}
	assert.True(t, names["Item"], "first claimant keeps the title")
}

func TestBuildUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		construct string
	}{
		{
			name:      "not",
			schema:    `{"not": {"type": "string"}}`,
			construct: "not",
		},
		{
			name:      "conditional",
			schema:    `{"if": {"type": "string"}, "then": {"minLength": 1}}`,
			construct: "if/then/else",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {"Odd": ` + tc.schema + `}}
}`
			graph, err := resolver.ResolveWithOptions(resolver.WithBytes([]byte(doc)))
			require.NoError(t, err)

			_, err = NewBuilder().Build(graph)
			require.Error(t, err)
			assert.ErrorIs(t, err, tserrors.ErrUnsupportedConstruct)

			var uce *tserrors.UnsupportedConstructError
			require.ErrorAs(t, err, &uce)
			assert.Equal(t, tc.construct, uce.Construct)
			assert.Contains(t, uce.Path, "#/components/schemas/Odd")
		})
	}
}

func TestBuildSynthesizedNames(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/orders": {
      "post": {
        "operationId": "createOrder",
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {
            "type": "object",
            "required": ["items"],
            "properties": {
              "items": {"type": "array", "items": {"type": "object", "properties": {"sku": {"type": "string"}}}}
            }
          }}}
        },
        "responses": {"201": {"description": "created", "content": {"application/json": {"schema": {
          "type": "object", "properties": {"orderId": {"type": "string"}}
        }}}}}
      }
    }
  }
}`
	m := buildFromJSON(t, doc)

	request := typeByName(t, m, "CreateOrderRequest")
	assert.Equal(t, KindRecord, request.Kind)
	typeByName(t, m, "CreateOrderResponse")

	// The inline array element is named from the singularized field hint.
	items := fieldByName(t, request, "items")
	elem := m.Node(m.Node(items.Type).Elem)
	assert.Equal(t, "CreateOrderRequestItem", elem.Name)
}

func TestBuildSynthesizedOperationID(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/users/{id}/posts": {
      "get": {"responses": {"204": {"description": "ok"}}}
    }
  }
}`
	m := buildFromJSON(t, doc)
	require.Len(t, m.Endpoints, 1)
	assert.Equal(t, "getUsersByIdPosts", m.Endpoints[0].OperationID)
}

func TestBuildQueryParameters(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/users": {
      "get": {
        "operationId": "listUsers",
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}},
          {"name": "active", "in": "query", "schema": {"type": "boolean"}}
        ],
        "responses": {"204": {"description": "ok"}}
      }
    }
  }
}`
	m := buildFromJSON(t, doc)
	require.Len(t, m.Endpoints, 1)
	ep := m.Endpoints[0]
	assert.Empty(t, ep.PathParams)
	require.Len(t, ep.QueryParams, 2)
	assert.Equal(t, "limit", ep.QueryParams[0].Name)
	assert.False(t, ep.QueryParams[0].Required)
	assert.Equal(t, PrimitiveBoolean, m.Node(ep.QueryParams[1].Type).Primitive)
}

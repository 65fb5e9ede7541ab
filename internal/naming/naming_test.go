package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single letter", input: "a", want: "A"},
		{name: "snake_case simple", input: "user_profile", want: "UserProfile"},
		{name: "snake_case three words", input: "get_user_by_id", want: "GetUserById"},
		{name: "kebab-case", input: "api-client", want: "ApiClient"},
		{name: "path-like", input: "/api/v1/users", want: "ApiV1Users"},
		{name: "path with parameter braces", input: "/users/{id}", want: "UsersId"},
		{name: "already PascalCase", input: "UserProfile", want: "UserProfile"},
		{name: "camelCase input", input: "userProfile", want: "UserProfile"},
		{name: "interior caps preserved", input: "APIKey", want: "APIKey"},
		{name: "with numbers", input: "api_v2_client", want: "ApiV2Client"},
		{name: "spaces", input: "user profile", want: "UserProfile"},
		{name: "unicode", input: "über_user", want: "ÜberUser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "snake_case", input: "list_users", want: "listUsers"},
		{name: "PascalCase", input: "GetUserById", want: "getUserById"},
		{name: "reserved word escaped", input: "delete", want: "delete_"},
		{name: "reserved word in context", input: "new", want: "new_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCamelCase(tt.input))
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "User", TypeName("user"))
	assert.Equal(t, "Type", TypeName(""))
	assert.Equal(t, "T2fa", TypeName("2fa"))
	assert.Equal(t, "UserProfile", TypeName("user_profile"))
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "getUser", FunctionName("get_user"))
	assert.Equal(t, "operation", FunctionName(""))
	assert.Equal(t, "op42", FunctionName("42"))
}

func TestHookName(t *testing.T) {
	assert.Equal(t, "useGetUser", HookName("get_user"))
	assert.Equal(t, "useListUsersApiUsersGet", HookName("list_users_api_users_get"))
	assert.Equal(t, "useOperation", HookName(""))
}

func TestPropertyKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "name", want: "name"},
		{input: "_private", want: "_private"},
		{input: "$ref", want: "$ref"},
		{input: "created_at", want: "created_at"},
		{input: "first-name", want: "'first-name'"},
		{input: "2fa", want: "'2fa'"},
		{input: "weird'key", want: "'weird\\'key'"},
		{input: "", want: "''"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PropertyKey(tt.input))
		})
	}
}

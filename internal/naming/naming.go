// Package naming provides deterministic identifier conversion for emitted
// TypeScript code. All conversions are pure string functions so repeated
// runs over the same schema produce byte-identical names.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser handles Unicode-correct capitalization of name segments.
// cases.NoLower preserves existing interior capitalization ("APIKey" stays
// "APIKey" rather than becoming "Apikey").
var titleCaser = cases.Title(language.English, cases.NoLower)

// tsReservedWords contains TypeScript/ECMAScript reserved words that cannot
// be used as identifiers in emitted code. Names colliding with these are
// escaped with a trailing underscore.
var tsReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
	// strict-mode reserved
	"implements": true, "interface": true, "let": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true,
}

// EscapeReserved appends an underscore when name is a TypeScript reserved
// word. The check is case-sensitive because reserved words are lowercase
// and PascalCase type names never collide.
func EscapeReserved(name string) string {
	if tsReservedWords[name] {
		return name + "_"
	}
	return name
}

// ToPascalCase converts a string to PascalCase. Separators (underscore,
// hyphen, dot, slash, space) and any other non-alphanumeric runes trigger
// capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "/users/{id}" -> "UsersId"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s))
	capitalizeNext := true

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteString(titleCaser.String(string(r)))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "user_profile" -> "userProfile"
// Example: "GetUserById" -> "getUserById"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return EscapeReserved(string(runes))
}

// TypeName converts a schema name to a valid TypeScript type name
// (PascalCase, starting with a letter).
func TypeName(s string) string {
	name := ToPascalCase(s)
	if name == "" {
		return "Type"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// FunctionName converts an operation id to a valid TypeScript function name
// (camelCase, starting with a letter).
func FunctionName(s string) string {
	name := ToCamelCase(s)
	if name == "" {
		return "operation"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "op" + name
	}
	return name
}

// HookName converts an operation id to a React hook name: "useGetUser".
func HookName(operationID string) string {
	pascal := ToPascalCase(operationID)
	if pascal == "" {
		return "useOperation"
	}
	return "use" + pascal
}

// IsValidPropertyKey reports whether a property name can appear unquoted
// in a TypeScript object type.
func IsValidPropertyKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || r == '$' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// PropertyKey returns the property name in a form legal inside a TypeScript
// object type: unchanged when it is a valid identifier, single-quoted
// otherwise. Property names are never case-converted so emitted types match
// the wire format exactly.
func PropertyKey(s string) string {
	if IsValidPropertyKey(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

package emit

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tsbridge/tsbridge/model"
)

// tsType renders the TypeScript type expression for a reference. Named
// nodes render as their declaration name; anonymous arrays and primitives
// render structurally.
func tsType(m *model.Model, ref model.TypeRef) string {
	expr := tsTypeBase(m, ref)
	if ref.Nullable {
		expr += " | null"
	}
	return expr
}

func tsTypeBase(m *model.Model, ref model.TypeRef) string {
	tn := m.Node(ref)
	if tn == nil {
		return "unknown"
	}
	if tn.Name != "" {
		return tn.Name
	}

	switch tn.Kind {
	case model.KindArray:
		elem := tsType(m, tn.Elem)
		if strings.ContainsAny(elem, " |") {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case model.KindPrimitive:
		return tsPrimitive(tn.Primitive)
	default:
		return "unknown"
	}
}

// tsPrimitive maps a primitive kind to its TypeScript keyword. Integers and
// numbers both map to number; the distinction survives in validators.
func tsPrimitive(kind model.PrimitiveKind) string {
	switch kind {
	case model.PrimitiveString:
		return "string"
	case model.PrimitiveNumber, model.PrimitiveInteger:
		return "number"
	case model.PrimitiveBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// tsLiteral renders an enum or const value as a TypeScript literal. JSON
// literal syntax is valid TypeScript for scalars.
func tsLiteral(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "unknown"
	}
	return string(data)
}

// tsUnionExpr renders the right-hand side of a union declaration.
func tsUnionExpr(m *model.Model, variants []model.TypeRef) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = tsType(m, v)
	}
	return strings.Join(parts, " | ")
}

// tsEnumExpr renders the right-hand side of an enum declaration as a
// literal union.
func tsEnumExpr(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = tsLiteral(v)
	}
	return strings.Join(parts, " | ")
}

// declExpr renders the right-hand side for non-interface declarations.
func declExpr(m *model.Model, tn *model.TypeNode) string {
	switch tn.Kind {
	case model.KindUnion:
		return tsUnionExpr(m, tn.Variants)
	case model.KindEnum:
		return tsEnumExpr(tn.Values)
	case model.KindArray:
		elem := tsType(m, tn.Elem)
		if strings.ContainsAny(elem, " |") {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case model.KindAlias:
		return tsType(m, tn.Target)
	case model.KindPrimitive:
		return tsPrimitive(tn.Primitive)
	default:
		return "unknown"
	}
}

// pathTemplate converts a path template into a TypeScript template literal
// with encoded parameter interpolations:
// "/users/{id}" -> "`/users/${encodeURIComponent(String(params.id))}`".
func pathTemplate(path string, paramExpr func(name string) string) string {
	var sb strings.Builder
	sb.WriteByte('`')
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			sb.WriteString(rest)
			break
		}
		name := rest[open+1 : open+closing]
		sb.WriteString(rest[:open])
		fmt.Fprintf(&sb, "${encodeURIComponent(String(%s))}", paramExpr(name))
		rest = rest[open+closing+1:]
	}
	sb.WriteByte('`')
	return sb.String()
}

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/tsbridge/tsbridge/internal/naming"
	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

// Builder converts a ResolvedGraph into a Model: a closed arena of TypeNodes
// plus the endpoint list. A single irreparable schema node aborts the whole
// build; a partially typed model is never produced.
type Builder struct {
	// ExcludeTags hides operations carrying any of these tags.
	ExcludeTags []string
	// Logger is the structured logger for debug output; nil disables it.
	Logger resolver.Logger
}

// NewBuilder creates a Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) log() resolver.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return resolver.NopLogger{}
}

// Build walks the graph and produces the type model and endpoint list.
func (b *Builder) Build(graph *resolver.ResolvedGraph) (*Model, error) {
	bd := &build{
		builder:    b,
		graph:      graph,
		model:      &Model{},
		byPath:     make(map[string]TypeID),
		names:      make(map[string]string),
		primitives: make(map[string]TypeID),
	}

	doc := graph.Document
	if doc.Info != nil {
		bd.model.Title = doc.Info.Title
		bd.model.Version = doc.Info.Version
		bd.model.Description = doc.Info.Description
	}
	if len(doc.Servers) > 0 {
		bd.model.BaseURL = doc.Servers[0].URL
	}

	if err := bd.declareComponents(); err != nil {
		return nil, err
	}
	if err := bd.fillComponents(); err != nil {
		return nil, err
	}
	if err := bd.buildEndpoints(); err != nil {
		return nil, err
	}

	b.log().Debug("model built",
		"types", len(bd.model.types), "endpoints", len(bd.model.Endpoints))
	return bd.model, nil
}

// build holds the transient state of one build pass.
type build struct {
	builder *Builder
	graph   *resolver.ResolvedGraph
	model   *Model
	// byPath maps canonical graph paths to their declared node.
	byPath map[string]TypeID
	// names maps claimed declaration names to the origin path that owns
	// them, for deterministic collision disambiguation.
	names map[string]string
	// primitives dedupes the anonymous scalar nodes by kind|format.
	primitives map[string]TypeID
}

// declareComponents allocates a named node for every component schema before
// any body is built, so references (including cycles) always have a target.
func (bd *build) declareComponents() error {
	for _, path := range bd.graph.Paths() {
		if !isComponentPath(path) {
			continue
		}
		node, _ := bd.graph.Node(path)
		preferred := node.Name
		if node.Schema.Title != "" {
			preferred = node.Schema.Title
		}
		tn := bd.model.add(&TypeNode{
			Name:        bd.claimName(preferred, path),
			Origin:      path,
			Description: node.Schema.Description,
			Deprecated:  node.Schema.Deprecated,
			Recursive:   node.Recursive,
		})
		bd.byPath[path] = tn.ID
	}
	return nil
}

// fillComponents builds the body of every declared component node.
func (bd *build) fillComponents() error {
	for _, path := range bd.graph.Paths() {
		id, ok := bd.byPath[path]
		if !ok {
			continue
		}
		node, _ := bd.graph.Node(path)
		if err := bd.fill(bd.model.NodeByID(id), node.Schema, path); err != nil {
			return err
		}
	}
	return nil
}

// isComponentPath reports whether a canonical path names a reusable
// component rather than an inline operation schema.
func isComponentPath(path string) bool {
	return strings.Contains(path, "#/components/schemas/")
}

// claimName reserves a unique declaration name. On collision the
// originating path segment is appended, and as a last resort a numeric
// suffix; both are deterministic for a given document.
func (bd *build) claimName(preferred, origin string) string {
	name := naming.TypeName(preferred)
	if owner, taken := bd.names[name]; !taken || owner == origin {
		bd.names[name] = origin
		return name
	}

	segments := originSegments(origin)
	candidate := name
	for i := len(segments) - 1; i >= 0; i-- {
		candidate = naming.TypeName(segments[i] + candidate)
		if _, taken := bd.names[candidate]; !taken {
			bd.names[candidate] = origin
			return candidate
		}
	}
	for i := 2; ; i++ {
		numbered := fmt.Sprintf("%s%d", candidate, i)
		if _, taken := bd.names[numbered]; !taken {
			bd.names[numbered] = origin
			return numbered
		}
	}
}

// originSegments splits a canonical path into name-worthy segments,
// dropping separators and parameter braces.
func originSegments(origin string) []string {
	raw := strings.FieldsFunc(origin, func(r rune) bool {
		return r == '/' || r == '.' || r == '#' || r == '{' || r == '}'
	})
	out := raw[:0]
	for _, seg := range raw {
		if seg != "" && seg != "components" && seg != "schemas" && seg != "paths" {
			out = append(out, seg)
		}
	}
	return out
}

// fill populates a declared node's body from its schema.
func (bd *build) fill(tn *TypeNode, s *resolver.Schema, where string) error {
	if s.Not != nil {
		return &tserrors.UnsupportedConstructError{Path: where, Construct: "not"}
	}
	if s.If != nil || s.Then != nil || s.Else != nil {
		return &tserrors.UnsupportedConstructError{Path: where, Construct: "if/then/else"}
	}
	if len(s.AllOf) > 0 {
		// Resolution merges allOf; reaching one here means it could not be
		// flattened.
		return &tserrors.UnsupportedConstructError{Path: where, Construct: "allOf"}
	}

	switch {
	case s.Ref != "":
		target, err := bd.refTo(s, where)
		if err != nil {
			return err
		}
		tn.Kind = KindAlias
		tn.Target = target

	case len(s.Enum) > 0:
		tn.Kind = KindEnum
		tn.Values = s.Enum

	case len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		variants := s.OneOf
		if len(variants) == 0 {
			variants = s.AnyOf
		}
		tn.Kind = KindUnion
		if s.Discriminator != nil {
			tn.Discriminator = s.Discriminator.PropertyName
		}
		for i, v := range variants {
			ref, err := bd.buildRef(v, fmt.Sprintf("%sOption%d", tn.Name, i+1),
				fmt.Sprintf("%s.%d", where, i))
			if err != nil {
				return err
			}
			tn.Variants = append(tn.Variants, ref)
		}

	case s.TypeName() == "array" || s.Items != nil:
		tn.Kind = KindArray
		elem, err := bd.buildRef(s.Items, inflect.Singularize(tn.Name), where+".items")
		if err != nil {
			return err
		}
		tn.Elem = elem

	case s.TypeName() == "object" || len(s.Properties) > 0 || s.AdditionalProperties != nil:
		return bd.fillRecord(tn, s, where)

	default:
		tn.Kind = KindPrimitive
		tn.Primitive = primitiveKind(s)
		tn.Format = s.Format
	}
	return nil
}

// fillRecord builds a Record node's fields in sorted property order.
func (bd *build) fillRecord(tn *TypeNode, s *resolver.Schema, where string) error {
	tn.Kind = KindRecord

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := s.Properties[name]
		fieldWhere := where + ".properties." + name
		ref, err := bd.buildRef(prop, tn.Name+naming.ToPascalCase(name), fieldWhere)
		if err != nil {
			return err
		}

		constraint := extractConstraint(prop)
		if enum := bd.enumTarget(ref); enum != nil {
			constraint.Enum = enum
		}

		tn.Fields = append(tn.Fields, Field{
			Name:        name,
			Type:        ref,
			Required:    containsString(s.Required, name),
			Description: prop.Description,
			Deprecated:  prop.Deprecated,
			ReadOnly:    prop.ReadOnly,
			Constraint:  constraint,
		})
	}

	if ap := s.AdditionalPropertiesSchema(); ap != nil {
		ref, err := bd.buildRef(ap, tn.Name+"Value", where+".additionalProperties")
		if err != nil {
			return err
		}
		tn.AdditionalProps = &ref
	}
	return nil
}

// buildRef returns a TypeRef for a schema occurrence, declaring a new named
// node when the shape needs one (records, unions, enums, arrays) and reusing
// shared anonymous nodes for scalars.
func (bd *build) buildRef(s *resolver.Schema, hint, where string) (TypeRef, error) {
	if s == nil {
		return bd.primitiveRef(PrimitiveUnknown, "", false), nil
	}
	if s.IsEmpty() {
		// A schema declaring nothing accepts any value.
		return bd.primitiveRef(PrimitiveUnknown, "", s.IsNullable()), nil
	}
	if s.Ref != "" {
		return bd.refTo(s, where)
	}
	if s.Not != nil {
		return TypeRef{}, &tserrors.UnsupportedConstructError{Path: where, Construct: "not"}
	}
	if s.If != nil || s.Then != nil || s.Else != nil {
		return TypeRef{}, &tserrors.UnsupportedConstructError{Path: where, Construct: "if/then/else"}
	}

	nullable := s.IsNullable()

	switch {
	case len(s.Enum) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 ||
		s.TypeName() == "object" || len(s.Properties) > 0 || s.AdditionalProperties != nil:
		// Shapes that need a declaration of their own.
		preferred := hint
		if s.Title != "" {
			preferred = s.Title
		}
		tn := bd.model.add(&TypeNode{
			Name:        bd.claimName(preferred, where),
			Origin:      where,
			Description: s.Description,
			Deprecated:  s.Deprecated,
		})
		if err := bd.fill(tn, s, where); err != nil {
			return TypeRef{}, err
		}
		return TypeRef{ID: tn.ID, Nullable: nullable}, nil

	case s.TypeName() == "array" || s.Items != nil:
		elem, err := bd.buildRef(s.Items, inflect.Singularize(hint), where+".items")
		if err != nil {
			return TypeRef{}, err
		}
		tn := bd.model.add(&TypeNode{
			Kind:   KindArray,
			Origin: where,
			Elem:   elem,
		})
		return TypeRef{ID: tn.ID, Nullable: nullable}, nil

	default:
		return bd.primitiveRef(primitiveKind(s), s.Format, nullable), nil
	}
}

// refTo converts a canonical reference to a TypeRef. The resolver guarantees
// every ref in the graph has a registered target, so a miss here is a bug.
func (bd *build) refTo(s *resolver.Schema, where string) (TypeRef, error) {
	id, ok := bd.byPath[s.Ref]
	if !ok {
		return TypeRef{}, &tserrors.SchemaError{
			Path: where, Ref: s.Ref,
			Message: "reference target missing from resolved graph",
		}
	}
	return TypeRef{ID: id, Nullable: s.IsNullable()}, nil
}

// primitiveRef returns a ref to the shared anonymous node for a scalar kind.
func (bd *build) primitiveRef(kind PrimitiveKind, format string, nullable bool) TypeRef {
	key := string(kind) + "|" + format
	id, ok := bd.primitives[key]
	if !ok {
		tn := bd.model.add(&TypeNode{
			Kind:      KindPrimitive,
			Primitive: kind,
			Format:    format,
		})
		id = tn.ID
		bd.primitives[key] = id
	}
	return TypeRef{ID: id, Nullable: nullable}
}

// enumTarget returns the Enum node a ref points at, following alias chains,
// or nil when the target is not an enum.
func (bd *build) enumTarget(ref TypeRef) *TypeNode {
	tn := bd.model.Node(ref)
	for tn != nil && tn.Kind == KindAlias {
		tn = bd.model.Node(tn.Target)
	}
	if tn != nil && tn.Kind == KindEnum {
		return tn
	}
	return nil
}

// primitiveKind maps a scalar schema type to its PrimitiveKind.
func primitiveKind(s *resolver.Schema) PrimitiveKind {
	switch s.TypeName() {
	case "string":
		return PrimitiveString
	case "number":
		return PrimitiveNumber
	case "integer":
		return PrimitiveInteger
	case "boolean":
		return PrimitiveBoolean
	default:
		return PrimitiveUnknown
	}
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

package resolver

import (
	"fmt"
	"sort"

	"github.com/tsbridge/tsbridge/tserrors"
)

// mergeAllOf flattens an allOf composition into a single object schema in
// place. Variants are merged left to right, with the schema's own sibling
// keywords applied last. A field declared twice keeps its leftmost
// definition; declaring it with two different structural types fails the
// build instead of producing a silently wrong type.
func (c *resolution) mergeAllOf(s *Schema, ctx docContext, where string, depth int) error {
	variants := s.AllOf
	s.AllOf = nil

	merged := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for i, variant := range variants {
		if variant == nil {
			continue
		}
		mat, err := c.materialize(variant, ctx, fmt.Sprintf("%s.allOf.%d", where, i), depth+1)
		if err != nil {
			return err
		}
		if err := mergeObjectSchema(merged, mat, where); err != nil {
			return err
		}
	}

	// The composition's own sibling keywords merge last, so a sibling
	// property already declared by a variant keeps the variant definition.
	if err := mergeObjectSchema(merged, s, where); err != nil {
		return err
	}

	merged.Nullable = merged.Nullable || s.IsNullable()
	if s.Title != "" {
		merged.Title = s.Title
	}
	if s.Description != "" {
		merged.Description = s.Description
	}
	merged.Deprecated = merged.Deprecated || s.Deprecated

	*s = *merged
	return nil
}

// mergeObjectSchema folds src's object keywords into dst.
func mergeObjectSchema(dst, src *Schema, where string) error {
	if t := src.TypeName(); t != "" && t != "object" {
		return &tserrors.SchemaError{
			Path:    where,
			Message: fmt.Sprintf("allOf variant has type %q; only object schemas can be flattened", t),
		}
	}
	if src.Items != nil {
		return &tserrors.SchemaError{Path: where, Message: "allOf variant is an array schema; only object schemas can be flattened"}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prop := src.Properties[name]
		existing, seen := dst.Properties[name]
		if !seen {
			dst.Properties[name] = prop
			continue
		}
		if structuralConflict(existing, prop) {
			return &tserrors.SchemaError{
				Path:    where,
				Message: fmt.Sprintf("allOf declares field %q with conflicting types", name),
			}
		}
		// Leftmost definition wins for identically typed re-declarations.
	}

	for _, req := range src.Required {
		if !containsString(dst.Required, req) {
			dst.Required = append(dst.Required, req)
		}
	}
	if dst.AdditionalProperties == nil {
		dst.AdditionalProperties = src.AdditionalProperties
	}
	if dst.Discriminator == nil {
		dst.Discriminator = src.Discriminator
	}
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	dst.Nullable = dst.Nullable || src.IsNullable()
	dst.Deprecated = dst.Deprecated || src.Deprecated
	return nil
}

// structuralConflict reports whether two property schemas disagree on their
// structural shape: different declared types, or different ref targets.
func structuralConflict(a, b *Schema) bool {
	if a.Ref != "" || b.Ref != "" {
		return a.Ref != b.Ref
	}
	at, bt := a.TypeName(), b.TypeName()
	if at == "" || bt == "" {
		return false
	}
	return at != bt
}

// materialize produces the fully normalized schema behind an allOf variant.
// Reference variants are replaced by their (resolved) target; expanding a
// reference that is still mid-resolution would mean inlining a cycle, which
// has no flat representation, so it fails as a circular reference.
func (c *resolution) materialize(variant *Schema, ctx docContext, where string, depth int) (*Schema, error) {
	if depth > c.depthLimit {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(c.depthLimit),
			Actual:       int64(depth),
			Message:      "structure too deeply nested at " + where,
		}
	}

	if variant.Ref == "" {
		if err := c.normalize(variant, ctx, where, depth); err != nil {
			return nil, err
		}
		// Normalization can collapse a single-variant union into a ref.
		if variant.Ref == "" {
			return variant, nil
		}
	}

	canonical, targetCtx, err := c.canonicalizeRef(variant.Ref, ctx, where)
	if err != nil {
		return nil, err
	}
	if c.states[canonical] == stateResolving {
		return nil, &tserrors.SchemaError{
			Path:       where,
			Ref:        canonical,
			IsCircular: true,
			Message:    "cannot flatten a reference cycle through allOf",
		}
	}
	if err := c.resolveComponent(canonical); err != nil {
		return nil, err
	}
	target := c.registry[canonical].node.Schema
	if target.Ref != "" {
		// Alias chains materialize through to the terminal schema.
		return c.materialize(copySchema(target), targetCtx, where, depth+1)
	}
	// Copied so the merge never mutates the component node.
	return copySchema(target), nil
}

// copySchema deep-copies a schema tree. Normalization mutates schemas in
// place, and graph nodes must not alias the decoded source document.
func copySchema(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	out := *s

	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = copySchema(prop)
		}
	}
	out.Items = copySchema(s.Items)
	out.Not = copySchema(s.Not)
	out.If = copySchema(s.If)
	out.Then = copySchema(s.Then)
	out.Else = copySchema(s.Else)
	out.AllOf = copySchemaList(s.AllOf)
	out.AnyOf = copySchemaList(s.AnyOf)
	out.OneOf = copySchemaList(s.OneOf)

	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Enum != nil {
		out.Enum = append([]any(nil), s.Enum...)
	}
	if s.AdditionalProperties != nil {
		ap := *s.AdditionalProperties
		ap.Schema = copySchema(s.AdditionalProperties.Schema)
		out.AdditionalProperties = &ap
	}
	if s.Discriminator != nil {
		d := *s.Discriminator
		if s.Discriminator.Mapping != nil {
			d.Mapping = make(map[string]string, len(s.Discriminator.Mapping))
			for k, v := range s.Discriminator.Mapping {
				d.Mapping[k] = v
			}
		}
		out.Discriminator = &d
	}
	return &out
}

func copySchemaList(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = copySchema(s)
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

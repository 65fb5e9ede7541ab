package model

import "github.com/tsbridge/tsbridge/resolver"

// Constraint holds the validation keywords declared at one field or
// primitive occurrence. Bounds preserve inclusivity exactly as declared.
// The zero value means no constraints, which is not an error.
type Constraint struct {
	// String constraints
	MinLength *int
	MaxLength *int
	// Pattern is the raw pattern source; emitters translate syntax.
	Pattern string
	Format  string

	// Numeric constraints
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64

	// Array constraints
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	// Enum points at the Enum TypeNode whose value list constrains this
	// occurrence. Shared by reference so enum edits propagate; never a copy.
	Enum *TypeNode
}

// IsZero reports whether no constraints are declared.
func (c Constraint) IsZero() bool {
	return c.MinLength == nil && c.MaxLength == nil && c.Pattern == "" &&
		c.Format == "" && c.Minimum == nil && c.Maximum == nil &&
		!c.ExclusiveMinimum && !c.ExclusiveMaximum && c.MultipleOf == nil &&
		c.MinItems == nil && c.MaxItems == nil && !c.UniqueItems &&
		c.Enum == nil
}

// extractConstraint collects the validation keywords present on a schema
// occurrence, keeping only the ones consistent with its structural type so a
// constraint never contradicts the field it is attached to.
func extractConstraint(s *resolver.Schema) Constraint {
	var c Constraint
	if s == nil {
		return c
	}

	switch s.TypeName() {
	case "string":
		c.MinLength = s.MinLength
		c.MaxLength = s.MaxLength
		c.Pattern = s.Pattern
		c.Format = s.Format
	case "integer", "number":
		c.Minimum = s.Minimum
		c.Maximum = s.Maximum
		c.MultipleOf = s.MultipleOf
		// exclusiveMinimum/Maximum is a bool modifier in OAS 3.0 and a
		// standalone numeric bound in 3.1.
		c.ExclusiveMinimum = applyExclusive(s.ExclusiveMinimum, &c.Minimum)
		c.ExclusiveMaximum = applyExclusive(s.ExclusiveMaximum, &c.Maximum)
	case "array":
		c.MinItems = s.MinItems
		c.MaxItems = s.MaxItems
		c.UniqueItems = s.UniqueItems
	}
	return c
}

// applyExclusive folds the two OAS encodings of an exclusive bound into
// (bound, exclusive) form. A 3.1 numeric exclusive bound replaces any
// inclusive bound already set.
func applyExclusive(raw any, bound **float64) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		*bound = &v
		return true
	case int:
		f := float64(v)
		*bound = &f
		return true
	case int64:
		f := float64(v)
		*bound = &f
		return true
	case uint64:
		f := float64(v)
		*bound = &f
		return true
	default:
		return false
	}
}

package resolver

// Schema represents a JSON Schema node as it appears in an OpenAPI 3.x
// document. Only the keywords the type model can represent are decoded;
// anything else is either ignored metadata or rejected downstream as an
// unsupported construct.
type Schema struct {
	// Reference
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Type validation
	// Type is a string in OAS 3.0 and may be a []string in OAS 3.1
	// (e.g., ["string", "null"]). Use TypeName and IsNullable.
	Type   any    `yaml:"type,omitempty" json:"type,omitempty"`
	Enum   []any  `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const  any    `yaml:"const,omitempty" json:"const,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Numeric validation
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"` // bool in 3.0, number in 3.1
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"` // bool in 3.0, number in 3.1
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`

	// String validation
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Array validation
	Items       *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MaxItems    *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object validation
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *SchemaOrBool      `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	// Composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty" json:"not,omitempty"`

	// Conditional schemas; decoded only so they can be rejected explicitly
	// instead of silently dropped.
	If   *Schema `yaml:"if,omitempty" json:"if,omitempty"`
	Then *Schema `yaml:"then,omitempty" json:"then,omitempty"`
	Else *Schema `yaml:"else,omitempty" json:"else,omitempty"`

	// OAS extensions
	Nullable      bool           `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly      bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly     bool           `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"`
}

// Discriminator represents an OAS 3.x discriminator object attached to a
// oneOf/anyOf composition.
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
}

// TypeName returns the primary declared type, ignoring any "null" entry in
// an OAS 3.1 type list. Returns "" when no type is declared.
func (s *Schema) TypeName() string {
	switch t := s.Type.(type) {
	case string:
		if t == "null" {
			return ""
		}
		return t
	case []any:
		for _, v := range t {
			if name, ok := v.(string); ok && name != "null" {
				return name
			}
		}
	}
	return ""
}

// IsNullable reports whether null is an admissible value: either the OAS 3.0
// nullable flag or an OAS 3.1 type list containing "null".
func (s *Schema) IsNullable() bool {
	if s.Nullable {
		return true
	}
	if list, ok := s.Type.([]any); ok {
		for _, v := range list {
			if name, ok := v.(string); ok && name == "null" {
				return true
			}
		}
	}
	return false
}

// IsEmpty reports whether the schema declares nothing at all. Empty schemas
// accept any value and are represented as the unknown primitive.
func (s *Schema) IsEmpty() bool {
	return s.Ref == "" && s.Type == nil && len(s.Enum) == 0 && s.Const == nil &&
		len(s.Properties) == 0 && s.Items == nil &&
		len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0 &&
		s.Not == nil && s.AdditionalProperties == nil
}

// AdditionalPropertiesSchema returns the additionalProperties value as a
// schema: the declared sub-schema, an empty schema for boolean true, or nil
// when additional properties are absent or disabled.
func (s *Schema) AdditionalPropertiesSchema() *Schema {
	if s.AdditionalProperties == nil || !s.AdditionalProperties.Allowed {
		return nil
	}
	if s.AdditionalProperties.Schema != nil {
		return s.AdditionalProperties.Schema
	}
	return &Schema{}
}

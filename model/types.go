package model

// TypeID is the stable identifier of a TypeNode within one Model. IDs are
// assigned in build order, which is deterministic for a given document, so
// they are stable across runs but not across schema revisions; identity
// across revisions is by name.
type TypeID int

// TypeRef points at a TypeNode by identifier. References are indirect so
// recursive types are representable without cyclic ownership.
type TypeRef struct {
	ID TypeID
	// Nullable means null is admissible at this use site. It is a property
	// of the reference, not of the target type: the same type can be
	// nullable in one field and not in another.
	Nullable bool
}

// Kind discriminates the TypeNode variants.
type Kind int

const (
	KindRecord Kind = iota
	KindUnion
	KindEnum
	KindArray
	KindPrimitive
	KindAlias
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// PrimitiveKind is the scalar base type of a Primitive node.
type PrimitiveKind string

const (
	PrimitiveString  PrimitiveKind = "string"
	PrimitiveNumber  PrimitiveKind = "number"
	PrimitiveInteger PrimitiveKind = "integer"
	PrimitiveBoolean PrimitiveKind = "boolean"
	// PrimitiveUnknown is the open "accepts anything" type produced by an
	// empty schema.
	PrimitiveUnknown PrimitiveKind = "unknown"
)

// Field is one member of a Record, in emission order.
type Field struct {
	// Name is the wire-format property name, unmodified.
	Name string
	Type TypeRef
	// Required means the property must be present. Required, nullable, and
	// absent are three independent states: a required nullable field must
	// appear and may be null; an optional field may be missing entirely.
	Required    bool
	Description string
	Deprecated  bool
	ReadOnly    bool
	// Constraint holds the validation rules declared at this occurrence.
	// The zero value means unconstrained.
	Constraint Constraint
}

// TypeNode is one declaration in the type model. Exactly the variant data
// for its Kind is populated.
type TypeNode struct {
	ID   TypeID
	Kind Kind
	// Name is the unique emitted declaration name.
	Name string
	// Origin is the canonical graph path the node was built from.
	Origin      string
	Description string
	Deprecated  bool
	// Recursive marks nodes that participate in a reference cycle.
	Recursive bool

	// Record
	Fields []Field
	// AdditionalProps, when set, admits arbitrary extra properties of the
	// referenced type (an index signature).
	AdditionalProps *TypeRef

	// Union
	Variants []TypeRef
	// Discriminator is the tag field name for discriminated unions, empty
	// for plain unions.
	Discriminator string

	// Enum
	Values []any

	// Array
	Elem TypeRef

	// Primitive
	Primitive PrimitiveKind
	Format    string

	// Alias
	Target TypeRef
}

// Model is the complete intermediate representation of one schema document:
// an arena of type declarations plus the endpoint list. Emitters treat it as
// read-only.
type Model struct {
	// Title, Version, and Description come from the document info block.
	Title       string
	Version     string
	Description string
	// BaseURL is the first declared server URL, if any.
	BaseURL string

	types     []*TypeNode
	Endpoints []Endpoint
}

// Types returns every declaration in build order. Build order is
// deterministic, so iteration order is byte-stable across runs.
func (m *Model) Types() []*TypeNode {
	return m.types
}

// Node dereferences a TypeRef. The builder guarantees every ref handed out
// resolves, so a miss is a programming error and returns nil.
func (m *Model) Node(ref TypeRef) *TypeNode {
	return m.NodeByID(ref.ID)
}

// NodeByID returns the node with the given ID, or nil.
func (m *Model) NodeByID(id TypeID) *TypeNode {
	if int(id) < 0 || int(id) >= len(m.types) {
		return nil
	}
	return m.types[id]
}

// add appends a node, assigning its ID.
func (m *Model) add(n *TypeNode) *TypeNode {
	n.ID = TypeID(len(m.types))
	m.types = append(m.types, n)
	return n
}

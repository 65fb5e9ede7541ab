// Package model turns a resolved schema graph into the intermediate type
// model the emitters render from.
//
// The model is a closed arena of TypeNode declarations (records, unions,
// enums, arrays, primitives, aliases) referenced indirectly through TypeRef
// identifiers, plus the Endpoint list. Indirection keeps recursive types
// representable: a self-referential record simply holds a TypeRef back to
// its own node.
//
// Naming is deterministic. A declared schema title wins; otherwise names are
// synthesized from the owning component, operation, or field path, and
// collisions are disambiguated by appending originating path segments.
// Building the same graph twice yields an identical model.
//
// Schema constructs with no closed-form representation (not, if/then/else)
// fail the build with an UnsupportedConstructError naming the offending
// path. The builder never degrades to an untyped placeholder silently.
package model

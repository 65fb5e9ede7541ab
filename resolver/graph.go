package resolver

import "sort"

// Node is a single schema node in the resolved graph. Identity is the
// canonical document path; two occurrences of the same $ref share one node.
type Node struct {
	// Path is the canonical identity, e.g. "#/components/schemas/User" for
	// named components or "paths./users/{id}.get.responses.200" for inline
	// operation schemas.
	Path string
	// Name is the declared component name; empty for inline nodes.
	Name string
	// Schema is the normalized schema: allOf merged, nullable unions
	// collapsed, and every remaining $ref rewritten to a canonical path that
	// is guaranteed to exist in the graph.
	Schema *Schema
	// Recursive is true when the node participates in a reference cycle.
	// The type model represents such nodes by indirection instead of
	// inlining them, so emission always terminates.
	Recursive bool
}

// ResolvedGraph is the reference-free form of a schema document: a mapping
// from canonical node identity to schema node, with cycles explicitly
// marked. It is the only input the type model builder consumes.
type ResolvedGraph struct {
	// Document is the decoded source document the graph was built from.
	Document *Document
	// SourcePath identifies the document origin for error reporting.
	SourcePath string
	// Format is the detected source format.
	Format SourceFormat

	nodes map[string]*Node
}

func newResolvedGraph(doc *Document, sourcePath string, format SourceFormat) *ResolvedGraph {
	return &ResolvedGraph{
		Document:   doc,
		SourcePath: sourcePath,
		Format:     format,
		nodes:      make(map[string]*Node),
	}
}

// Node returns the node with the given canonical path.
func (g *ResolvedGraph) Node(path string) (*Node, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// Paths returns every canonical path in the graph in sorted order, so
// iteration is deterministic across runs.
func (g *ResolvedGraph) Paths() []string {
	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of nodes in the graph.
func (g *ResolvedGraph) Len() int { return len(g.nodes) }

// add registers a node, overwriting nothing: the resolver guarantees one
// node per canonical path before calling.
func (g *ResolvedGraph) add(n *Node) {
	g.nodes[n.Path] = n
}

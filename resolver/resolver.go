package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsbridge/tsbridge/tserrors"
)

const (
	// MaxRefDepth is the maximum depth allowed for nested $ref resolution
	// This prevents stack overflow from deeply nested (but non-circular) references
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of external documents to keep
	// in the LRU cache. This prevents memory exhaustion from documents with
	// many external references.
	MaxCachedDocuments = 100
)

// Resolver turns a raw schema document into a ResolvedGraph: every $ref
// rewritten to a canonical identity that exists in the graph, composition
// keywords normalized, and cycles explicitly marked.
//
// The resolver never emits files; its only output is the graph.
type Resolver struct {
	// MaxRefDepth overrides the default nesting depth limit when positive.
	MaxRefDepth int
	// MaxCachedDocuments overrides the external document cache size when positive.
	MaxCachedDocuments int
	// BaseDir is the base directory for resolving relative external file
	// references. External refs escaping BaseDir are rejected.
	BaseDir string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Resolver with default settings.
func New() *Resolver {
	return &Resolver{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (r *Resolver) log() Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return NopLogger{}
}

// Resolve loads the document from the source and resolves it.
func (r *Resolver) Resolve(ctx context.Context, src Source) (*ResolvedGraph, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc, format, err := DecodeDocument(data, src.Location())
	if err != nil {
		return nil, err
	}
	return r.ResolveDocument(doc, src.Location(), format)
}

// ResolveDocument resolves an already-decoded document into a graph.
// The document is treated as read-only; normalized schemas are copies.
func (r *Resolver) ResolveDocument(doc *Document, sourcePath string, format SourceFormat) (*ResolvedGraph, error) {
	depthLimit := r.MaxRefDepth
	if depthLimit <= 0 {
		depthLimit = MaxRefDepth
	}
	cacheSize := r.MaxCachedDocuments
	if cacheSize <= 0 {
		cacheSize = MaxCachedDocuments
	}
	cache, err := lru.New[string, *Document](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("resolver: creating document cache: %w", err)
	}

	res := &resolution{
		resolver:   r,
		graph:      newResolvedGraph(doc, sourcePath, format),
		states:     make(map[string]resolveState),
		registry:   make(map[string]*registryEntry),
		external:   cache,
		depthLimit: depthLimit,
	}
	if err := res.run(docContext{doc: doc}); err != nil {
		return nil, err
	}
	r.log().Debug("schema resolved", "source", sourcePath, "nodes", res.graph.Len())
	return res.graph, nil
}

// resolveState tracks the resolution lifecycle of a component node.
type resolveState int

const (
	stateUnvisited resolveState = iota
	stateResolving
	stateDone
)

// docContext identifies the document a schema fragment belongs to, so local
// refs inside external documents canonicalize against their own components.
type docContext struct {
	doc *Document
	// prefix is "" for the root document and "<file>#" for external files.
	prefix string
}

// registryEntry associates a canonical component path with its raw schema
// and owning document.
type registryEntry struct {
	node *Node
	ctx  docContext
}

// resolution holds the transient state of one resolution pass.
type resolution struct {
	resolver   *Resolver
	graph      *ResolvedGraph
	states     map[string]resolveState
	registry   map[string]*registryEntry
	external   *lru.Cache[string, *Document]
	depthLimit int
	// stack is the chain of components currently being normalized, root
	// first. When a reference closes a cycle, every component between the
	// target and the top of the stack is part of that cycle.
	stack []string
}

func (c *resolution) run(root docContext) error {
	// Register every root component first so forward references resolve.
	if err := c.registerComponents(root); err != nil {
		return err
	}

	// Resolve components in sorted order for determinism.
	var componentPaths []string
	for path := range c.registry {
		componentPaths = append(componentPaths, path)
	}
	sort.Strings(componentPaths)
	for _, path := range componentPaths {
		if err := c.resolveComponent(path); err != nil {
			return err
		}
	}

	// Walk operations breadth-first and register their inline schemas.
	return c.walkOperations(root)
}

// registerComponents registers a node for every components/schemas entry of
// the given document under its canonical path.
func (c *resolution) registerComponents(ctx docContext) error {
	if ctx.doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(ctx.doc.Components.Schemas))
	for name := range ctx.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		schema := ctx.doc.Components.Schemas[name]
		path := ctx.prefix + componentRefPrefix + name
		if _, exists := c.registry[path]; exists {
			continue
		}
		if schema == nil {
			return &tserrors.SchemaError{Path: path, Message: "component schema is null"}
		}
		node := &Node{Path: path, Name: name, Schema: copySchema(schema)}
		c.registry[path] = &registryEntry{node: node, ctx: ctx}
		c.graph.add(node)
	}
	return nil
}

const componentRefPrefix = "#/components/schemas/"

// resolveComponent normalizes a registered component node, tracking the
// in-progress set so reference cycles are detected and marked instead of
// expanded forever.
func (c *resolution) resolveComponent(path string) error {
	switch c.states[path] {
	case stateDone, stateResolving:
		return nil
	}
	entry := c.registry[path]
	if entry == nil {
		return &tserrors.SchemaError{Path: path, Message: "reference target not found", Ref: path}
	}

	c.states[path] = stateResolving
	c.stack = append(c.stack, path)
	err := c.normalize(entry.node.Schema, entry.ctx, path, 0)
	c.stack = c.stack[:len(c.stack)-1]
	c.states[path] = stateDone
	return err
}

// normalize rewrites a schema in place: refs canonicalized, allOf merged,
// nullable unions collapsed, and children recursively normalized.
func (c *resolution) normalize(s *Schema, ctx docContext, where string, depth int) error {
	if depth > c.depthLimit {
		return &tserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(c.depthLimit),
			Actual:       int64(depth),
			Message:      "structure too deeply nested at " + where,
		}
	}
	if s == nil {
		return nil
	}

	if s.Ref != "" {
		canonical, _, err := c.canonicalizeRef(s.Ref, ctx, where)
		if err != nil {
			return err
		}
		s.Ref = canonical
		return c.resolveTarget(canonical, where)
	}

	// allOf merges into a single object schema.
	if len(s.AllOf) > 0 {
		if err := c.mergeAllOf(s, ctx, where, depth); err != nil {
			return err
		}
	}

	// oneOf/anyOf: collapse the FastAPI/Pydantic "anyOf: [T, null]" optional
	// encoding into a nullable flag, keep genuine unions as-is.
	if err := c.normalizeVariants(&s.OneOf, s, ctx, where+".oneOf", depth); err != nil {
		return err
	}
	if err := c.normalizeVariants(&s.AnyOf, s, ctx, where+".anyOf", depth); err != nil {
		return err
	}

	// Children, in sorted property order for deterministic error reporting.
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.normalize(s.Properties[name], ctx, where+".properties."+name, depth+1); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if err := c.normalize(s.Items, ctx, where+".items", depth+1); err != nil {
			return err
		}
	}
	if ap := s.AdditionalPropertiesSchema(); ap != nil && ap == s.AdditionalProperties.Schema {
		if err := c.normalize(ap, ctx, where+".additionalProperties", depth+1); err != nil {
			return err
		}
	}
	return nil
}

// normalizeVariants normalizes every member of a oneOf/anyOf list, removes
// null members (setting the nullable flag on the parent), and collapses a
// single remaining member into the parent schema.
func (c *resolution) normalizeVariants(variants *[]*Schema, parent *Schema, ctx docContext, where string, depth int) error {
	if len(*variants) == 0 {
		return nil
	}

	kept := make([]*Schema, 0, len(*variants))
	for i, v := range *variants {
		if v == nil {
			continue
		}
		if isNullSchema(v) {
			parent.Nullable = true
			continue
		}
		if err := c.normalize(v, ctx, fmt.Sprintf("%s.%d", where, i), depth+1); err != nil {
			return err
		}
		kept = append(kept, v)
	}

	switch len(kept) {
	case 0:
		return &tserrors.SchemaError{Path: where, Message: "union has no non-null variants"}
	case 1:
		// A single variant is not a union; fold it into the parent.
		nullable := parent.Nullable || kept[0].IsNullable()
		title, desc := parent.Title, parent.Description
		*parent = *kept[0]
		parent.Nullable = nullable
		if parent.Title == "" {
			parent.Title = title
		}
		if parent.Description == "" {
			parent.Description = desc
		}
		return nil
	default:
		*variants = kept
		return nil
	}
}

// isNullSchema reports whether a schema admits only null.
func isNullSchema(s *Schema) bool {
	if t, ok := s.Type.(string); ok && t == "null" {
		return s.Ref == "" && len(s.Properties) == 0 && s.Items == nil
	}
	return false
}

// resolveTarget ensures a canonical ref target is (or is being) resolved,
// marking the target recursive when the reference closes a cycle.
func (c *resolution) resolveTarget(canonical, where string) error {
	entry := c.registry[canonical]
	if entry == nil {
		return &tserrors.SchemaError{Path: where, Ref: canonical, Message: "reference target not found"}
	}
	if c.states[canonical] == stateResolving {
		// Cycle: tag every member recursive rather than expanding further.
		c.markCycle(canonical)
		return nil
	}
	return c.resolveComponent(canonical)
}

// markCycle flags the cycle closed by a back-reference to target: the target
// itself plus every component on the resolution stack above it.
func (c *resolution) markCycle(target string) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		path := c.stack[i]
		c.registry[path].node.Recursive = true
		c.resolver.log().Debug("recursive schema detected", "path", path)
		if path == target {
			return
		}
	}
}

// canonicalizeRef converts a raw $ref into a canonical graph path, loading
// and registering external documents on first use.
func (c *resolution) canonicalizeRef(ref string, ctx docContext, where string) (string, docContext, error) {
	switch {
	case strings.HasPrefix(ref, componentRefPrefix):
		name := strings.TrimPrefix(ref, componentRefPrefix)
		if name == "" || strings.Contains(name, "/") {
			return "", ctx, &tserrors.SchemaError{Path: where, Ref: ref, Message: "unsupported reference target"}
		}
		return ctx.prefix + componentRefPrefix + name, ctx, nil

	case strings.HasPrefix(ref, "#"):
		return "", ctx, &tserrors.SchemaError{
			Path: where, Ref: ref,
			Message: "only #/components/schemas/* references are supported",
		}

	case strings.Contains(ref, "://"):
		return "", ctx, &tserrors.SchemaError{
			Path: where, Ref: ref,
			Message: "remote URL references are not supported; vendor the document locally",
		}

	default:
		return c.canonicalizeExternalRef(ref, where)
	}
}

// canonicalizeExternalRef resolves a "<file>#<pointer>" reference: the file
// is loaded (through the LRU cache), its components are registered under a
// file-prefixed canonical namespace, and the pointer must name one of them.
func (c *resolution) canonicalizeExternalRef(ref, where string) (string, docContext, error) {
	filePart, pointer, _ := strings.Cut(ref, "#")
	if !strings.HasPrefix(pointer, "/components/schemas/") {
		return "", docContext{}, &tserrors.SchemaError{
			Path: where, Ref: ref,
			Message: "external references must target /components/schemas",
		}
	}

	cleanPath, err := c.externalFilePath(filePart, ref, where)
	if err != nil {
		return "", docContext{}, err
	}

	extDoc, ok := c.external.Get(cleanPath)
	if !ok {
		extDoc, err = loadExternalDocument(cleanPath)
		if err != nil {
			return "", docContext{}, err
		}
		c.external.Add(cleanPath, extDoc)
	}

	// Canonical external paths look like "<file>#/components/schemas/<name>".
	extCtx := docContext{doc: extDoc, prefix: filePart}
	if err := c.registerComponents(extCtx); err != nil {
		return "", docContext{}, err
	}

	canonical := extCtx.prefix + componentRefPrefix + strings.TrimPrefix(pointer, "/components/schemas/")
	if _, exists := c.registry[canonical]; !exists {
		return "", docContext{}, &tserrors.SchemaError{Path: where, Ref: ref, Message: "reference target not found"}
	}
	return canonical, extCtx, nil
}

// externalFilePath resolves and validates an external file path against the
// resolver base directory, rejecting path traversal.
func (c *resolution) externalFilePath(filePart, ref, where string) (string, error) {
	baseDir := c.resolver.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	cleanPath := filePart
	if !filepath.IsAbs(cleanPath) {
		cleanPath = filepath.Clean(filepath.Join(baseDir, filePart))
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", &tserrors.IOError{Op: "read", Target: baseDir, Cause: err}
	}
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", &tserrors.IOError{Op: "read", Target: cleanPath, Cause: err}
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", &tserrors.SchemaError{
			Path: where, Ref: ref,
			Message: "external reference escapes the schema base directory",
		}
	}
	return cleanPath, nil
}

// loadExternalDocument reads and decodes an external referenced file.
// Unlike the root document, external files may be bare component bundles
// without an openapi version declaration.
func loadExternalDocument(path string) (*Document, error) {
	data, err := (&FileSource{Path: path}).Load(context.Background())
	if err != nil {
		return nil, err
	}
	doc, _, err := decodeLoose(data, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// walkOperations registers inline nodes for every operation's parameter,
// request body, and response schemas, normalizing each.
func (c *resolution) walkOperations(ctx docContext) error {
	paths := make([]string, 0, len(ctx.doc.Paths))
	for p := range ctx.doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, pathKey := range paths {
		item := ctx.doc.Paths[pathKey]
		if item == nil {
			continue
		}
		for i, param := range item.Parameters {
			if err := c.registerInline(param.Schema, ctx,
				fmt.Sprintf("paths.%s.parameters.%d.%s", pathKey, i, param.Name)); err != nil {
				return err
			}
		}
		for _, mo := range item.Operations() {
			if err := c.walkOperation(ctx, pathKey, mo); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *resolution) walkOperation(ctx docContext, pathKey string, mo MethodOperation) error {
	base := fmt.Sprintf("paths.%s.%s", pathKey, strings.ToLower(mo.Method))
	op := mo.Operation

	for _, param := range op.Parameters {
		if err := c.registerInline(param.Schema, ctx, base+".parameters."+param.Name); err != nil {
			return err
		}
	}
	if op.RequestBody != nil {
		if err := c.registerInline(jsonSchema(op.RequestBody.Content), ctx, base+".requestBody"); err != nil {
			return err
		}
	}

	statuses := make([]string, 0, len(op.Responses))
	for status := range op.Responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		resp := op.Responses[status]
		if resp == nil {
			continue
		}
		if err := c.registerInline(jsonSchema(resp.Content), ctx, base+".responses."+status); err != nil {
			return err
		}
	}
	return nil
}

// registerInline normalizes an inline operation schema and adds it to the
// graph under its canonical attachment path. Nil schemas are skipped: an
// absent body or empty response is not an error.
func (c *resolution) registerInline(s *Schema, ctx docContext, path string) error {
	if s == nil {
		return nil
	}
	if _, exists := c.graph.Node(path); exists {
		return nil
	}
	normalized := copySchema(s)
	if err := c.normalize(normalized, ctx, path, 0); err != nil {
		return err
	}
	c.graph.add(&Node{Path: path, Schema: normalized})
	return nil
}

// Package resolver loads OpenAPI 3.x documents and flattens their schemas
// into a ResolvedGraph.
//
// The graph gives every schema a stable canonical identity: named components
// keep their "#/components/schemas/Name" pointer, and inline operation
// schemas are keyed by their attachment point (for example
// "paths./users/{id}.get.responses.200"). Every $ref in the graph is
// rewritten to one of those canonical paths and is guaranteed to resolve.
//
// Resolution also normalizes composition keywords so downstream stages see a
// simpler shape: allOf compositions are merged into a single object schema,
// and the "anyOf: [T, null]" optional encoding collapses into a nullable
// flag on T. Reference cycles are never expanded; the node that closes a
// cycle is marked Recursive instead.
//
// Documents load from local files, HTTP(S) URLs (with optional header
// injection and common endpoint fallbacks), or raw bytes:
//
//	graph, err := resolver.ResolveWithOptions(
//	    resolver.WithURL("https://api.example.com/openapi.json"),
//	    resolver.WithHeader("Authorization", "Bearer "+token),
//	)
package resolver

// Package tsbridge generates a statically-typed TypeScript client package
// from an OpenAPI 3.x document: type declarations, zod runtime validators,
// a fetch client, data-fetching hooks, and Markdown integration guides.
//
// The repository is organized as a pipeline of small packages, each a pure
// function of its input:
//
//   - resolver: loads a schema document (file, URL, or raw bytes) and
//     resolves every $ref into a reference-free ResolvedGraph, detecting
//     cycles and normalizing allOf/oneOf/anyOf composition
//   - model: converts a ResolvedGraph into a closed intermediate type model
//     (records, unions, enums, arrays, primitives, aliases) plus an endpoint
//     list and per-field validation constraints
//   - emit: renders the type model into the TypeScript and Markdown
//     artifacts using embedded text templates
//   - engine: drives the pipeline, diffs the new model against the last
//     emission snapshot, re-renders only affected artifacts, and swaps them
//     atomically into the output directory; in watch mode it coalesces
//     file-system notifications and keeps the last good output on failure
//
// # Quick Start
//
// Generate once from a schema file:
//
//	cfg := config.Default()
//	cfg.OutputDir = "./frontend/src/api"
//	eng, err := engine.New(cfg, resolver.NewFileSource("openapi.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := eng.RunOnce(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("wrote %d artifact(s)\n", len(report.Written))
//
// Or run the daemon, regenerating on every schema change:
//
//	err = eng.Watch(ctx, "openapi.json")
//
// # Errors
//
// All failure modes are typed in the tserrors package (SchemaError,
// UnsupportedConstructError, IOError, ConfigError) and support errors.Is
// and errors.As. Schema-shaped failures always carry the offending
// document path.
//
// # Command-Line Interface
//
//	# Generate once
//	tsbridge generate -o ./frontend/src/api openapi.json
//
//	# Watch a schema file and regenerate on change
//	tsbridge watch -o ./frontend/src/api openapi.json
//
// Install the CLI:
//
//	go install github.com/tsbridge/tsbridge/cmd/tsbridge@latest
package tsbridge

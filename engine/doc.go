// Package engine drives the regeneration pipeline end to end: it resolves
// the schema, builds the type model, diffs it against the last emission
// snapshot, renders only the artifacts the diff scheduled, and swaps them
// atomically into the output directory.
//
// A single Engine runs at most one cycle at a time. RunOnce executes one
// cycle and surfaces errors synchronously; Watch runs a daemon that
// coalesces file-system notifications within a debounce window, retries
// transient schema acquisition failures with bounded backoff, and keeps
// the last good output on disk when a schema revision fails to build.
package engine

// Package emit renders the output artifacts from a type model: TypeScript
// type declarations, zod runtime validators, a typed fetch client, optional
// data-fetching hooks, and the prose guides.
//
// Emitters are pure functions of the model. Rendering never mutates the
// model, and rendering the same model twice produces byte-identical output;
// nothing time- or environment-dependent is embedded in the artifacts.
//
// Rendering produces text only. Writing files, staging, and atomic swaps
// are the engine's job.
package emit

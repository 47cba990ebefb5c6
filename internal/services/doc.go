// Package services defines shared utilities consumed by the linker pipeline
// and the consumers wired around it.
//
// Key responsibilities:
//   - Context helpers that stamp trace identifiers and stage names for
//     logging and audit correlation.
//   - Structured error markers plus the Wrap helper that tag failures with a
//     kind (input, feature, network, auth, internal) so consumers can react
//     without string matching.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services

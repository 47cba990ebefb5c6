// Package linker implements deterministic part-number match selection
// against the record store bridge.
//
// Run executes the whole pipeline for one raw PN: validation, trace
// allocation, the bridge capability gate, search key derivation, concurrent
// per-key queries joined at a single barrier, candidate merging by record
// identifier, confidence tier classification, stable ranking, and the review
// decision. A request either yields a complete Decision or an error; partial
// candidate sets are never ranked, because an incomplete view could hide a
// competing top match.
//
// The review policy is fail-safe: automatic attachment is only ever allowed
// for a unique tier-0 exact match. Everything else, including any ambiguity
// at the top rank, is routed to an operator.
package linker

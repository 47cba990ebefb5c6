// Package autolink runs the match pipeline for unattended batch imports.
//
// Unlike the interactive flow, batch imports must never abort on a single
// bad part number: every pipeline error is absorbed into a per-item outcome
// so the batch keeps moving. An item is attached only when the pipeline
// produced a unique automatic decision; everything else is reported as
// skipped with the reason.
package autolink

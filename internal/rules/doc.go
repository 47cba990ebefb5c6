// Package rules holds the versioned normalization ruleset consumed by the
// search key deriver.
//
// A ruleset names the suffix and prefix vocabularies that separate ordering
// noise from part identity: tape/reel markers, compliance codes, package
// codes, electrical grade letters that must never be stripped, and the
// per-family vendor prefixes that may be removed to reach a cross-manufacturer
// core. Rulesets are immutable once compiled; rule updates ship as data, not
// code. The version string is checked against the bridge's reported
// normalization rules version before any search is issued.
package rules

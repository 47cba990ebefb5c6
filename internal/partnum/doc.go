// Package partnum validates raw part numbers and derives the ordered search
// keys used to query the record store bridge.
//
// A raw PN yields up to three keys: the direct key (verbatim, always first),
// the primary core (tape/reel, compliance, and package tail codes peeled off
// while electrical grade letters stay), and the family core (a whitelisted
// vendor prefix additionally stripped). Derivation is deterministic and
// idempotent: tokens that match no rule are retained untouched, and a key is
// only emitted when its value differs from every earlier key.
//
// The suffix and prefix vocabularies live in internal/rules so rule updates
// ship as data without touching this package.
package partnum

package partnum

import (
	"strings"
	"unicode"

	"celinker/internal/rules"
)

// Deriver turns validated part numbers into ordered search key lists using
// an injected, immutable ruleset.
type Deriver struct {
	rules *rules.Ruleset
}

// NewDeriver creates a Deriver bound to the given ruleset.
func NewDeriver(ruleset *rules.Ruleset) *Deriver {
	if ruleset == nil {
		ruleset = rules.Default()
	}
	return &Deriver{rules: ruleset}
}

// Rules returns the ruleset the deriver was constructed with.
func (d *Deriver) Rules() *rules.Ruleset {
	return d.rules
}

// Derive produces the ordered, deduplicated search key list for a validated
// part number. The direct key is always present and always first.
func (d *Deriver) Derive(pn string) []SearchKey {
	keys := []SearchKey{{Origin: OriginDirect, Value: pn}}

	primary := d.primaryCore(pn)
	if primary != "" && primary != pn {
		keys = append(keys, SearchKey{Origin: OriginPrimaryCore, Value: primary})
	}

	if primary == "" {
		return keys
	}
	if family, ok := d.rules.FamilyRemainder(condense(primary)); ok {
		duplicate := false
		for _, key := range keys {
			if key.Value == family {
				duplicate = true
				break
			}
		}
		if !duplicate {
			keys = append(keys, SearchKey{Origin: OriginFamilyCore, Value: family})
		}
	}
	return keys
}

// token is one alpha or non-alpha run of the part number, with byte offsets
// into the trimmed input so core keys can be cut out of the original string
// with interior separators intact.
type token struct {
	text  string
	start int
	end   int
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '-', '_', '.', '+', '/':
		return true
	}
	return false
}

func tokenize(pn string, ruleset *rules.Ruleset) []token {
	var tokens []token
	var current strings.Builder
	start := -1
	lastAlpha := false

	flush := func(end int) {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, token{text: current.String(), start: start, end: end})
		current.Reset()
		start = -1
	}

	for i, r := range pn {
		if isSeparator(r) {
			flush(i)
			continue
		}
		alpha := unicode.IsLetter(r)
		if current.Len() > 0 && alpha != lastAlpha {
			flush(i)
		}
		if current.Len() == 0 {
			start = i
		}
		current.WriteRune(unicode.ToUpper(r))
		lastAlpha = alpha
	}
	flush(len(pn))

	return rejoinSuffixRuns(tokens, ruleset)
}

// rejoinSuffixRuns merges a letter run with a following digit run when the
// concatenation is a known suffix vocabulary entry, so reel counts (R2, T13),
// compliance codes (G4, E4), and numbered packages (SOIC8, TO220) survive the
// alpha/digit split as single tokens.
func rejoinSuffixRuns(tokens []token, ruleset *rules.Ruleset) []token {
	combined := make([]token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if i+1 < len(tokens) && isDigits(tokens[i+1].text) && !isDigits(tok.text) {
			joined := tok.text + tokens[i+1].text
			if ruleset.IsKnownSuffixToken(joined) {
				combined = append(combined, token{text: joined, start: tok.start, end: tokens[i+1].end})
				i++
				continue
			}
		}
		combined = append(combined, tok)
	}
	return combined
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// primaryCore peels recognized tail codes off the part number: first
// non-functional shipping markers, then compliance codes, then reel counts
// fused onto a package code (DR2G style), then package codes. Peeling stops
// at an electrical grade letter. Unrecognized codes are retained, never
// guessed away.
func (d *Deriver) primaryCore(pn string) string {
	working := tokenize(pn, d.rules)
	if len(working) == 0 {
		return ""
	}

	for len(working) > 0 && d.rules.IsNonFunctionalSuffix(last(working).text) {
		working = working[:len(working)-1]
	}

	for len(working) > 0 && d.rules.IsComplianceSuffix(last(working).text) {
		working = working[:len(working)-1]
	}

	// A trailing digit run after a token ending in R or T is a reel count
	// fused to a package code: LM358DR2G tails off as D + R2 + G.
	for len(working) >= 2 && isDigits(last(working).text) && endsWithReelLetter(working[len(working)-2].text) {
		working = working[:len(working)-1]
		tail := last(working)
		working = working[:len(working)-1]
		trimmed := tail.text[:len(tail.text)-1]
		if trimmed != "" {
			working = append(working, token{text: trimmed, start: tail.start, end: tail.end - 1})
		}
	}

	for len(working) > 0 {
		tail := last(working)
		if d.rules.IsGradeCode(tail.text) {
			break
		}
		if d.rules.IsPackageToken(tail.text) {
			working = working[:len(working)-1]
			continue
		}
		break
	}

	if len(working) == 0 {
		return ""
	}
	return strings.ToUpper(pn[:last(working).end])
}

func endsWithReelLetter(s string) bool {
	return strings.HasSuffix(s, "R") || strings.HasSuffix(s, "T")
}

func last(tokens []token) token {
	return tokens[len(tokens)-1]
}

// condense removes separators for family prefix matching; the family
// whitelist patterns are defined over the compact form.
func condense(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if !isSeparator(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

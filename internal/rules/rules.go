package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed ruleset.toml
var embeddedRuleset []byte

type rulesetFile struct {
	Version               string       `toml:"version"`
	NonFunctionalSuffixes []string     `toml:"non_functional_suffixes"`
	ComplianceSuffixes    []string     `toml:"compliance_suffixes"`
	PackageSuffixes       []string     `toml:"package_suffixes"`
	GradeCodes            []string     `toml:"grade_codes"`
	Families              []familyFile `toml:"family"`
}

type familyFile struct {
	Prefixes []string `toml:"prefixes"`
	Pattern  string   `toml:"pattern"`
}

type familyRule struct {
	prefixes []string
	pattern  *regexp.Regexp
}

// Ruleset is the compiled, immutable form of a normalization ruleset.
type Ruleset struct {
	version       string
	nonFunctional map[string]struct{}
	compliance    map[string]struct{}
	packages      map[string]struct{}
	grades        map[string]struct{}
	families      []familyRule
}

// Load reads and compiles a ruleset from a TOML file.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	rs, err := compile(data)
	if err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rs, nil
}

var defaultRuleset = sync.OnceValue(func() *Ruleset {
	rs, err := compile(embeddedRuleset)
	if err != nil {
		panic(fmt.Sprintf("embedded ruleset invalid: %v", err))
	}
	return rs
})

// Default returns the ruleset embedded in the binary.
func Default() *Ruleset {
	return defaultRuleset()
}

func compile(data []byte) (*Ruleset, error) {
	var file rulesetFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if strings.TrimSpace(file.Version) == "" {
		return nil, fmt.Errorf("version must be set")
	}

	rs := &Ruleset{
		version:       strings.TrimSpace(file.Version),
		nonFunctional: toSet(file.NonFunctionalSuffixes),
		compliance:    toSet(file.ComplianceSuffixes),
		packages:      toSet(file.PackageSuffixes),
		grades:        toSet(file.GradeCodes),
	}

	for i, fam := range file.Families {
		if len(fam.Prefixes) == 0 {
			return nil, fmt.Errorf("family %d: prefixes must not be empty", i)
		}
		pattern, err := regexp.Compile(fam.Pattern)
		if err != nil {
			return nil, fmt.Errorf("family %d: pattern: %w", i, err)
		}
		prefixes := make([]string, 0, len(fam.Prefixes))
		for _, prefix := range fam.Prefixes {
			prefix = strings.ToUpper(strings.TrimSpace(prefix))
			if prefix == "" {
				return nil, fmt.Errorf("family %d: empty prefix", i)
			}
			prefixes = append(prefixes, prefix)
		}
		// Longer prefixes first so MAX232 is not half-stripped by M.
		sort.Slice(prefixes, func(a, b int) bool {
			if len(prefixes[a]) != len(prefixes[b]) {
				return len(prefixes[a]) > len(prefixes[b])
			}
			return prefixes[a] < prefixes[b]
		})
		rs.families = append(rs.families, familyRule{prefixes: prefixes, pattern: pattern})
	}
	return rs, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Version reports the ruleset version string.
func (r *Ruleset) Version() string {
	return r.version
}

// IsNonFunctionalSuffix reports whether token is a tape/reel/shipping marker.
func (r *Ruleset) IsNonFunctionalSuffix(token string) bool {
	_, ok := r.nonFunctional[token]
	return ok
}

// IsComplianceSuffix reports whether token is an environmental marker.
func (r *Ruleset) IsComplianceSuffix(token string) bool {
	_, ok := r.compliance[token]
	return ok
}

// IsGradeCode reports whether token is an electrical grade letter that must
// be preserved.
func (r *Ruleset) IsGradeCode(token string) bool {
	_, ok := r.grades[token]
	return ok
}

// IsPackageToken reports whether token names a package. Besides the explicit
// vocabulary, wide-body SO variants and short TO-can codes are recognized by
// shape.
func (r *Ruleset) IsPackageToken(token string) bool {
	if _, ok := r.packages[token]; ok {
		return true
	}
	if strings.HasPrefix(token, "SOIC") {
		return true
	}
	if strings.HasPrefix(token, "SO") && strings.HasSuffix(token, "W") {
		return true
	}
	if strings.HasPrefix(token, "TO") && len(token) <= 5 {
		return true
	}
	return false
}

// IsKnownSuffixToken reports whether token appears in any suffix vocabulary.
// The tokenizer uses this to rejoin letter+digit runs such as R2 or SOIC8.
func (r *Ruleset) IsKnownSuffixToken(token string) bool {
	if r.IsNonFunctionalSuffix(token) || r.IsComplianceSuffix(token) {
		return true
	}
	return r.IsPackageToken(token)
}

// FamilyRemainder strips a whitelisted vendor prefix from core when the
// remainder matches the family's numeric pattern. It returns the remainder
// and true on a match; extraction never guesses beyond the whitelist.
func (r *Ruleset) FamilyRemainder(core string) (string, bool) {
	for _, fam := range r.families {
		for _, prefix := range fam.prefixes {
			if !strings.HasPrefix(core, prefix) {
				continue
			}
			remainder := core[len(prefix):]
			if remainder != "" && fam.pattern.MatchString(remainder) {
				return remainder, true
			}
		}
	}
	return "", false
}

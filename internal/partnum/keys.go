package partnum

// Origin identifies how a search key was derived from the raw part number.
type Origin string

const (
	// OriginDirect is the validated part number, verbatim.
	OriginDirect Origin = "direct"
	// OriginPrimaryCore is the part number with shipping/package noise removed.
	OriginPrimaryCore Origin = "primary_core"
	// OriginFamilyCore is the primary core with a whitelisted vendor prefix removed.
	OriginFamilyCore Origin = "family_core"
)

// SearchKey is one derived query key. Keys within a request are unique by
// value and ordered direct, primary core, family core.
type SearchKey struct {
	Origin Origin `json:"origin"`
	Value  string `json:"value"`
}

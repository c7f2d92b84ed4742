package engine

import "regexp"

// StateExtractor derives a two-letter state code from a free-text address.
// It returns "" when no state can be determined.
type StateExtractor interface {
	ExtractState(address string) string
}

var stateTokenPattern = regexp.MustCompile(`\b([A-Z]{2})\b`)

// RegexStateExtractor is a best-effort extractor that takes the first bare
// token of exactly two uppercase letters. Directional tokens such as "NW"
// match too; a geocoder-backed extractor can replace it.
type RegexStateExtractor struct{}

// ExtractState implements StateExtractor.
func (RegexStateExtractor) ExtractState(address string) string {
	m := stateTokenPattern.FindStringSubmatch(address)
	if m == nil {
		return ""
	}
	return m[1]
}

// UtilityLookup resolves the serving electric utility for an address.
type UtilityLookup interface {
	Lookup(address string) string
}

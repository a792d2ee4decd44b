package notation

import "strings"

// Accepts applies the same per-family format rules as Classify, collapsed
// into a single accept/reject decision. Used when the network path fails
// unexpectedly; never performs I/O.
func Accepts(raw string) bool {
	if raw == "" {
		return false
	}
	return vcfPattern.MatchString(raw) ||
		strings.Contains(raw, ":c.") ||
		strings.Contains(raw, ":p.") ||
		(strings.Contains(raw, ":g.") && strings.HasPrefix(raw, "NC_")) ||
		spdiPattern.MatchString(raw) ||
		cnvPattern.MatchString(raw)
}

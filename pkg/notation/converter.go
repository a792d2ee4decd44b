package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// ToUpstreamRegion rewrites a VCF-like token (chrom-pos-ref-alt, optional chr
// prefix in any casing) into the tabular region string the VEP region endpoint
// expects. Returns ("", false) on any parse failure.
func ToUpstreamRegion(vcfLike string) (string, bool) {
	s := vcfLike
	if len(s) >= 3 && strings.EqualFold(s[:3], "chr") {
		s = s[3:]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return "", false
	}

	chrom, pos, ref, alt := parts[0], parts[1], parts[2], parts[3]
	if chrom == "" || ref == "" || alt == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(pos, 10, 64); err != nil {
		return "", false
	}

	return fmt.Sprintf("%s %s . %s %s . . .", chrom, pos, ref, alt), true
}

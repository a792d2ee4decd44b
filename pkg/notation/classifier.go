package notation

import (
	"regexp"
	"strings"

	"github.com/vep-annotation-client/internal/domain"
)

// Notation family patterns. The VCF shorthand is the dash-delimited
// chrom-pos-ref-alt form, not the full file format.
var (
	// VCF shorthand: 17-36459258-A-G, chr17-36459258-A-G
	vcfPattern = regexp.MustCompile(`^(?i:chr)?[0-9XYM]+-\d+-[ACGT]+-[ACGT]+$`)

	// SPDI: NC_000017.11:36459258:A:G (empty alleles allowed for pure ins/del)
	spdiPattern = regexp.MustCompile(`^NC_\d+\.\d+:\d+:[ACGT]*:[ACGT]*$`)

	// GA4GH CNV shorthand: 17:36459258-37832869:DEL
	cnvPattern = regexp.MustCompile(`^(chr)?[0-9XY]+:\d+-\d+:(DEL|DUP)$`)
)

// Classify determines the notation family of a raw variant string.
// Rules are checked in order and the first match wins; unmatched input
// classifies as FormatUnknown. Classify never fails.
func Classify(raw string) domain.Format {
	switch {
	case vcfPattern.MatchString(raw):
		return domain.FormatVCF
	case strings.Contains(raw, ":c."):
		return domain.FormatHGVSc
	case strings.Contains(raw, ":p."):
		return domain.FormatHGVSp
	case strings.Contains(raw, ":g.") && strings.HasPrefix(raw, "NC_"):
		return domain.FormatHGVSg
	case spdiPattern.MatchString(raw):
		return domain.FormatSPDI
	case cnvPattern.MatchString(raw):
		return domain.FormatCNV
	default:
		return domain.FormatUnknown
	}
}

// ClassifyNotation classifies a raw string and returns it paired with its family.
func ClassifyNotation(raw string) domain.VariantNotation {
	return domain.VariantNotation{Raw: raw, Family: Classify(raw)}
}

// IsHGVS reports whether a family is one of the HGVS notations.
func IsHGVS(family domain.Format) bool {
	switch family {
	case domain.FormatHGVSc, domain.FormatHGVSp, domain.FormatHGVSg:
		return true
	}
	return false
}

package notation

import (
	"fmt"
	"regexp"
	"strings"
)

// Heuristic patterns for recognizing near-miss notations.
var (
	// A valid c./p. body with no transcript accession in front: c.544G>A
	bareCodingBody  = regexp.MustCompile(`^c\.[0-9*+\-_]+[ACGT]*(>|del|dup|ins|=).*$`)
	bareProteinBody = regexp.MustCompile(`^p\.([A-Z][a-z]{2}|[A-Z*]).*$`)

	// c or p glued straight onto the position: c544G>A, pGly92Cys
	missingDot = regexp.MustCompile(`(^|:)[cp][A-Za-z0-9*]`)

	// Four dash-delimited segments where at least the position looks numeric
	dashDelimited = regexp.MustCompile(`^[A-Za-z0-9]+-\d+-[A-Za-z]+-[A-Za-z]+$`)
)

// Representative transcript used in correction hints.
const exampleTranscript = "NM_000458.4"

var genericExamples = []string{
	"Valid formats include VCF shorthand: 17-36459258-A-G",
	"Valid formats include HGVS coding: NM_000458.4:c.544G>A",
	"Valid formats include HGVS protein: NP_000449.1:p.Gly182Asp",
	"Valid formats include HGVS genomic: NC_000017.11:g.36459258A>G",
	"Valid formats include SPDI: NC_000017.11:36459257:A:G",
	"Valid formats include GA4GH CNV: 17:36459258-37832869:DEL",
}

// Suggest produces human-readable correction hints for a rejected or
// ambiguous notation. All matching heuristics contribute; clearly invalid
// input always receives at least one suggestion.
func Suggest(raw string) []string {
	var suggestions []string
	trimmed := strings.TrimSpace(raw)

	if bareCodingBody.MatchString(trimmed) || bareProteinBody.MatchString(trimmed) {
		suggestions = append(suggestions,
			fmt.Sprintf("Notation appears to lack a transcript accession; try prefixing one, e.g. %s:%s", exampleTranscript, trimmed))
	}

	if missingDot.MatchString(trimmed) && !strings.Contains(trimmed, ":c.") &&
		!strings.Contains(trimmed, ":p.") && !bareCodingBody.MatchString(trimmed) &&
		!bareProteinBody.MatchString(trimmed) {
		suggestions = append(suggestions,
			"HGVS coding and protein notations require a dot after the prefix, e.g. c.544G>A rather than c544G>A")
	}

	if dashDelimited.MatchString(trimmed) && !vcfPattern.MatchString(trimmed) {
		suggestions = append(suggestions,
			"Input looks dash-delimited; VCF shorthand is chrom-pos-ref-alt with ACGT alleles, e.g. 17-36459258-A-G",
			"Genomic HGVS is an alternative, e.g. NC_000017.11:g.36459258A>G")
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "delet") || strings.Contains(lower, "dup") {
		suggestions = append(suggestions,
			"Copy-number changes use GA4GH CNV notation chrom:start-end:DEL or chrom:start-end:DUP, e.g. 17:36459258-37832869:DEL")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, genericExamples...)
	}

	return suggestions
}

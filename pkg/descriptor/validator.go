// Package descriptor validates structured variation descriptors (GA4GH
// VRSATILE shape) without any network access.
package descriptor

import (
	"fmt"
	"regexp"

	"github.com/vep-annotation-client/internal/domain"
	"github.com/vep-annotation-client/pkg/notation"
)

// ISCN-style copy-number notation: del(17)(q12), dup(X)(p11.22p11.23)
var iscnPattern = regexp.MustCompile(`(?:del|dup)\([0-9XY]+\)(?:\([pq][0-9]+(?:\.[0-9]+)?(?:[pq][0-9]+(?:\.[0-9]+)?)?\))?`)

// Expression syntaxes recognized by ValidateFormats, mapped to the notation
// family each one must classify as.
var syntaxFamilies = map[string]domain.Format{
	"hgvs.c": domain.FormatHGVSc,
	"hgvs.p": domain.FormatHGVSp,
	"hgvs.g": domain.FormatHGVSg,
	"vcf":    domain.FormatVCF,
	"spdi":   domain.FormatSPDI,
}

var syntaxErrorLabels = map[string]string{
	"hgvs.c": "Invalid HGVS c. notation",
	"hgvs.p": "Invalid HGVS p. notation",
	"hgvs.g": "Invalid HGVS g. notation",
	"vcf":    "Invalid VCF-style notation",
	"spdi":   "Invalid SPDI notation",
}

// VRS allele state types accepted by ValidateFormats.
var validStateTypes = map[string]bool{
	"LiteralSequenceExpression": true,
	"ReferenceLengthExpression": true,
}

// ValidateFormats checks a variation descriptor's embedded expressions and
// VRS allele shape, returning one error string per problem found. An empty
// slice means the descriptor is well formed.
func ValidateFormats(d *domain.VariationDescriptor) []string {
	var errs []string

	if d == nil {
		return []string{"variation descriptor is missing"}
	}
	if d.ID == "" {
		errs = append(errs, "variation descriptor must carry a non-empty id")
	}

	for _, expr := range d.Expressions {
		family, ok := syntaxFamilies[expr.Syntax]
		if !ok {
			errs = append(errs, fmt.Sprintf("Unrecognized expression syntax %q for value %q", expr.Syntax, expr.Value))
			continue
		}
		if notation.Classify(expr.Value) != family {
			errs = append(errs, fmt.Sprintf("%s: %q", syntaxErrorLabels[expr.Syntax], expr.Value))
		}
	}

	if d.VRSAllele != nil {
		errs = append(errs, validateAllele(d.VRSAllele)...)
	}

	if d.StructuralType != "" && !hasStructuralExpression(d.Expressions) {
		errs = append(errs, fmt.Sprintf("descriptor %q declares structural type %q but no expression carries CNV or ISCN notation", d.ID, d.StructuralType))
	}

	return errs
}

// validateAllele checks the minimal VRS allele shape, one error per
// missing or incorrect field.
func validateAllele(a *domain.VRSAllele) []string {
	var errs []string

	if a.Type != "Allele" {
		errs = append(errs, fmt.Sprintf("VRS allele type must be \"Allele\", got %q", a.Type))
	}
	if a.Location.Type != "SequenceLocation" {
		errs = append(errs, fmt.Sprintf("VRS allele location.type must be \"SequenceLocation\", got %q", a.Location.Type))
	}
	if !validStateTypes[a.State.Type] {
		errs = append(errs, fmt.Sprintf("VRS allele state.type must be LiteralSequenceExpression or ReferenceLengthExpression, got %q", a.State.Type))
	}

	return errs
}

func hasStructuralExpression(exprs []domain.Expression) bool {
	for _, expr := range exprs {
		if notation.Classify(expr.Value) == domain.FormatCNV || iscnPattern.MatchString(expr.Value) {
			return true
		}
	}
	return false
}

// ValidateVariantsInRecord walks every variant interpretation embedded in a
// clinical record and returns the descriptor errors found, each prefixed
// with the owning subject's identifier.
func ValidateVariantsInRecord(r *domain.ClinicalRecord) []string {
	if r == nil {
		return nil
	}

	subject := r.Subject.ID
	if subject == "" {
		subject = "unknown-subject"
	}

	var errs []string
	for _, interp := range r.Interpretations {
		if interp.Diagnosis == nil {
			continue
		}
		for _, gi := range interp.Diagnosis.GenomicInterpretations {
			if gi.VariantInterpretation == nil {
				continue
			}
			for _, e := range ValidateFormats(&gi.VariantInterpretation.VariationDescriptor) {
				errs = append(errs, fmt.Sprintf("%s: %s", subject, e))
			}
		}
	}
	return errs
}

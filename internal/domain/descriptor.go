package domain

// Expression is a syntax-tagged variant expression embedded in a
// variation descriptor (GA4GH VRSATILE shape).
type Expression struct {
	Syntax string `json:"syntax"` // hgvs.c, hgvs.p, hgvs.g, vcf, spdi
	Value  string `json:"value"`
}

// VRSAllele is the minimal VRS allele shape carried by a descriptor.
type VRSAllele struct {
	Type     string      `json:"type"` // must be "Allele"
	Location VRSLocation `json:"location"`
	State    VRSState    `json:"state"`
}

// VRSLocation is the location component of a VRS allele.
type VRSLocation struct {
	Type       string `json:"type"` // must be "SequenceLocation"
	SequenceID string `json:"sequence_id,omitempty"`
	Start      int64  `json:"start,omitempty"`
	End        int64  `json:"end,omitempty"`
}

// VRSState is the sequence-state component of a VRS allele.
type VRSState struct {
	Type     string `json:"type"` // LiteralSequenceExpression or ReferenceLengthExpression
	Sequence string `json:"sequence,omitempty"`
}

// VariationDescriptor is a structured variant descriptor whose embedded
// expressions and allele shape can be validated without network access.
type VariationDescriptor struct {
	ID             string       `json:"id"`
	Label          string       `json:"label,omitempty"`
	GeneSymbol     string       `json:"gene_symbol,omitempty"`
	Expressions    []Expression `json:"expressions,omitempty"`
	VRSAllele      *VRSAllele   `json:"vrs_allele,omitempty"`
	StructuralType string       `json:"structural_type,omitempty"` // SO term for CNVs
}

// Subject identifies the individual a clinical record belongs to.
type Subject struct {
	ID  string `json:"id"`
	Sex string `json:"sex,omitempty"`
}

// VariantInterpretation ties a variation descriptor to an interpretation
// status within a diagnosis.
type VariantInterpretation struct {
	Status              string              `json:"status,omitempty"`
	VariationDescriptor VariationDescriptor `json:"variation_descriptor"`
}

// GenomicInterpretation is one gene- or variant-level finding in a diagnosis.
type GenomicInterpretation struct {
	SubjectOrBiosampleID  string                 `json:"subject_or_biosample_id,omitempty"`
	InterpretationStatus  string                 `json:"interpretation_status,omitempty"`
	VariantInterpretation *VariantInterpretation `json:"variant_interpretation,omitempty"`
}

// Diagnosis groups the genomic interpretations supporting one disease call.
type Diagnosis struct {
	DiseaseID              string                  `json:"disease_id,omitempty"`
	GenomicInterpretations []GenomicInterpretation `json:"genomic_interpretations,omitempty"`
}

// Interpretation is a single interpretation block of a clinical record.
type Interpretation struct {
	ID        string     `json:"id,omitempty"`
	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`
}

// ClinicalRecord is a phenopacket-like clinical record carrying zero or more
// variant interpretations for one subject.
type ClinicalRecord struct {
	ID              string           `json:"id,omitempty"`
	Subject         Subject          `json:"subject"`
	Interpretations []Interpretation `json:"interpretations,omitempty"`
}

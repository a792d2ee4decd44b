package domain

// Format identifies the notation family of a raw variant string.
type Format string

const (
	FormatVCF     Format = "vcf"
	FormatHGVSc   Format = "hgvs.c"
	FormatHGVSp   Format = "hgvs.p"
	FormatHGVSg   Format = "hgvs.g"
	FormatSPDI    Format = "spdi"
	FormatCNV     Format = "cnv"
	FormatUnknown Format = "unknown"
)

// VariantNotation is a raw notation string together with its classified family.
// Immutable once classified.
type VariantNotation struct {
	Raw    string `json:"raw"`
	Family Format `json:"family"`
}

// AnnotationResult represents the structured consequence annotation returned
// by the upstream VEP service for a single variant.
type AnnotationResult struct {
	AssemblyName           string                  `json:"assembly_name"`
	MostSevereConsequence  string                  `json:"most_severe_consequence"`
	TranscriptConsequences []TranscriptConsequence `json:"transcript_consequences,omitempty"`
	ColocatedVariants      []ColocatedVariant      `json:"colocated_variants,omitempty"`
	Cached                 bool                    `json:"cached"`
}

// TranscriptConsequence describes the predicted effect of a variant on one transcript.
type TranscriptConsequence struct {
	TranscriptID       string   `json:"transcript_id"`
	GeneSymbol         string   `json:"gene_symbol"`
	ConsequenceTerms   []string `json:"consequence_terms"`
	Impact             string   `json:"impact"` // HIGH, MODERATE, LOW, MODIFIER
	CADDPhred          *float64 `json:"cadd_phred,omitempty"`
	PolyphenPrediction *string  `json:"polyphen_prediction,omitempty"`
	SIFTPrediction     *string  `json:"sift_prediction,omitempty"`
}

// ColocatedVariant is a known variant overlapping the query position.
type ColocatedVariant struct {
	ID              string   `json:"id"`
	MinorAlleleFreq *float64 `json:"minor_allele_freq,omitempty"`
	GnomADAF        *float64 `json:"gnomad_af,omitempty"`
}

// RecodedForms holds the equivalent representations of one variant as
// returned by the Variant Recoder service.
type RecodedForms struct {
	ID        []string `json:"id"`
	HGVSg     []string `json:"hgvsg"`
	HGVSc     []string `json:"hgvsc"`
	HGVSp     []string `json:"hgvsp"`
	SPDI      []string `json:"spdi"`
	VCFString []string `json:"vcf_string"`
}

// ValidationOutcome is the result of validating a single notation, including
// the degraded (offline) path.
type ValidationOutcome struct {
	IsValid     bool              `json:"is_valid"`
	Annotation  *AnnotationResult `json:"annotation,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

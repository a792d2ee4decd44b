package vep

import (
	"encoding/json"
	"fmt"

	"github.com/vep-annotation-client/internal/domain"
)

// vepAnnotation mirrors one element of the JSON array the VEP endpoints
// return. Optional fields stay pointers so absent and zero are distinct.
type vepAnnotation struct {
	AssemblyName           string `json:"assembly_name"`
	MostSevereConsequence  string `json:"most_severe_consequence"`
	TranscriptConsequences []struct {
		TranscriptID       string   `json:"transcript_id"`
		GeneSymbol         string   `json:"gene_symbol"`
		ConsequenceTerms   []string `json:"consequence_terms"`
		Impact             string   `json:"impact"`
		CADDPhred          *float64 `json:"cadd_phred"`
		PolyphenPrediction *string  `json:"polyphen_prediction"`
		SIFTPrediction     *string  `json:"sift_prediction"`
	} `json:"transcript_consequences"`
	ColocatedVariants []struct {
		ID              string   `json:"id"`
		MinorAlleleFreq *float64 `json:"minor_allele_freq"`
		GnomADAF        *float64 `json:"gnomad_af"`
	} `json:"colocated_variants"`
}

// decodeAnnotationBody parses a VEP success body: a JSON array with at least
// one element. Anything else is ErrUnexpectedShape.
func decodeAnnotationBody(body []byte) (*domain.AnnotationResult, error) {
	var payload []vepAnnotation
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON array: %v", ErrUnexpectedShape, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty annotation array", ErrUnexpectedShape)
	}

	first := payload[0]
	result := &domain.AnnotationResult{
		AssemblyName:          first.AssemblyName,
		MostSevereConsequence: first.MostSevereConsequence,
	}

	for _, tc := range first.TranscriptConsequences {
		result.TranscriptConsequences = append(result.TranscriptConsequences, domain.TranscriptConsequence{
			TranscriptID:       tc.TranscriptID,
			GeneSymbol:         tc.GeneSymbol,
			ConsequenceTerms:   tc.ConsequenceTerms,
			Impact:             tc.Impact,
			CADDPhred:          tc.CADDPhred,
			PolyphenPrediction: tc.PolyphenPrediction,
			SIFTPrediction:     tc.SIFTPrediction,
		})
	}

	for _, cv := range first.ColocatedVariants {
		result.ColocatedVariants = append(result.ColocatedVariants, domain.ColocatedVariant{
			ID:              cv.ID,
			MinorAlleleFreq: cv.MinorAlleleFreq,
			GnomADAF:        cv.GnomADAF,
		})
	}

	return result, nil
}

// stringList tolerates upstream fields that are emitted as either a single
// string or an array of strings across recoder versions.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = []string{one}
	return nil
}

// recodedEntry mirrors one element of the recoder response array. The
// recoder keys each block by input allele; unknown keys are collected and
// merged so both flattened and allele-keyed response layouts decode.
type recodedEntry struct {
	ID        stringList `json:"id"`
	HGVSg     stringList `json:"hgvsg"`
	HGVSc     stringList `json:"hgvsc"`
	HGVSp     stringList `json:"hgvsp"`
	SPDI      stringList `json:"spdi"`
	VCFString stringList `json:"vcf_string"`
}

// decodeRecoderBody parses a recoder success body: a single-element JSON
// array. An empty array, a non-array body, or an element that is not the
// expected object shape is ErrUnexpectedShape.
func decodeRecoderBody(body []byte) (*domain.RecodedForms, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON array: %v", ErrUnexpectedShape, err)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("%w: expected a single-element recoder array, got %d", ErrUnexpectedShape, len(raw))
	}

	// Flattened layout first.
	var flat recodedEntry
	if err := json.Unmarshal(raw[0], &flat); err == nil && !flat.empty() {
		return flat.toDomain(), nil
	}

	// Allele-keyed layout: {"A": {"hgvsg": [...], ...}, "input": "..."}
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw[0], &keyed); err != nil {
		return nil, fmt.Errorf("%w: recoder element is not an object: %v", ErrUnexpectedShape, err)
	}

	merged := recodedEntry{}
	for key, block := range keyed {
		if key == "input" || key == "warnings" {
			continue
		}
		var entry recodedEntry
		if err := json.Unmarshal(block, &entry); err != nil {
			continue
		}
		merged.ID = append(merged.ID, entry.ID...)
		merged.HGVSg = append(merged.HGVSg, entry.HGVSg...)
		merged.HGVSc = append(merged.HGVSc, entry.HGVSc...)
		merged.HGVSp = append(merged.HGVSp, entry.HGVSp...)
		merged.SPDI = append(merged.SPDI, entry.SPDI...)
		merged.VCFString = append(merged.VCFString, entry.VCFString...)
	}

	if merged.empty() {
		return nil, fmt.Errorf("%w: recoder element carries no recognized fields", ErrUnexpectedShape)
	}
	return merged.toDomain(), nil
}

func (e *recodedEntry) empty() bool {
	return len(e.ID) == 0 && len(e.HGVSg) == 0 && len(e.HGVSc) == 0 &&
		len(e.HGVSp) == 0 && len(e.SPDI) == 0 && len(e.VCFString) == 0
}

func (e *recodedEntry) toDomain() *domain.RecodedForms {
	return &domain.RecodedForms{
		ID:        e.ID,
		HGVSg:     e.HGVSg,
		HGVSc:     e.HGVSc,
		HGVSp:     e.HGVSp,
		SPDI:      e.SPDI,
		VCFString: e.VCFString,
	}
}

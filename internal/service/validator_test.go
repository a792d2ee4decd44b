package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vep-annotation-client/internal/domain"
	"github.com/vep-annotation-client/pkg/vep"
)

// stubAnnotator is a deterministic Annotator for facade tests.
type stubAnnotator struct {
	annotation *domain.AnnotationResult
	forms      *domain.RecodedForms
	err        error
	panicWith  interface{}
}

func (s *stubAnnotator) AnnotateVariant(ctx context.Context, raw string) (*domain.AnnotationResult, error) {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.annotation, s.err
}

func (s *stubAnnotator) RecodeVariant(ctx context.Context, raw string) (*domain.RecodedForms, error) {
	return s.forms, s.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestValidateVariantSuccess(t *testing.T) {
	annotation := &domain.AnnotationResult{
		AssemblyName:          "GRCh38",
		MostSevereConsequence: "missense_variant",
	}
	svc := NewVariantValidationService(&stubAnnotator{annotation: annotation}, quietLogger())

	outcome := svc.ValidateVariant(context.Background(), "17-36459258-A-G")
	assert.True(t, outcome.IsValid)
	require.NotNil(t, outcome.Annotation)
	assert.Equal(t, "missense_variant", outcome.Annotation.MostSevereConsequence)
	assert.Empty(t, outcome.Suggestions)
}

func TestValidateVariantFormatErrorYieldsSuggestions(t *testing.T) {
	svc := NewVariantValidationService(&stubAnnotator{
		err: fmt.Errorf("%w: %q", vep.ErrUnrecognizedFormat, "invalid-format"),
	}, quietLogger())

	outcome := svc.ValidateVariant(context.Background(), "invalid-format")
	assert.False(t, outcome.IsValid)
	assert.Nil(t, outcome.Annotation)
	assert.NotEmpty(t, outcome.Suggestions)
}

func TestValidateVariantDegradesWhenUpstreamExhausted(t *testing.T) {
	svc := NewVariantValidationService(&stubAnnotator{
		err: fmt.Errorf("%w after 3 attempts", vep.ErrRetriesExhausted),
	}, quietLogger())

	// A well-formed notation stays valid on the offline path.
	outcome := svc.ValidateVariant(context.Background(), "NM_000458.4:c.544G>A")
	assert.True(t, outcome.IsValid)
	assert.Nil(t, outcome.Annotation, "offline validation carries no annotation")

	// A malformed one is rejected with suggestions.
	outcome = svc.ValidateVariant(context.Background(), "c.544G>A")
	assert.False(t, outcome.IsValid)
	assert.NotEmpty(t, outcome.Suggestions)
}

func TestValidateVariantRecoversFromPanic(t *testing.T) {
	svc := NewVariantValidationService(&stubAnnotator{panicWith: "transport bug"}, quietLogger())

	require.NotPanics(t, func() {
		outcome := svc.ValidateVariant(context.Background(), "17-36459258-A-G")
		assert.True(t, outcome.IsValid, "well-formed notation accepted by the offline path")
	})

	require.NotPanics(t, func() {
		outcome := svc.ValidateVariant(context.Background(), "invalid-format")
		assert.False(t, outcome.IsValid)
		assert.NotEmpty(t, outcome.Suggestions)
	})
}

func TestAnnotateAndRecodeDelegate(t *testing.T) {
	annotation := &domain.AnnotationResult{MostSevereConsequence: "stop_gained"}
	forms := &domain.RecodedForms{ID: []string{"rs1"}}
	svc := NewVariantValidationService(&stubAnnotator{annotation: annotation, forms: forms}, quietLogger())

	got, err := svc.AnnotateVariant(context.Background(), "17-36459258-A-G")
	require.NoError(t, err)
	assert.Equal(t, annotation, got)

	gotForms, err := svc.RecodeVariant(context.Background(), "17-36459258-A-G")
	require.NoError(t, err)
	assert.Equal(t, forms, gotForms)
}

func TestAnnotateDelegatePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	svc := NewVariantValidationService(&stubAnnotator{err: wantErr}, quietLogger())

	_, err := svc.AnnotateVariant(context.Background(), "17-36459258-A-G")
	assert.ErrorIs(t, err, wantErr)
}

func TestValidateVariantFormatsDelegates(t *testing.T) {
	svc := NewVariantValidationService(&stubAnnotator{}, quietLogger())

	errs := svc.ValidateVariantFormats(&domain.VariationDescriptor{
		ID: "var-001",
		Expressions: []domain.Expression{
			{Syntax: "hgvs.c", Value: "c123G>A"},
		},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid HGVS c. notation")
}

func TestValidateVariantsInRecordDelegates(t *testing.T) {
	svc := NewVariantValidationService(&stubAnnotator{}, quietLogger())

	record := &domain.ClinicalRecord{
		Subject: domain.Subject{ID: "patient-7"},
		Interpretations: []domain.Interpretation{
			{
				Diagnosis: &domain.Diagnosis{
					GenomicInterpretations: []domain.GenomicInterpretation{
						{
							VariantInterpretation: &domain.VariantInterpretation{
								VariationDescriptor: domain.VariationDescriptor{
									ID: "var-1",
									Expressions: []domain.Expression{
										{Syntax: "spdi", Value: "not-spdi"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	errs := svc.ValidateVariantsInRecord(record)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "patient-7: ")
	assert.Contains(t, errs[0], "Invalid SPDI notation")
}

// Package service composes the notation, descriptor and VEP client layers
// into the validation facade the rest of the application consumes.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vep-annotation-client/internal/domain"
	"github.com/vep-annotation-client/pkg/descriptor"
	"github.com/vep-annotation-client/pkg/notation"
	"github.com/vep-annotation-client/pkg/vep"
)

// Annotator is the slice of the VEP client the facade depends on.
type Annotator interface {
	AnnotateVariant(ctx context.Context, raw string) (*domain.AnnotationResult, error)
	RecodeVariant(ctx context.Context, raw string) (*domain.RecodedForms, error)
}

// VariantValidationService validates variant notations and structured
// descriptors, degrading to the offline regex path when the network path
// fails. Safe for concurrent use.
type VariantValidationService struct {
	client Annotator
	logger *logrus.Logger
}

// NewVariantValidationService creates the facade around an annotation client.
func NewVariantValidationService(client Annotator, logger *logrus.Logger) *VariantValidationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &VariantValidationService{client: client, logger: logger}
}

// AnnotateVariant returns the structured consequence annotation for a notation.
func (s *VariantValidationService) AnnotateVariant(ctx context.Context, raw string) (*domain.AnnotationResult, error) {
	return s.client.AnnotateVariant(ctx, raw)
}

// RecodeVariant returns the equivalent representations of a notation.
func (s *VariantValidationService) RecodeVariant(ctx context.Context, raw string) (*domain.RecodedForms, error) {
	return s.client.RecodeVariant(ctx, raw)
}

// ValidateVariant validates a single notation. The network path decides when
// it can; expected failures and genuinely unexpected panics both degrade to
// the offline regex acceptance check with correction suggestions, so this
// contract never panics outward.
func (s *VariantValidationService) ValidateVariant(ctx context.Context, raw string) (outcome domain.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"notation": raw,
				"panic":    fmt.Sprintf("%v", r),
			}).Error("Annotation path panicked, degrading to offline validation")
			outcome = s.offlineOutcome(raw)
		}
	}()

	annotation, err := s.client.AnnotateVariant(ctx, raw)
	if err == nil {
		return domain.ValidationOutcome{IsValid: true, Annotation: annotation}
	}

	if errors.Is(err, vep.ErrUnrecognizedFormat) {
		return domain.ValidationOutcome{
			IsValid:     false,
			Suggestions: notation.Suggest(raw),
		}
	}

	// Upstream unavailable or exhausted: the offline path decides.
	s.logger.WithField("notation", raw).WithError(err).
		Warn("Annotation unavailable, degrading to offline validation")
	return s.offlineOutcome(raw)
}

func (s *VariantValidationService) offlineOutcome(raw string) domain.ValidationOutcome {
	if notation.Accepts(raw) {
		return domain.ValidationOutcome{IsValid: true}
	}
	return domain.ValidationOutcome{
		IsValid:     false,
		Suggestions: notation.Suggest(raw),
	}
}

// ValidateVariantFormats statically validates a structured variation
// descriptor, returning one error string per problem.
func (s *VariantValidationService) ValidateVariantFormats(d *domain.VariationDescriptor) []string {
	return descriptor.ValidateFormats(d)
}

// ValidateVariantsInRecord statically validates every variant interpretation
// in a clinical record; errors are prefixed with the subject identifier.
func (s *VariantValidationService) ValidateVariantsInRecord(r *domain.ClinicalRecord) []string {
	return descriptor.ValidateVariantsInRecord(r)
}

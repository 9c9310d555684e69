package prediction

import (
	"context"

	"github.com/saqibullah/heart-disease-predictor/internal/features"
	"github.com/saqibullah/heart-disease-predictor/internal/validation"
)

// Service runs a raw submission through validation, feature extraction and
// dispatch.
type Service struct {
	validator  *validation.Validator
	extractor  *features.Extractor
	dispatcher *Dispatcher
}

// NewService returns a Service using the default constraint table.
func NewService(models Lookup) *Service {
	table := validation.DefaultTable()
	return &Service{
		validator:  validation.New(table),
		extractor:  features.NewExtractor(table),
		dispatcher: NewDispatcher(models),
	}
}

// Run returns field errors when sub is invalid, otherwise the prediction or
// an *Error.
func (s *Service) Run(ctx context.Context, sub validation.Submission) (Result, validation.Errors, error) {
	if errs := s.validator.Validate(sub); len(errs) > 0 {
		return Result{}, errs, nil
	}
	model := sub[validation.ModelField]
	v, err := s.extractor.Extract(sub)
	if err != nil {
		return Result{}, nil, NewFailure(model, err)
	}
	res, err := s.dispatcher.Predict(ctx, model, v)
	return res, nil, err
}

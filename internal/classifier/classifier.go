// Package classifier holds the heart-disease models the service can dispatch
// to and the registry they are loaded into at startup.
package classifier

import (
	"context"
	"fmt"
)

// Classifier predicts a class label (0 or 1) for each row of features.
// Implementations must not mutate their own state while predicting so a
// single instance can serve concurrent requests.
type Classifier interface {
	Predict(ctx context.Context, rows [][]float64) ([]int, error)
}

// ProbabilityPredictor is implemented by classifiers that can estimate
// class probabilities. Each returned row holds one probability per class,
// indexed by label.
type ProbabilityPredictor interface {
	PredictProba(ctx context.Context, rows [][]float64) ([][]float64, error)
}

// JointPredictor is implemented by probability predictors that produce
// labels and probabilities from a single inference, so both describe the
// same evaluation.
type JointPredictor interface {
	PredictWithProba(ctx context.Context, rows [][]float64) ([]int, [][]float64, error)
}

// HasProbability reports whether c can estimate class probabilities.
func HasProbability(c Classifier) bool {
	_, ok := c.(ProbabilityPredictor)
	return ok
}

func checkRows(rows [][]float64, n int) error {
	if len(rows) == 0 {
		return fmt.Errorf("empty batch")
	}
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("row %d has %d features, model expects %d", i, len(row), n)
		}
	}
	return nil
}

// Scaler standardizes features before inference: (x - mean) / scale.
type Scaler struct {
	mean  []float64
	scale []float64
}

// NewScaler returns a scaler. A zero scale leaves that feature unscaled.
func NewScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler mean has %d values, scale has %d", len(mean), len(scale))
	}
	s := &Scaler{mean: append([]float64(nil), mean...), scale: make([]float64, len(scale))}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// Transform returns a standardized copy of x. A nil scaler returns x as-is.
func (s *Scaler) Transform(x []float64) []float64 {
	if s == nil {
		return x
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

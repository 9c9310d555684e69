// Package prediction selects a classifier by identifier and turns its
// output into a label plus optional risk probability.
package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
	"github.com/saqibullah/heart-disease-predictor/internal/features"
)

// Labels produced by the classifiers.
const (
	NoDisease = 0
	Disease   = 1
)

// Result is the outcome of a prediction. Probability is nil when the
// classifier cannot estimate probabilities.
type Result struct {
	Model       string   `json:"model"`
	Label       int      `json:"prediction"`
	Probability *float64 `json:"probability,omitempty"`
}

// HasDisease reports whether the label is the disease class.
func (r Result) HasDisease() bool {
	return r.Label == Disease
}

// Lookup resolves a model identifier to a classifier.
type Lookup interface {
	Lookup(id string) (classifier.Classifier, bool)
}

// Dispatcher is stateless; it is safe for concurrent use as long as the
// registered classifiers are.
type Dispatcher struct {
	models Lookup
}

// NewDispatcher returns a Dispatcher over models.
func NewDispatcher(models Lookup) *Dispatcher {
	return &Dispatcher{models: models}
}

// Predict runs the classifier registered as model on v.
func (d *Dispatcher) Predict(ctx context.Context, model string, v features.Vector) (Result, error) {
	c, ok := d.models.Lookup(model)
	if !ok {
		return Result{}, &Error{Kind: UnknownModel, Model: model, Err: ErrUnknownModel}
	}

	batch := [][]float64{v.Row()}
	var (
		labels []int
		proba  [][]float64
		err    error
	)
	jp, joint := c.(classifier.JointPredictor)
	if joint {
		labels, proba, err = jp.PredictWithProba(ctx, batch)
	} else {
		labels, err = c.Predict(ctx, batch)
	}
	if err != nil {
		return Result{}, NewFailure(model, err)
	}
	if len(labels) == 0 {
		return Result{}, NewFailure(model, fmt.Errorf("classifier returned no labels"))
	}
	label := labels[0]
	if label != NoDisease && label != Disease {
		return Result{}, NewFailure(model, fmt.Errorf("classifier returned label %d", label))
	}

	res := Result{Model: model, Label: label}
	if !joint {
		pp, ok := c.(classifier.ProbabilityPredictor)
		if !ok {
			return res, nil
		}
		if proba, err = pp.PredictProba(ctx, batch); err != nil {
			return Result{}, NewFailure(model, err)
		}
	}
	if len(proba) == 0 || len(proba[0]) <= Disease {
		return Result{}, NewFailure(model, fmt.Errorf("classifier returned malformed probabilities %v", proba))
	}
	p := proba[0][Disease]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, NewFailure(model, fmt.Errorf("classifier returned probability %v", p))
	}
	pct := Percent(p)
	res.Probability = &pct
	return res, nil
}

// Percent scales a probability to a percentage rounded to two decimals.
func Percent(p float64) float64 {
	return math.Round(p*100*100) / 100
}

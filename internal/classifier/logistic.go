package classifier

import (
	"context"
	"math"
)

// LogisticRegression is a binary linear model with a sigmoid link.
type LogisticRegression struct {
	scaler    *Scaler
	coef      []float64
	intercept float64
}

func (m *LogisticRegression) positive(row []float64) float64 {
	z := dot(m.coef, m.scaler.Transform(row)) + m.intercept
	return sigmoid(z)
}

func (m *LogisticRegression) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	if err := checkRows(rows, len(m.coef)); err != nil {
		return nil, err
	}
	labels := make([]int, len(rows))
	for i, row := range rows {
		if m.positive(row) > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func (m *LogisticRegression) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	if err := checkRows(rows, len(m.coef)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		p := m.positive(row)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

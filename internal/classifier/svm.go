package classifier

import (
	"context"
	"fmt"
	"math"
)

// Kernel names supported by SVM.
const (
	KernelLinear = "linear"
	KernelRBF    = "rbf"
)

// SVM is a binary support vector classifier in dual form. It has no
// probability estimates; see ProbabilisticSVM.
type SVM struct {
	scaler    *Scaler
	kernel    string
	gamma     float64
	vectors   [][]float64
	dualCoef  []float64
	intercept float64
	nFeatures int
}

func (m *SVM) kernelValue(sv, x []float64) float64 {
	if m.kernel == KernelRBF {
		var d float64
		for i := range sv {
			diff := sv[i] - x[i]
			d += diff * diff
		}
		return math.Exp(-m.gamma * d)
	}
	return dot(sv, x)
}

// decision returns the signed distance of row from the separating surface.
// Positive values favour the disease class.
func (m *SVM) decision(row []float64) float64 {
	x := m.scaler.Transform(row)
	f := m.intercept
	for i, sv := range m.vectors {
		f += m.dualCoef[i] * m.kernelValue(sv, x)
	}
	return f
}

func (m *SVM) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	if err := checkRows(rows, m.nFeatures); err != nil {
		return nil, err
	}
	labels := make([]int, len(rows))
	for i, row := range rows {
		if m.decision(row) > 0 {
			labels[i] = 1
		}
	}
	return labels, nil
}

// ProbabilisticSVM adds Platt-scaled probabilities to an SVM.
type ProbabilisticSVM struct {
	*SVM
	probA float64
	probB float64
}

func (m *ProbabilisticSVM) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	if err := checkRows(rows, m.nFeatures); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		p := 1 / (1 + math.Exp(m.probA*m.decision(row)+m.probB))
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func newSVM(p *SVMParams, scaler *Scaler, n int) (Classifier, error) {
	if p.Kernel != KernelLinear && p.Kernel != KernelRBF {
		return nil, fmt.Errorf("unsupported svm kernel %q", p.Kernel)
	}
	if len(p.SupportVectors) != len(p.DualCoef) {
		return nil, fmt.Errorf("svm has %d support vectors but %d dual coefficients", len(p.SupportVectors), len(p.DualCoef))
	}
	for i, sv := range p.SupportVectors {
		if len(sv) != n {
			return nil, fmt.Errorf("support vector %d has %d features, want %d", i, len(sv), n)
		}
	}
	m := &SVM{
		scaler:    scaler,
		kernel:    p.Kernel,
		gamma:     p.Gamma,
		vectors:   p.SupportVectors,
		dualCoef:  p.DualCoef,
		intercept: p.Intercept,
		nFeatures: n,
	}
	if p.ProbA == nil || p.ProbB == nil {
		return m, nil
	}
	return &ProbabilisticSVM{SVM: m, probA: *p.ProbA, probB: *p.ProbB}, nil
}

package classifier

import (
	"context"
	"fmt"
)

const leaf = -1

// Tree is one decision tree stored as parallel node arrays. Node 0 is the
// root; a node whose left child is -1 is a leaf.
type Tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     [][]float64
}

func (t *Tree) distribution(x []float64) []float64 {
	node := 0
	for t.left[node] != leaf {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	counts := t.value[node]
	var total float64
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}

// RandomForest averages the class distributions of its trees.
type RandomForest struct {
	scaler    *Scaler
	trees     []*Tree
	nClasses  int
	nFeatures int
}

func (m *RandomForest) proba(row []float64) []float64 {
	x := m.scaler.Transform(row)
	sum := make([]float64, m.nClasses)
	for _, t := range m.trees {
		for i, p := range t.distribution(x) {
			sum[i] += p
		}
	}
	for i := range sum {
		sum[i] /= float64(len(m.trees))
	}
	return sum
}

func (m *RandomForest) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	if err := checkRows(rows, m.nFeatures); err != nil {
		return nil, err
	}
	labels := make([]int, len(rows))
	for i, row := range rows {
		p := m.proba(row)
		best := 0
		for c := range p {
			if p[c] > p[best] {
				best = c
			}
		}
		labels[i] = best
	}
	return labels, nil
}

func (m *RandomForest) PredictProba(_ context.Context, rows [][]float64) ([][]float64, error) {
	if err := checkRows(rows, m.nFeatures); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = m.proba(row)
	}
	return out, nil
}

func newForest(p *ForestParams, scaler *Scaler, n int) (*RandomForest, error) {
	if len(p.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	m := &RandomForest{scaler: scaler, nClasses: 2, nFeatures: n}
	for i, tp := range p.Trees {
		t, err := newTree(tp, n, m.nClasses)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, t)
	}
	return m, nil
}

func newTree(p TreeParams, nFeatures, nClasses int) (*Tree, error) {
	size := len(p.ChildrenLeft)
	if size == 0 {
		return nil, fmt.Errorf("no nodes")
	}
	if len(p.ChildrenRight) != size || len(p.Feature) != size || len(p.Threshold) != size || len(p.Value) != size {
		return nil, fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < size; i++ {
		l, r := p.ChildrenLeft[i], p.ChildrenRight[i]
		if len(p.Value[i]) != nClasses {
			return nil, fmt.Errorf("node %d has %d class counts, want %d", i, len(p.Value[i]), nClasses)
		}
		if (l == leaf) != (r == leaf) {
			return nil, fmt.Errorf("node %d has exactly one child", i)
		}
		if l == leaf {
			continue
		}
		// Children must come after their parent so traversal terminates.
		if l <= i || r <= i || l >= size || r >= size {
			return nil, fmt.Errorf("node %d has invalid children %d, %d", i, l, r)
		}
		if p.Feature[i] < 0 || p.Feature[i] >= nFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d", i, p.Feature[i])
		}
	}
	return &Tree{
		left:      p.ChildrenLeft,
		right:     p.ChildrenRight,
		feature:   p.Feature,
		threshold: p.Threshold,
		value:     p.Value,
	}, nil
}

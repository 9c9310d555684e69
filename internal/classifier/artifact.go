package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Artifact kinds.
const (
	KindLogistic = "logistic_regression"
	KindSVM      = "svm"
	KindForest   = "random_forest"
	KindRemote   = "remote"
)

// Artifact is the on-disk description of a trained model.
type Artifact struct {
	Kind      string          `json:"kind"`
	NFeatures int             `json:"n_features"`
	Scaler    *ScalerParams   `json:"scaler,omitempty"`
	Logistic  *LogisticParams `json:"logistic,omitempty"`
	SVM       *SVMParams      `json:"svm,omitempty"`
	Forest    *ForestParams   `json:"forest,omitempty"`
	Remote    *RemoteParams   `json:"remote,omitempty"`
}

type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type LogisticParams struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// SVMParams describes a dual-form SVM. ProbA and ProbB are the Platt
// scaling parameters; the model has no probability estimates without them.
type SVMParams struct {
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma,omitempty"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       []float64   `json:"dual_coef"`
	Intercept      float64     `json:"intercept"`
	ProbA          *float64    `json:"prob_a,omitempty"`
	ProbB          *float64    `json:"prob_b,omitempty"`
}

type ForestParams struct {
	Trees []TreeParams `json:"trees"`
}

type TreeParams struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type RemoteParams struct {
	URL            string  `json:"url"`
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty"`
	Probability    bool    `json:"probability,omitempty"`
}

//go:embed artifact.schema.json
var artifactSchemaJSON []byte

var (
	schemaOnce     sync.Once
	artifactSchema *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(artifactSchemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("parse artifact schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://artifact.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add artifact schema: %w", err)
			return
		}
		artifactSchema, schemaErr = c.Compile(url)
	})
	return artifactSchema, schemaErr
}

// ParseArtifact validates raw against the artifact schema and decodes it.
func ParseArtifact(raw []byte) (*Artifact, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}

// LoadFile reads, validates and builds the classifier stored at path. The
// artifact must consume exactly nFeatures features.
func LoadFile(name, path string, nFeatures int) (Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", name, err)
	}
	a, err := ParseArtifact(raw)
	if err != nil {
		return nil, fmt.Errorf("model %s (%s): %w", name, path, err)
	}
	if a.NFeatures != nFeatures {
		return nil, fmt.Errorf("model %s (%s): artifact has %d features, service extracts %d", name, path, a.NFeatures, nFeatures)
	}
	c, err := Build(name, a)
	if err != nil {
		return nil, fmt.Errorf("model %s (%s): %w", name, path, err)
	}
	return c, nil
}

// Build constructs the classifier described by a.
func Build(name string, a *Artifact) (Classifier, error) {
	n := a.NFeatures
	var scaler *Scaler
	if a.Scaler != nil {
		if len(a.Scaler.Mean) != n {
			return nil, fmt.Errorf("scaler has %d features, want %d", len(a.Scaler.Mean), n)
		}
		s, err := NewScaler(a.Scaler.Mean, a.Scaler.Scale)
		if err != nil {
			return nil, err
		}
		scaler = s
	}

	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return nil, fmt.Errorf("missing logistic parameters")
		}
		if len(a.Logistic.Coef) != n {
			return nil, fmt.Errorf("logistic regression has %d coefficients, want %d", len(a.Logistic.Coef), n)
		}
		return &LogisticRegression{scaler: scaler, coef: a.Logistic.Coef, intercept: a.Logistic.Intercept}, nil
	case KindSVM:
		if a.SVM == nil {
			return nil, fmt.Errorf("missing svm parameters")
		}
		return newSVM(a.SVM, scaler, n)
	case KindForest:
		if a.Forest == nil {
			return nil, fmt.Errorf("missing forest parameters")
		}
		f, err := newForest(a.Forest, scaler, n)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindRemote:
		if a.Remote == nil {
			return nil, fmt.Errorf("missing remote parameters")
		}
		return NewRemote(name, *a.Remote, n), nil
	}
	return nil, fmt.Errorf("unknown artifact kind %q", a.Kind)
}

package classifier

import (
	"fmt"
	"path/filepath"
)

// Model identifiers.
const (
	SVMModel      = "svm"
	ForestModel   = "rf"
	LogisticModel = "lr"
)

// ArtifactFiles maps each model identifier to its file inside the models
// directory, in display order.
var ArtifactFiles = []struct {
	ID   string
	File string
}{
	{SVMModel, "svm_model.json"},
	{ForestModel, "rf_model.json"},
	{LogisticModel, "lr_model.json"},
}

// Registry is the immutable set of classifiers loaded at startup.
type Registry struct {
	models map[string]Classifier
	ids    []string
}

// Entry pairs a model identifier with its classifier.
type Entry struct {
	ID         string
	Classifier Classifier
}

// NewRegistry builds a registry from entries. Duplicate identifiers are an error.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{models: make(map[string]Classifier, len(entries))}
	for _, e := range entries {
		if _, dup := r.models[e.ID]; dup {
			return nil, fmt.Errorf("duplicate model %q", e.ID)
		}
		if e.Classifier == nil {
			return nil, fmt.Errorf("model %q has no classifier", e.ID)
		}
		r.models[e.ID] = e.Classifier
		r.ids = append(r.ids, e.ID)
	}
	return r, nil
}

// LoadRegistry loads every artifact in ArtifactFiles from dir. Each must take
// nFeatures inputs.
func LoadRegistry(dir string, nFeatures int) (*Registry, error) {
	entries := make([]Entry, 0, len(ArtifactFiles))
	for _, af := range ArtifactFiles {
		c, err := LoadFile(af.ID, filepath.Join(dir, af.File), nFeatures)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: af.ID, Classifier: c})
	}
	return NewRegistry(entries...)
}

// Lookup returns the classifier registered under id.
func (r *Registry) Lookup(id string) (Classifier, bool) {
	c, ok := r.models[id]
	return c, ok
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

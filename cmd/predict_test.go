package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
	"github.com/saqibullah/heart-disease-predictor/internal/features"
	"github.com/saqibullah/heart-disease-predictor/internal/prediction"
)

const patient = `{
	"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233, "fbs": 1, "restecg": 0,
	"thalach": 150, "exang": 0, "oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1, "model": %q
}`

func shippedService(t *testing.T) *prediction.Service {
	t.Helper()
	registry, err := classifier.LoadRegistry("../models", features.Count)
	require.NoError(t, err)
	return prediction.NewService(registry)
}

func run(t *testing.T, svc *prediction.Service, body string) (map[string]any, error) {
	t.Helper()
	var out bytes.Buffer
	err := runPredict(context.Background(), svc, strings.NewReader(body), &out)
	if out.Len() == 0 {
		return nil, err
	}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	return decoded, err
}

func TestRunPredict_ShippedForest(t *testing.T) {
	out, err := run(t, shippedService(t), fmt.Sprintf(patient, "rf"))
	require.NoError(t, err)
	assert.Equal(t, "rf", out["model"])
	assert.Equal(t, 1.0, out["prediction"])
	// Leaves: 75/100, 12/32 and 80/100 averaged.
	assert.Equal(t, 64.17, out["probability"])
}

func TestRunPredict_ShippedModelsAreDeterministic(t *testing.T) {
	svc := shippedService(t)
	for _, model := range []string{"svm", "rf", "lr"} {
		body := fmt.Sprintf(patient, model)
		first, err := run(t, svc, body)
		require.NoError(t, err, model)
		second, err := run(t, svc, body)
		require.NoError(t, err, model)
		assert.Equal(t, first, second, model)
		assert.Contains(t, []any{0.0, 1.0}, first["prediction"], model)
	}
}

func TestRunPredict_SVMHasNoProbability(t *testing.T) {
	out, err := run(t, shippedService(t), fmt.Sprintf(patient, "svm"))
	require.NoError(t, err)
	assert.NotContains(t, out, "probability")
}

func TestRunPredict_Rejected(t *testing.T) {
	out, err := run(t, shippedService(t), `{"age": 63}`)
	require.ErrorIs(t, err, errRejected)
	errs, ok := out["error"].([]any)
	require.True(t, ok)
	assert.Len(t, errs, 13)
}

func TestRunPredict_BadJSON(t *testing.T) {
	_, err := run(t, shippedService(t), `not json`)
	require.ErrorContains(t, err, "invalid request body")
}

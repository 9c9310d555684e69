package classifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultRemoteTimeout = 30 * time.Second

type remoteRequest struct {
	Model     string      `json:"model"`
	Instances [][]float64 `json:"instances"`
}

type remoteResponse struct {
	Predictions   []int       `json:"predictions"`
	Probabilities [][]float64 `json:"probabilities,omitempty"`
}

// Remote delegates inference to an HTTP model server.
type Remote struct {
	client    *resty.Client
	model     string
	nFeatures int
}

// RemoteWithProbability is a Remote whose server also returns class
// probabilities.
type RemoteWithProbability struct {
	*Remote
}

// NewRemote returns a classifier backed by the server at p.URL.
func NewRemote(model string, p RemoteParams, nFeatures int) Classifier {
	timeout := defaultRemoteTimeout
	if p.TimeoutSeconds > 0 {
		timeout = time.Duration(p.TimeoutSeconds * float64(time.Second))
	}
	r := &Remote{
		client: resty.New().
			SetBaseURL(p.URL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		model:     model,
		nFeatures: nFeatures,
	}
	if p.Probability {
		return &RemoteWithProbability{Remote: r}
	}
	return r
}

func (r *Remote) infer(ctx context.Context, rows [][]float64) (*remoteResponse, error) {
	if err := checkRows(rows, r.nFeatures); err != nil {
		return nil, err
	}
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(remoteRequest{Model: r.model, Instances: rows}).
		SetResult(&remoteResponse{}).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("connect to model server: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("model server error: status %d, body: %s", resp.StatusCode(), string(resp.Body()))
	}
	out := resp.Result().(*remoteResponse)
	if len(out.Predictions) != len(rows) {
		return nil, fmt.Errorf("model server returned %d predictions for %d rows", len(out.Predictions), len(rows))
	}
	return out, nil
}

func (r *Remote) Predict(ctx context.Context, rows [][]float64) ([]int, error) {
	out, err := r.infer(ctx, rows)
	if err != nil {
		return nil, err
	}
	return out.Predictions, nil
}

func (r *RemoteWithProbability) PredictProba(ctx context.Context, rows [][]float64) ([][]float64, error) {
	_, proba, err := r.PredictWithProba(ctx, rows)
	return proba, err
}

// PredictWithProba takes labels and probabilities from one server response.
func (r *RemoteWithProbability) PredictWithProba(ctx context.Context, rows [][]float64) ([]int, [][]float64, error) {
	out, err := r.infer(ctx, rows)
	if err != nil {
		return nil, nil, err
	}
	if len(out.Probabilities) != len(rows) {
		return nil, nil, fmt.Errorf("model server returned %d probability rows for %d rows", len(out.Probabilities), len(rows))
	}
	return out.Predictions, out.Probabilities, nil
}

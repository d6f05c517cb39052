package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/utils/safe"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	maxRemoteResponse    = 1 << 20
)

// Remote asks an external analysis service for categories and priority.
// Fields the service leaves out stay zero in the result.
type Remote struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

var _ interfaces.Classifier = &Remote{}

type RemoteOption func(*Remote)

// WithHTTPClient replaces the default client with a 10s timeout
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		r.httpClient = client
	}
}

func NewRemote(url, apiKey string, opts ...RemoteOption) *Remote {
	r := &Remote{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRemoteTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Categories []string `json:"categories"`
	Priority   *struct {
		Score int    `json:"score"`
		Level string `json:"level"`
	} `json:"priority"`
	Summary string `json:"summary"`
}

func (r *Remote) Analyze(ctx context.Context, text string) (*model.Classification, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal classification request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build classification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "classification service request failed")
	}
	defer safe.DrainClose(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.New("classification service returned error status", goerr.V("status", resp.StatusCode))
	}

	raw, err := safe.ReadAll(resp.Body, maxRemoteResponse)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read classification response")
	}

	var parsed remoteResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode classification response")
	}

	result := &model.Classification{
		Categories: parsed.Categories,
		Summary:    parsed.Summary,
	}
	if parsed.Priority != nil {
		level := types.PriorityLevel(parsed.Priority.Level)
		if normalized, ok := types.NormalizePriorityLevel(parsed.Priority.Level); ok {
			level = normalized
		}
		result.Priority = model.Priority{
			Score: parsed.Priority.Score,
			Level: level,
		}
	}
	return result, nil
}

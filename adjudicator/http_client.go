package adjudicator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type HTTPClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds the production adjudicator client. Timeout is a hard
// bound on the whole call; the lifecycle falls back to a disputed match when
// the adjudicator cannot answer in time.
func NewHTTPClient(cfg HTTPClientConfig) (Adjudicator, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("adjudicator base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *httpClient) Adjudicate(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode adjudication request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/adjudicate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build adjudication request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	switch result.Verdict {
	case VerdictVerified, VerdictNeedsSecondaryEvidence, VerdictReplayRequired, VerdictDisputed:
	default:
		return nil, fmt.Errorf("%w: unknown verdict %q", ErrUnavailable, result.Verdict)
	}
	if result.Verdict == VerdictVerified && !result.HasScores() {
		return nil, fmt.Errorf("%w: verified verdict without scores", ErrUnavailable)
	}
	return &result, nil
}

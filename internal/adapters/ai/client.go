package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

var (
	// ErrUnavailable means the prediction service could not be reached
	ErrUnavailable = errors.New("prediction service unavailable")
	// ErrBadResponse means the service answered with something unusable
	ErrBadResponse = errors.New("prediction service returned an invalid response")
)

// PredictRequest is the body posted to the prediction service
type PredictRequest struct {
	CropID     uint    `json:"cropId"`
	CropName   string  `json:"cropName"`
	Acres      float64 `json:"acres"`
	TypeOfSoil string  `json:"typeOfSoil,omitempty"`
	Region     string  `json:"region,omitempty"`
}

// PredictResult is the decoded answer. Raw keeps the body as received.
type PredictResult struct {
	Prediction string          `json:"prediction"`
	Confidence float64         `json:"confidence"`
	Raw        json.RawMessage `json:"-"`
}

// Client asks the prediction service about a crop
type Client interface {
	Predict(ctx context.Context, req PredictRequest) (*PredictResult, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTP returns a client posting to <baseURL>/predict
func NewHTTP(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Predict(ctx context.Context, in PredictRequest) (*PredictResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if unreachable(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var out PredictResult
	if err := json.Unmarshal(raw, &out); err != nil || out.Prediction == "" {
		return nil, fmt.Errorf("%w: %s", ErrBadResponse, truncate(raw, 200))
	}
	out.Raw = raw
	return &out, nil
}

// unreachable reports connection refused and timeouts
func unreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

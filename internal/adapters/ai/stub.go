package ai

import (
	"context"
	"encoding/json"
	"sync"
)

// Stub answers from memory and records the requests it saw
type Stub struct {
	Result *PredictResult
	Err    error

	mu    sync.Mutex
	calls []PredictRequest
}

// NewStub returns a stub that answers with a fixed prediction
func NewStub(prediction string, confidence float64) *Stub {
	raw, _ := json.Marshal(map[string]interface{}{"prediction": prediction, "confidence": confidence})
	return &Stub{Result: &PredictResult{Prediction: prediction, Confidence: confidence, Raw: raw}}
}

func (s *Stub) Predict(_ context.Context, req PredictRequest) (*PredictResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

// Calls returns the requests received so far
func (s *Stub) Calls() []PredictRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PredictRequest(nil), s.calls...)
}

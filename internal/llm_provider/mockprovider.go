package llm_provider

import (
	"context"
	"time"

	"github.com/oranjParker/mlapi/internal/core"
	"github.com/oranjParker/mlapi/internal/scrape"
)

type Provider interface {
	Infer(ctx context.Context, prompt string) (*core.InferenceResult, error)
}

var mockVector = [...]float64{0.3559, 0.2934, 0.6253, 0.3809, 0.9998}

// MockProvider stands in for a real model. It ignores the prompt, blocks for
// Delay and always returns the same keywords and vector.
type MockProvider struct {
	Delay time.Duration
	sleep func(time.Duration)
}

func NewMockProvider(delay time.Duration) *MockProvider {
	if delay < 0 {
		delay = 0
	}
	return &MockProvider{Delay: delay, sleep: time.Sleep}
}

// Infer does not watch ctx: the simulated work always runs to completion.
func (m *MockProvider) Infer(ctx context.Context, prompt string) (*core.InferenceResult, error) {
	sleep := m.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	if m.Delay > 0 {
		sleep(m.Delay)
	}

	vector := make([]float64, len(mockVector))
	copy(vector, mockVector[:])

	return &core.InferenceResult{
		Keywords: scrape.Keywords(),
		Vector:   vector,
	}, nil
}

// Package testutil provides shared fakes for service and handler tests.
package testutil

import (
	"context"
	"sync"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
)

// MockRecognizer is a scripted Recognizer. It returns Result and Err for
// every call and records how often it was invoked.
type MockRecognizer struct {
	mu     sync.Mutex
	calls  int
	Result asr.Result
	Err    error
}

func (m *MockRecognizer) Recognize(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return asr.Result{}, m.Err
	}
	return m.Result, nil
}

func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

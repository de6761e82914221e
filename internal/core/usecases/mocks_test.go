// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
)

// mockSource es un adapter de prueba configurable.
type mockSource struct {
	method  domain.Method
	result  []string
	err     error
	delay   time.Duration
	panics  bool
	calls   atomic.Int32
	closed  atomic.Bool
	lastDom atomic.Value
}

func newMockSource(m domain.Method, result ...string) *mockSource {
	return &mockSource{method: m, result: result}
}

func (m *mockSource) Method() domain.Method { return m.method }

func (m *mockSource) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	m.calls.Add(1)
	m.lastDom.Store(d.String())

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ports.NewSourceError(m.method, ctx.Err())
		}
	}
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockSource) Close() error {
	m.closed.Store(true)
	return nil
}

// recordingMetrics captura las llamadas al Recorder.
type recordingMetrics struct {
	mu       sync.Mutex
	runs     int
	observed map[string]int
	failures map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		observed: make(map[string]int),
		failures: make(map[string]string),
	}
}

func (r *recordingMetrics) RunStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

func (r *recordingMetrics) ObserveSource(method string, _ time.Duration, results int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed[method] = results
}

func (r *recordingMetrics) SourceFailed(method, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[method] = reason
}

func (r *recordingMetrics) ProbeStarted()        {}
func (r *recordingMetrics) ProbeFinished(string) {}

func sourcesOf(srcs ...*mockSource) map[domain.Method]ports.Source {
	out := make(map[domain.Method]ports.Source, len(srcs))
	for _, s := range srcs {
		out[s.method] = s
	}
	return out
}

package geocoding

import (
	"commute-eta-service/internal/domain"
	"context"
	"sync"
)

// MockResult is a scripted answer for one query.
type MockResult struct {
	Coords domain.Coordinates
	Found  bool
	Err    error
}

// MockGeocoder answers from a fixed table and records every query it sees.
// Queries missing from the table come back as not found.
type MockGeocoder struct {
	name    string
	results map[string]MockResult

	mu    sync.Mutex
	calls []string
}

func NewMockGeocoder(name string, results map[string]MockResult) *MockGeocoder {
	return &MockGeocoder{name: name, results: results}
}

func (m *MockGeocoder) Name() string { return m.name }

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, false, err
	}

	r := m.results[query]
	return r.Coords, r.Found, r.Err
}

// Calls returns the queries received so far, in order.
func (m *MockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

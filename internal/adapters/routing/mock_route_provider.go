package routing

import (
	"commute-eta-service/internal/domain"
	"context"
	"sync"
)

// MockRoute is a scripted answer for one profile.
type MockRoute struct {
	Route domain.RouteResult
	Found bool
	Err   error
}

// MockRouteProvider answers per profile from a fixed table and records the
// profiles it was asked for. Profiles missing from the table yield no route.
type MockRouteProvider struct {
	name     string
	profiles []string
	routes   map[string]MockRoute

	mu    sync.Mutex
	calls []string
}

func NewMockRouteProvider(name string, profiles []string, routes map[string]MockRoute) *MockRouteProvider {
	return &MockRouteProvider{name: name, profiles: profiles, routes: routes}
}

func (m *MockRouteProvider) Name() string { return m.name }

func (m *MockRouteProvider) Profiles() []string { return m.profiles }

func (m *MockRouteProvider) Route(
	ctx context.Context,
	profile string,
	src domain.Coordinates,
	dst domain.Coordinates,
) (domain.RouteResult, bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, profile)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, false, err
	}

	r := m.routes[profile]
	if r.Found {
		r.Route.Provider = m.name
		r.Route.Profile = profile
	}
	return r.Route, r.Found, r.Err
}

// Calls returns the profiles requested so far, in order.
func (m *MockRouteProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

package ports

import (
	"commute-eta-service/internal/domain"
	"context"
)

// Contract for computing a route between two coordinates.
type RouteProvider interface {
	Name() string
	// Profiles lists the travel profiles to try, in priority order.
	Profiles() []string
	// Route returns the provider's first route for profile. found is false when
	// the provider answered with no route. Distances are meters, durations
	// seconds, and geometry is lon/lat ordered.
	Route(ctx context.Context, profile string, src, dst domain.Coordinates) (route domain.RouteResult, found bool, err error)
}

package services

import (
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/obs"
	"commute-eta-service/internal/ports"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// RouteResolver walks (provider, profile) pairs in order and keeps the first
// non-empty route. Nothing is raced and candidates are never compared.
type RouteResolver struct {
	providers []ports.RouteProvider
}

func NewRouteResolver(providers ...ports.RouteProvider) (*RouteResolver, error) {
	if len(providers) == 0 {
		return nil, errors.New("route resolver: no route providers configured")
	}
	for _, p := range providers {
		if p == nil {
			return nil, errors.New("route resolver: nil route provider")
		}
		if len(p.Profiles()) == 0 {
			return nil, errors.New("route resolver: provider " + p.Name() + " has no profiles")
		}
	}

	return &RouteResolver{providers: providers}, nil
}

// Resolve returns the raw route of the first successful pair. Units and
// geometry order are the adapter's canonical ones (meters, seconds, lon/lat).
func (r *RouteResolver) Resolve(ctx context.Context, src, dst domain.Coordinates) (domain.RouteResult, error) {
	var attempts []domain.ProviderAttempt

	for _, p := range r.providers {
		for _, profile := range p.Profiles() {
			if err := ctx.Err(); err != nil {
				return domain.RouteResult{}, err
			}

			route, found, err := p.Route(ctx, profile, src, dst)
			attempt := domain.ProviderAttempt{Provider: p.Name(), Profile: profile, Err: err}
			log := obs.Logger(ctx).WithFields(logrus.Fields{
				"provider": p.Name(),
				"profile":  profile,
			})

			switch {
			case err != nil:
				attempt.Outcome = domain.OutcomeError
				log.WithError(err).Warn("routing failed, trying next")
			case !found:
				attempt.Outcome = domain.OutcomeEmpty
				log.Info("routing returned no route, trying next")
			default:
				attempt.Outcome = domain.OutcomeFound
				route.Provider = p.Name()
				route.Profile = profile
				route.Attempts = append(attempts, attempt)
				return route, nil
			}

			attempts = append(attempts, attempt)
		}
	}

	return domain.RouteResult{}, &NoRouteFoundError{Attempts: attempts}
}

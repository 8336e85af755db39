package services

import (
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/obs"
	"commute-eta-service/internal/ports"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// LocationResolver turns a place identifier into coordinates by asking each
// geocoder in priority order. Calls are sequential and the first candidate
// wins, even when the query is ambiguous.
type LocationResolver struct {
	geocoders []ports.Geocoder
}

func NewLocationResolver(geocoders ...ports.Geocoder) (*LocationResolver, error) {
	if len(geocoders) == 0 {
		return nil, errors.New("location resolver: no geocoders configured")
	}
	for _, g := range geocoders {
		if g == nil {
			return nil, errors.New("location resolver: nil geocoder")
		}
	}

	return &LocationResolver{geocoders: geocoders}, nil
}

// Resolve returns the first candidate any geocoder produces. Individual
// provider failures are logged and skipped; only exhaustion is reported, as
// a *LocationNotFoundError.
func (r *LocationResolver) Resolve(ctx context.Context, query string) (domain.ResolvedPlace, error) {
	attempts := make([]domain.ProviderAttempt, 0, len(r.geocoders))

	for _, g := range r.geocoders {
		if err := ctx.Err(); err != nil {
			return domain.ResolvedPlace{}, err
		}

		coords, found, err := g.Geocode(ctx, query)
		attempt := domain.ProviderAttempt{Provider: g.Name(), Err: err}

		switch {
		case err != nil:
			attempt.Outcome = domain.OutcomeError
			obs.Logger(ctx).WithFields(logrus.Fields{
				"provider": g.Name(),
				"query":    query,
			}).WithError(err).Warn("geocoder failed, trying next")
		case !found:
			attempt.Outcome = domain.OutcomeEmpty
			obs.Logger(ctx).WithFields(logrus.Fields{
				"provider": g.Name(),
				"query":    query,
			}).Info("geocoder returned no candidate, trying next")
		default:
			attempt.Outcome = domain.OutcomeFound
			attempts = append(attempts, attempt)
			return domain.ResolvedPlace{
				Query:       query,
				Coordinates: coords,
				Provider:    g.Name(),
				Attempts:    attempts,
			}, nil
		}

		attempts = append(attempts, attempt)
	}

	return domain.ResolvedPlace{}, &LocationNotFoundError{Query: query, Attempts: attempts}
}

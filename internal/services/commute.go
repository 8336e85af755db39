package services

import (
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// CommuteService answers "how far and how long" between two places.
// Each call runs geocoding, routing and normalization sequentially and
// either returns one coherent estimate or one terminal error.
type CommuteService struct {
	locations *LocationResolver
	routes    *RouteResolver
	places    domain.Whitelist
}

func NewCommuteService(
	locations *LocationResolver,
	routes *RouteResolver,
	places domain.Whitelist,
) (*CommuteService, error) {
	if routes == nil {
		return nil, errors.New("commute service: route resolver is nil")
	}

	return &CommuteService{
		locations: locations,
		routes:    routes,
		places:    places,
	}, nil
}

// Estimate resolves free-text source and destination through the geocoders.
func (s *CommuteService) Estimate(
	ctx context.Context,
	source string,
	destination string,
) (_ domain.CommuteEstimate, err error) {
	defer obs.Time(ctx, "commute.Estimate")(&err)

	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)

	if source == "" {
		return domain.CommuteEstimate{}, &InvalidRequestError{Reason: "source is required"}
	}
	if destination == "" {
		return domain.CommuteEstimate{}, &InvalidRequestError{Reason: "destination is required"}
	}
	if s.locations == nil {
		return domain.CommuteEstimate{}, errors.New("estimate: geocoding is not configured")
	}

	src, err := s.locations.Resolve(ctx, source)
	if err != nil {
		return domain.CommuteEstimate{}, fmt.Errorf("estimate: resolve source: %w", err)
	}

	dst, err := s.locations.Resolve(ctx, destination)
	if err != nil {
		return domain.CommuteEstimate{}, fmt.Errorf("estimate: resolve destination: %w", err)
	}

	return s.route(ctx, src.Coordinates, dst.Coordinates)
}

// EstimateKnown only accepts names from the whitelist and routes between
// their trusted coordinates. Validation happens before any provider call.
// Names must match a whitelist entry exactly; they are not trimmed.
func (s *CommuteService) EstimateKnown(
	ctx context.Context,
	source string,
	destination string,
) (_ domain.CommuteEstimate, err error) {
	defer obs.Time(ctx, "commute.EstimateKnown")(&err)

	src, ok := s.places.Lookup(source)
	if !ok {
		return domain.CommuteEstimate{}, &InvalidRequestError{Reason: "Invalid source location"}
	}

	dst, ok := s.places.Lookup(destination)
	if !ok {
		return domain.CommuteEstimate{}, &InvalidRequestError{Reason: "Invalid destination location"}
	}

	if source == destination {
		return domain.CommuteEstimate{}, &InvalidRequestError{Reason: "Source and destination cannot be same"}
	}

	return s.route(ctx, src, dst)
}

// Places lists the whitelist names, sorted.
func (s *CommuteService) Places() []string {
	return s.places.Names()
}

func (s *CommuteService) route(ctx context.Context, src, dst domain.Coordinates) (domain.CommuteEstimate, error) {
	raw, err := s.routes.Resolve(ctx, src, dst)
	if err != nil {
		return domain.CommuteEstimate{}, fmt.Errorf("estimate: resolve route: %w", err)
	}

	obs.Logger(ctx).WithFields(logrus.Fields{
		"provider": raw.Provider,
		"profile":  raw.Profile,
		"attempts": len(raw.Attempts),
	}).Info("route resolved")

	return Normalize(raw), nil
}

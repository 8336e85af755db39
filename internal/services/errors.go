package services

import (
	"commute-eta-service/internal/domain"
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrLocationNotFound = errors.New("location not found")
	ErrNoRouteFound     = errors.New("no route found")
)

// InvalidRequestError rejects a request before any provider is called.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return e.Reason }

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// LocationNotFoundError means every geocoder was tried without a candidate.
// Attempts are kept for logs and are not part of the message.
type LocationNotFoundError struct {
	Query    string
	Attempts []domain.ProviderAttempt
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("location not found: %q", e.Query)
}

func (e *LocationNotFoundError) Unwrap() error { return ErrLocationNotFound }

// NoRouteFoundError means every (provider, profile) pair was exhausted.
type NoRouteFoundError struct {
	Attempts []domain.ProviderAttempt
}

func (e *NoRouteFoundError) Error() string { return ErrNoRouteFound.Error() }

func (e *NoRouteFoundError) Unwrap() error { return ErrNoRouteFound }

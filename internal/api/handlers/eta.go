package handlers

import (
	"commute-eta-service/internal/api/dto"
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/obs"
	"commute-eta-service/internal/services"
	"context"
	"errors"
	"net/http"
)

// Estimator is the slice of the commute engine the handlers need.
type Estimator interface {
	Estimate(ctx context.Context, source, destination string) (domain.CommuteEstimate, error)
	EstimateKnown(ctx context.Context, source, destination string) (domain.CommuteEstimate, error)
	Places() []string
}

type ETAHandler struct {
	Service Estimator
	// Whitelist restricts requests to known place names.
	Whitelist bool
}

// ETA answers GET /eta?source=...&destination=...
func (h *ETAHandler) ETA(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	source := q.Get("source")
	destination := q.Get("destination")

	var (
		est domain.CommuteEstimate
		err error
	)
	if h.Whitelist {
		est, err = h.Service.EstimateKnown(r.Context(), source, destination)
	} else {
		est, err = h.Service.Estimate(r.Context(), source, destination)
	}
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			obs.Logger(r.Context()).WithError(err).Error("estimate failed")
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ETAResponse{
		Distance:          est.Distance,
		DurationNormal:    est.DurationNormal,
		DurationInTraffic: est.DurationInTraffic,
		Geometry:          est.Geometry,
	})
}

// Places lists the whitelist names for pickers in the UI.
func (h *ETAHandler) Places(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: h.Service.Places()})
}

// errorStatus maps engine failures to a status and a message that is safe to
// show to users.
func errorStatus(err error) (int, string) {
	var invalid *services.InvalidRequestError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, invalid.Error()
	}

	var notFound *services.LocationNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusBadRequest, notFound.Error()
	}

	if errors.Is(err, services.ErrNoRouteFound) {
		return http.StatusNotFound, "No route found"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "upstream timeout"
	}

	return http.StatusInternalServerError, "internal server error"
}

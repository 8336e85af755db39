package domain

// Outcome of a single provider call made while resolving a request.
type AttemptOutcome string

const (
	OutcomeFound AttemptOutcome = "found"
	OutcomeEmpty AttemptOutcome = "empty"
	OutcomeError AttemptOutcome = "error"
)

// ProviderAttempt records one call in a fallback chain. It exists for
// diagnostics and tests; it is never persisted or returned to end users.
type ProviderAttempt struct {
	Provider string
	Profile  string
	Outcome  AttemptOutcome
	Err      error
}

// ResolvedPlace is a place identifier turned into coordinates by a geocoder.
type ResolvedPlace struct {
	Query       string
	Coordinates Coordinates
	Provider    string
	Attempts    []ProviderAttempt
}

// Represents a raw route returned by a routing provider.
// Distance and durations keep provider units (meters, seconds) and Geometry
// keeps the canonical lon/lat order; conversion happens in normalization.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []Coordinates

	// Traffic-aware duration, when the provider distinguishes it from free flow.
	TrafficDurationSeconds *float64

	Provider string
	Profile  string
	Attempts []ProviderAttempt
}

// CommuteEstimate is the normalized, unit-labelled answer for one request.
type CommuteEstimate struct {
	Distance          string
	DurationNormal    string
	DurationInTraffic string

	// Route path as [lat, lon] pairs.
	Geometry [][2]float64

	DistanceKm      float64
	DurationMinutes float64
	TrafficMinutes  float64
	Provider        string
	Profile         string
}

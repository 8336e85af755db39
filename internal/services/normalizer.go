package services

import (
	"commute-eta-service/internal/domain"
	"strconv"
	"strings"
)

// Normalize converts a raw route into labelled kilometres and minutes, and
// flips geometry from lon/lat to lat/lon. When the provider has no separate
// traffic-aware duration, the free-flow duration is reported twice.
func Normalize(raw domain.RouteResult) domain.CommuteEstimate {
	km := round2(raw.DistanceMeters / 1000)
	mins := round2(raw.DurationSeconds / 60)

	trafficMins := mins
	if raw.TrafficDurationSeconds != nil {
		trafficMins = round2(*raw.TrafficDurationSeconds / 60)
	}

	geometry := make([][2]float64, 0, len(raw.Geometry))
	for _, c := range raw.Geometry {
		geometry = append(geometry, c.LatLon())
	}

	return domain.CommuteEstimate{
		Distance:          formatUnit(km, "km"),
		DurationNormal:    formatUnit(mins, "mins"),
		DurationInTraffic: formatUnit(trafficMins, "mins"),
		Geometry:          geometry,
		DistanceKm:        km,
		DurationMinutes:   mins,
		TrafficMinutes:    trafficMins,
		Provider:          raw.Provider,
		Profile:           raw.Profile,
	}
}

// round2 rounds the exact binary value of v to two decimals, ties to even.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// formatUnit renders the shortest form of v, keeping one decimal for whole
// numbers ("5.0 km", "12.34 km").
func formatUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " " + unit
}

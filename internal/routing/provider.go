package routing

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the distance service cannot produce a
// result. The booking flow fails closed on it: no straight-line fallback is
// ever substituted for a driving distance.
var ErrUnavailable = errors.New("distance service unavailable")

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Result is the travel distance and duration to one destination.
// In batch responses Err is set per destination; the other fields are then
// meaningless.
type Result struct {
	DistanceMeters  float64
	DurationSeconds float64
	Err             error
}

// DistanceKm returns the travel distance in kilometers.
func (r Result) DistanceKm() float64 {
	return r.DistanceMeters / 1000
}

// DurationMinutes returns the travel duration in minutes.
func (r Result) DurationMinutes() float64 {
	return r.DurationSeconds / 60
}

// Provider supplies driving distance and duration from an origin to one or
// more destinations.
//
// Distance fails the whole call on error. Distances fails only the affected
// destinations (via Result.Err) unless the call itself cannot complete, in
// which case it returns an error and no results. Callers must treat both
// paths as equivalent in output shape and must never act on partial results.
type Provider interface {
	Distance(ctx context.Context, origin, dest Point) (Result, error)
	Distances(ctx context.Context, origin Point, dests []Point) ([]Result, error)
}

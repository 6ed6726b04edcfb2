// Package location acquires the coordinates attached to new tasks.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"phototask/internal/logging"
	"phototask/internal/service"
)

// Default is used when a position fix cannot be obtained.
var Default = service.Location{Latitude: -33.4489, Longitude: -70.6693}

var (
	// ErrPermissionDenied means the user refused location access.
	ErrPermissionDenied = errors.New("location permission is required to create a task")

	// ErrServicesDisabled means location services are switched off.
	ErrServicesDisabled = errors.New("location services are disabled; enable them to create a task")

	// ErrNoFix is returned by providers that have no position to report.
	ErrNoFix = errors.New("no position fix")
)

// Provider is a source of device positions.
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	ServicesEnabled(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (service.Location, error)
}

// Acquire returns the current position from p.
// A denied permission or disabled services block the caller. A failed fix
// falls back to Default.
func Acquire(ctx context.Context, p Provider, log *slog.Logger) (service.Location, error) {
	log = logging.OrDiscard(log)

	granted, err := p.RequestPermission(ctx)
	if err != nil {
		return service.Location{}, fmt.Errorf("request location permission: %w", err)
	}
	if !granted {
		return service.Location{}, ErrPermissionDenied
	}

	enabled, err := p.ServicesEnabled(ctx)
	if err != nil {
		return service.Location{}, fmt.Errorf("check location services: %w", err)
	}
	if !enabled {
		return service.Location{}, ErrServicesDisabled
	}

	loc, err := p.CurrentPosition(ctx)
	if err != nil {
		log.Debug("position fix failed, using default", "error", err)
		return Default, nil
	}
	return loc, nil
}

// Static reports a fixed position. A nil Fix means no fix is available.
type Static struct {
	Fix      *service.Location
	Denied   bool
	Disabled bool
}

var _ Provider = Static{}

func (s Static) RequestPermission(context.Context) (bool, error) { return !s.Denied, nil }

func (s Static) ServicesEnabled(context.Context) (bool, error) { return !s.Disabled, nil }

func (s Static) CurrentPosition(context.Context) (service.Location, error) {
	if s.Fix == nil {
		return service.Location{}, ErrNoFix
	}
	return *s.Fix, nil
}

// FromFlags builds a Static provider from optional coordinates.
// Both or neither must be set; out of range values are rejected.
func FromFlags(lat, lng *float64) (Static, error) {
	switch {
	case lat == nil && lng == nil:
		return Static{}, nil
	case lat == nil || lng == nil:
		return Static{}, service.ValidationError("--lat and --lng must be given together")
	}
	if *lat < -90 || *lat > 90 {
		return Static{}, service.ValidationError(fmt.Sprintf("latitude %v out of range", *lat))
	}
	if *lng < -180 || *lng > 180 {
		return Static{}, service.ValidationError(fmt.Sprintf("longitude %v out of range", *lng))
	}
	return Static{Fix: &service.Location{Latitude: *lat, Longitude: *lng}}, nil
}

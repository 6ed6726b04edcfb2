package location

import (
	"context"
	"errors"
	"testing"

	"phototask/internal/service"
)

type failingProvider struct {
	Static
	permErr error
}

func (f failingProvider) RequestPermission(ctx context.Context) (bool, error) {
	if f.permErr != nil {
		return false, f.permErr
	}
	return f.Static.RequestPermission(ctx)
}

func TestAcquire(t *testing.T) {
	fix := service.Location{Latitude: 40.4168, Longitude: -3.7038}
	boom := errors.New("sensor offline")

	tests := []struct {
		name    string
		p       Provider
		want    service.Location
		wantErr error
	}{
		{"fix", Static{Fix: &fix}, fix, nil},
		{"no fix falls back", Static{}, Default, nil},
		{"denied", Static{Fix: &fix, Denied: true}, service.Location{}, ErrPermissionDenied},
		{"disabled", Static{Fix: &fix, Disabled: true}, service.Location{}, ErrServicesDisabled},
		{"permission error", failingProvider{permErr: boom}, service.Location{}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Acquire(context.Background(), tt.p, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFromFlags(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	p, err := FromFlags(nil, nil)
	if err != nil || p.Fix != nil {
		t.Fatalf("expected empty provider, got %+v, %v", p, err)
	}

	p, err = FromFlags(f(-33.4489), f(-70.6693))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Fix == nil || *p.Fix != Default {
		t.Errorf("unexpected fix %+v", p.Fix)
	}

	for _, tt := range []struct {
		name     string
		lat, lng *float64
	}{
		{"lat only", f(1), nil},
		{"lng only", nil, f(1)},
		{"lat range", f(91), f(0)},
		{"lng range", f(0), f(-181)},
	} {
		if _, err := FromFlags(tt.lat, tt.lng); !service.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tt.name, err)
		}
	}
}

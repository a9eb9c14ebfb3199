package weather

import (
	"context"
	"errors"
	"fmt"
)

// Coordinates is a device-reported position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Locator reports where the forecast should be fetched for. Implementations
// wrap whatever the platform provides; denial is a PermissionError.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// PermissionError means a device capability was denied. The dependent
// feature degrades to an empty state; the user can change this in their
// settings.
type PermissionError struct {
	Capability string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("weather: %s permission denied", e.Capability)
}

// IsPermission reports whether err is a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// StaticLocator returns a fixed position, typically from config.
type StaticLocator struct {
	Coordinates Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	return l.Coordinates, nil
}

// DeniedLocator models a platform that refused the location prompt.
type DeniedLocator struct{}

func (DeniedLocator) Locate(ctx context.Context) (Coordinates, error) {
	return Coordinates{}, &PermissionError{Capability: "location"}
}

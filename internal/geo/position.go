// Package geo provides the GPS field of the inspection form and the
// geolocation capability it reads coordinates from.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the precision coordinates are reported with
const Decimals = 6

var (
	ErrUnavailable        = errors.New("geolocation not supported")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// Position is a WGS84 coordinate pair
type Position struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// NewPosition builds a position from floating point degrees
func NewPosition(lat, lon float64) (Position, error) {
	p := Position{Latitude: decimal.NewFromFloat(lat), Longitude: decimal.NewFromFloat(lon)}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Validate checks the coordinate ranges
func (p Position) Validate() error {
	if p.Latitude.Abs().GreaterThan(maxLatitude) {
		return fmt.Errorf("%w: latitude %s out of range", ErrInvalidCoordinates, p.Latitude)
	}
	if p.Longitude.Abs().GreaterThan(maxLongitude) {
		return fmt.Errorf("%w: longitude %s out of range", ErrInvalidCoordinates, p.Longitude)
	}
	return nil
}

// String formats the position as "lat, lon" with six decimals
func (p Position) String() string {
	return p.Latitude.StringFixed(Decimals) + ", " + p.Longitude.StringFixed(Decimals)
}

// ParseCoordinates reads a "lat, lon" pair in decimal degrees
func ParseCoordinates(s string) (Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("%w: expected \"lat, lon\", got %q", ErrInvalidCoordinates, s)
	}

	lat, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: latitude: %v", ErrInvalidCoordinates, err)
	}
	lon, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: longitude: %v", ErrInvalidCoordinates, err)
	}

	p := Position{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Locator supplies the device's current position
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// FixedLocator always reports the same position, e.g. one configured for a
// device without a receiver.
type FixedLocator struct {
	Position Position
}

// CurrentPosition returns the configured position
func (l FixedLocator) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return l.Position, nil
}

// UnsupportedLocator is used when no geolocation source exists
type UnsupportedLocator struct{}

// CurrentPosition always fails with ErrUnavailable
func (UnsupportedLocator) CurrentPosition(context.Context) (Position, error) {
	return Position{}, ErrUnavailable
}

// LocatorFunc adapts a function to the Locator interface
type LocatorFunc func(ctx context.Context) (Position, error)

// CurrentPosition calls fn
func (fn LocatorFunc) CurrentPosition(ctx context.Context) (Position, error) {
	return fn(ctx)
}

// Package geo provides the one-shot locators used for the initial map view.
package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"example.com/workoutlog/internal/domain"
)

// Static always reports the same position.
type Static struct {
	Position domain.Coordinates
}

// Locate implements domain.Locator.
func (s Static) Locate(context.Context) (domain.Coordinates, error) {
	return s.Position, nil
}

// Unavailable reports that no position can be obtained.
type Unavailable struct{}

// Locate implements domain.Locator.
func (Unavailable) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrLocationUnavailable
}

// FromSetting builds a locator from a "lat,lng" setting. A blank setting
// yields Unavailable.
func FromSetting(value string) (domain.Locator, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Unavailable{}, nil
	}
	coords, err := ParseCoordinates(value)
	if err != nil {
		return nil, err
	}
	return Static{Position: coords}, nil
}

// ParseCoordinates parses "lat,lng" and validates the range.
func ParseCoordinates(value string) (domain.Coordinates, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("expected \"lat,lng\", got %q", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude: %w", err)
	}
	coords := domain.Coordinates{Lat: lat, Lng: lng}
	if err := coords.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return coords, nil
}

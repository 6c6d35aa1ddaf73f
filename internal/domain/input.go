package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormInput is the raw, unparsed content of the workout form. Metric holds
// cadence for running and elevation gain for cycling.
type FormInput struct {
	Type     string
	Distance string
	Duration string
	Metric   string
}

// build parses the form and constructs the matching variant. Every field must
// parse to a finite number before any positivity rule is applied.
func (in FormInput) build(coords Coordinates, createdAt time.Time) (Workout, error) {
	kind, err := ParseKind(in.Type)
	if err != nil {
		return Workout{}, err
	}

	distance := parseNumber(in.Distance)
	duration := parseNumber(in.Duration)
	metric := parseNumber(in.Metric)
	if !isFinite(distance) || !isFinite(duration) || !isFinite(metric) {
		return Workout{}, fmt.Errorf("%w: inputs must be finite numbers", ErrInvalidWorkoutInput)
	}

	switch kind {
	case KindRunning:
		if metric <= 0 {
			return Workout{}, fmt.Errorf("%w: inputs have to be positive", ErrInvalidWorkoutInput)
		}
		if metric != math.Trunc(metric) || metric > math.MaxInt32 {
			return Workout{}, fmt.Errorf("%w: cadence must be a whole number of steps per minute", ErrInvalidWorkoutInput)
		}
		return NewRunning(coords, distance, duration, int(metric), createdAt)
	default:
		return NewCycling(coords, distance, duration, metric, createdAt)
	}
}

// parseNumber mirrors how a browser number field coerces its text: blank is
// zero and anything unparsable is NaN.
func parseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

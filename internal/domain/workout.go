package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags a workout variant.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a form value onto a known Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindRunning:
		return KindRunning, nil
	case KindCycling:
		return KindCycling, nil
	default:
		return "", fmt.Errorf("%w: unknown workout type %q", ErrInvalidWorkoutInput, value)
	}
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects non-finite or out-of-range coordinates.
func (c Coordinates) Validate() error {
	if !isFinite(c.Lat) || !isFinite(c.Lng) {
		return fmt.Errorf("%w: coordinates must be finite", ErrInvalidWorkoutInput)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: coordinates out of range (%g, %g)", ErrInvalidWorkoutInput, c.Lat, c.Lng)
	}
	return nil
}

// Running holds the running-only fields.
type Running struct {
	CadenceSpm   int
	PaceMinPerKm float64
}

// Cycling holds the cycling-only fields.
type Cycling struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Workout is a single recorded activity. Exactly one of Running or Cycling is
// set, matching Kind.
type Workout struct {
	ID          string
	Kind        Kind
	CreatedAt   time.Time
	Coordinates Coordinates
	DistanceKm  float64
	DurationMin float64
	Description string
	Clicks      int

	Running *Running
	Cycling *Cycling
}

// DerivedMetric returns pace for running and speed for cycling.
func (w Workout) DerivedMetric() float64 {
	switch {
	case w.Running != nil:
		return w.Running.PaceMinPerKm
	case w.Cycling != nil:
		return w.Cycling.SpeedKmPerH
	default:
		return 0
	}
}

// clone copies w including its variant.
func (w Workout) clone() Workout {
	if w.Running != nil {
		r := *w.Running
		w.Running = &r
	}
	if w.Cycling != nil {
		c := *w.Cycling
		w.Cycling = &c
	}
	return w
}

// NewRunning validates the inputs and builds a running workout.
func NewRunning(coords Coordinates, distanceKm, durationMin float64, cadenceSpm int, createdAt time.Time) (Workout, error) {
	if err := validateBase(coords, distanceKm, durationMin); err != nil {
		return Workout{}, err
	}
	if cadenceSpm <= 0 {
		return Workout{}, fmt.Errorf("%w: cadence must be positive", ErrInvalidWorkoutInput)
	}

	w := newBase(KindRunning, coords, distanceKm, durationMin, createdAt)
	w.Running = &Running{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: Pace(distanceKm, durationMin),
	}
	return w, nil
}

// NewCycling validates the inputs and builds a cycling workout. Elevation
// gain only has to be finite; downhill rides are negative.
func NewCycling(coords Coordinates, distanceKm, durationMin, elevationGainM float64, createdAt time.Time) (Workout, error) {
	if err := validateBase(coords, distanceKm, durationMin); err != nil {
		return Workout{}, err
	}
	if !isFinite(elevationGainM) {
		return Workout{}, fmt.Errorf("%w: elevation gain must be a finite number", ErrInvalidWorkoutInput)
	}

	w := newBase(KindCycling, coords, distanceKm, durationMin, createdAt)
	w.Cycling = &Cycling{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    Speed(distanceKm, durationMin),
	}
	return w, nil
}

// Pace is minutes per kilometre.
func Pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

// Speed is kilometres per hour.
func Speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Describe renders "<Type> on <Month> <Day>".
func Describe(kind Kind, at time.Time) string {
	label := string(kind)
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return fmt.Sprintf("%s on %s %d", label, months[at.Month()-1], at.Day())
}

// idWidth is how many trailing digits of the Unix millisecond clock make up an id.
const idWidth = 10

func idFromTime(t time.Time) string {
	id := strconv.FormatInt(t.UnixMilli(), 10)
	if len(id) > idWidth {
		id = id[len(id)-idWidth:]
	}
	return id
}

func newBase(kind Kind, coords Coordinates, distanceKm, durationMin float64, createdAt time.Time) Workout {
	return Workout{
		ID:          idFromTime(createdAt),
		Kind:        kind,
		CreatedAt:   createdAt,
		Coordinates: coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Description: Describe(kind, createdAt),
	}
}

func validateBase(coords Coordinates, distanceKm, durationMin float64) error {
	if err := coords.Validate(); err != nil {
		return err
	}
	if !isFinite(distanceKm) || !isFinite(durationMin) {
		return fmt.Errorf("%w: distance and duration must be finite numbers", ErrInvalidWorkoutInput)
	}
	if distanceKm <= 0 || durationMin <= 0 {
		return fmt.Errorf("%w: distance and duration must be positive", ErrInvalidWorkoutInput)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StorageKey is the key-value entry that holds the serialized log.
const StorageKey = "workouts"

var (
	// ErrCorruptLog is returned when the stored blob is not a JSON array of workouts.
	ErrCorruptLog = errors.New("stored workout log is corrupt")
	// ErrCorruptRecord marks a single stored workout that could not be rehydrated.
	ErrCorruptRecord = errors.New("stored workout record is invalid")
)

type record struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	Type           Kind       `json:"type"`
	Coordinates    [2]float64 `json:"coordinates"`
	DistanceKm     float64    `json:"distanceKm"`
	DurationMin    float64    `json:"durationMin"`
	Description    string     `json:"description"`
	Clicks         int        `json:"clicks"`
	CadenceSpm     *int       `json:"cadenceSpm,omitempty"`
	PaceMinPerKm   *float64   `json:"paceMinPerKm,omitempty"`
	ElevationGainM *float64   `json:"elevationGainM,omitempty"`
	SpeedKmPerH    *float64   `json:"speedKmPerH,omitempty"`
}

// EncodeLog serializes the log into the persisted JSON array.
func EncodeLog(workouts []Workout) (string, error) {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		rec := record{
			ID:          w.ID,
			CreatedAt:   w.CreatedAt,
			Type:        w.Kind,
			Coordinates: [2]float64{w.Coordinates.Lat, w.Coordinates.Lng},
			DistanceKm:  w.DistanceKm,
			DurationMin: w.DurationMin,
			Description: w.Description,
			Clicks:      w.Clicks,
		}
		switch {
		case w.Running != nil:
			cadence, pace := w.Running.CadenceSpm, w.Running.PaceMinPerKm
			rec.CadenceSpm, rec.PaceMinPerKm = &cadence, &pace
		case w.Cycling != nil:
			elevation, speed := w.Cycling.ElevationGainM, w.Cycling.SpeedKmPerH
			rec.ElevationGainM, rec.SpeedKmPerH = &elevation, &speed
		}
		records = append(records, rec)
	}

	body, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode workout log: %w", err)
	}
	return string(body), nil
}

// DecodeLog parses a persisted blob. A blank blob or JSON null is an empty
// log. Records that fail validation are skipped and reported through the
// returned error (each wrapping ErrCorruptRecord) while the valid ones are
// still returned. A blob that is not a JSON array yields ErrCorruptLog and no
// workouts.
//
// Rehydrated workouts get their variant reattached from the type tag and
// their pace or speed recomputed; id, creation time, description and click
// count are taken as stored.
func DecodeLog(blob string) ([]Workout, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" || blob == "null" {
		return []Workout{}, nil
	}

	var records []record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}

	workouts := make([]Workout, 0, len(records))
	var errs error
	for i, rec := range records {
		w, err := rec.rehydrate()
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: entry %d (id=%q): %v", ErrCorruptRecord, i, rec.ID, err))
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts, errs
}

func (rec record) rehydrate() (Workout, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Workout{}, errors.New("missing id")
	}

	coords := Coordinates{Lat: rec.Coordinates[0], Lng: rec.Coordinates[1]}
	var (
		w   Workout
		err error
	)
	switch rec.Type {
	case KindRunning:
		if rec.CadenceSpm == nil {
			return Workout{}, errors.New("running entry without cadence")
		}
		w, err = NewRunning(coords, rec.DistanceKm, rec.DurationMin, *rec.CadenceSpm, rec.CreatedAt)
	case KindCycling:
		if rec.ElevationGainM == nil {
			return Workout{}, errors.New("cycling entry without elevation gain")
		}
		w, err = NewCycling(coords, rec.DistanceKm, rec.DurationMin, *rec.ElevationGainM, rec.CreatedAt)
	default:
		return Workout{}, fmt.Errorf("unknown type %q", rec.Type)
	}
	if err != nil {
		return Workout{}, err
	}

	w.ID = rec.ID
	w.Clicks = rec.Clicks
	if rec.Description != "" {
		w.Description = rec.Description
	}
	return w, nil
}

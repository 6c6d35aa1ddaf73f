// Package present turns workouts into list items and map markers.
package present

import (
	"strconv"

	"example.com/workoutlog/internal/domain"
)

const (
	iconRunning  = "🏃‍♂️"
	iconCycling  = "🚴‍♂️"
	iconDuration = "⏱"
	iconSpeed    = "⚡️"
	iconCadence  = "🦶🏼"
	iconClimb    = "⛰"
)

// Detail is one icon/value/unit cell of a list item.
type Detail struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// ListItem is the list representation of a workout. Details are ordered as
// distance, duration, derived metric, variant metric.
type ListItem struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Details     []Detail `json:"details"`
}

// PopupOptions mirror the map popup settings used for workout markers.
type PopupOptions struct {
	MaxWidth     int    `json:"max_width"`
	MinWidth     int    `json:"min_width"`
	AutoClose    bool   `json:"auto_close"`
	CloseOnClick bool   `json:"close_on_click"`
	ClassName    string `json:"class_name"`
}

// Marker is a map marker with its popup.
type Marker struct {
	WorkoutID string             `json:"workout_id"`
	Position  domain.Coordinates `json:"position"`
	Popup     string             `json:"popup"`
	Options   PopupOptions       `json:"options"`
}

// Field describes the variant-specific form field shown for a type.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// Icon returns the emoji for a workout type.
func Icon(kind domain.Kind) string {
	if kind == domain.KindRunning {
		return iconRunning
	}
	return iconCycling
}

// OneDecimal formats a derived metric for display.
func OneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// MetricField returns the form field that replaces the other one when the
// type selector changes.
func MetricField(kind domain.Kind) Field {
	if kind == domain.KindRunning {
		return Field{Name: "cadence", Label: "Cadence", Unit: "step/min"}
	}
	return Field{Name: "elevation", Label: "Elev Gain", Unit: "meters"}
}

// ListItemFor builds the list view of a workout.
func ListItemFor(w domain.Workout) ListItem {
	item := ListItem{
		ID:          w.ID,
		Type:        string(w.Kind),
		Description: w.Description,
		Icon:        Icon(w.Kind),
		Details: []Detail{
			{Icon: Icon(w.Kind), Value: plain(w.DistanceKm), Unit: "km"},
			{Icon: iconDuration, Value: plain(w.DurationMin), Unit: "min"},
		},
	}

	switch {
	case w.Running != nil:
		item.Details = append(item.Details,
			Detail{Icon: iconSpeed, Value: OneDecimal(w.Running.PaceMinPerKm), Unit: "min/km"},
			Detail{Icon: iconCadence, Value: strconv.Itoa(w.Running.CadenceSpm), Unit: "spm"},
		)
	case w.Cycling != nil:
		item.Details = append(item.Details,
			Detail{Icon: iconSpeed, Value: OneDecimal(w.Cycling.SpeedKmPerH), Unit: "km/h"},
			Detail{Icon: iconClimb, Value: plain(w.Cycling.ElevationGainM), Unit: "m"},
		)
	}
	return item
}

// MarkerFor builds the marker and popup of a workout.
func MarkerFor(w domain.Workout) Marker {
	return Marker{
		WorkoutID: w.ID,
		Position:  w.Coordinates,
		Popup:     Icon(w.Kind) + " " + w.Description,
		Options: PopupOptions{
			MaxWidth:     250,
			MinWidth:     100,
			AutoClose:    false,
			CloseOnClick: false,
			ClassName:    string(w.Kind) + "-popup",
		},
	}
}

// ListItems builds list items newest first, the order the list is shown in.
func ListItems(workouts []domain.Workout) []ListItem {
	items := make([]ListItem, 0, len(workouts))
	for i := len(workouts) - 1; i >= 0; i-- {
		items = append(items, ListItemFor(workouts[i]))
	}
	return items
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package feed publishes map and list render commands to Kafka and consumes
// them on the other side.
package feed

import (
	"time"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/present"
)

// Event types carried in the event_type header.
const (
	EventMarkerRender = "marker.render"
	EventMapCenter    = "map.center"
	EventListRender   = "list.render"
)

// DefaultTopic is the topic used when none is configured.
const DefaultTopic = "workout_display"

// MarkerRender asks the map to draw a workout marker.
type MarkerRender struct {
	Marker     present.Marker `json:"marker"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// MapCenter asks the map to move its view.
type MapCenter struct {
	Position      domain.Coordinates `json:"position"`
	Zoom          int                `json:"zoom"`
	Animate       bool               `json:"animate"`
	PanDurationMS int64              `json:"pan_duration_ms"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// ListRender asks the list to show a workout.
type ListRender struct {
	Item       present.ListItem `json:"item"`
	OccurredAt time.Time        `json:"occurred_at"`
}

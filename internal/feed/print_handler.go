package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"example.com/workoutlog/internal/present"
)

// PrintHandler writes each feed event to w as one line of text.
type PrintHandler struct {
	w io.Writer
}

// NewPrintHandler constructs a PrintHandler.
func NewPrintHandler(w io.Writer) *PrintHandler {
	return &PrintHandler{w: w}
}

// Handle decodes the payload for the event type and prints it. Unknown event
// types are reported as errors so the record stays uncommitted.
func (h *PrintHandler) Handle(_ context.Context, msg Message) error {
	var line string
	switch msg.EventType {
	case EventMarkerRender:
		var evt MarkerRender
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		line = fmt.Sprintf("marker  %s @ %.5f, %.5f", evt.Marker.Popup, evt.Marker.Position.Lat, evt.Marker.Position.Lng)
	case EventMapCenter:
		var evt MapCenter
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		line = fmt.Sprintf("view    %.5f, %.5f zoom=%d", evt.Position.Lat, evt.Position.Lng, evt.Zoom)
	case EventListRender:
		var evt ListRender
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		line = present.FormatLine(evt.Item)
	default:
		return fmt.Errorf("unknown event type %q", msg.EventType)
	}

	_, err := fmt.Fprintln(h.w, line)
	return err
}

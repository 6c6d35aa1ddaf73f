package present

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"example.com/workoutlog/internal/domain"
)

// Console renders map and list output as text lines. It satisfies
// domain.MapDisplay and domain.ListRenderer for terminals and local runs.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole writes rendered output to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// RenderMarker prints the marker popup and position.
func (c *Console) RenderMarker(_ context.Context, workout domain.Workout) error {
	m := MarkerFor(workout)
	return c.printf("marker  %s @ %.5f, %.5f\n", m.Popup, m.Position.Lat, m.Position.Lng)
}

// CenterOn prints the new map view.
func (c *Console) CenterOn(_ context.Context, coords domain.Coordinates, opts domain.ViewOptions) error {
	return c.printf("view    %.5f, %.5f zoom=%d\n", coords.Lat, coords.Lng, opts.Zoom)
}

// RenderListItem prints one list line.
func (c *Console) RenderListItem(_ context.Context, workout domain.Workout) error {
	return c.printf("%s\n", FormatLine(ListItemFor(workout)))
}

// FormatLine renders a list item on a single line.
func FormatLine(item ListItem) string {
	parts := make([]string, 0, len(item.Details))
	for _, d := range item.Details {
		parts = append(parts, fmt.Sprintf("%s %s %s", d.Icon, d.Value, d.Unit))
	}
	return fmt.Sprintf("[%s] %s  %s", item.ID, item.Description, strings.Join(parts, "  "))
}

func (c *Console) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, format, args...)
	return err
}

// Package api exposes HTTP handlers for the workout log.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/present"
)

// Handler coordinates HTTP requests with the log controller.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/session/location", h.location)
	mux.HandleFunc("/v1/form/fields", h.formFields)
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) location(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeWorkoutsWrite) {
			return
		}
		var req domain.Coordinates
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := h.service.CaptureLocation(req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}
		h.writeSession(w, http.StatusOK)
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeWorkoutsRead) {
			return
		}
		h.writeSession(w, http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) formFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeWorkoutsRead) {
		return
	}
	kind, err := domain.ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, present.MetricField(kind))
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	case http.MethodDelete:
		h.clearWorkouts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}
	if action != "select" {
		writeError(w, http.StatusNotFound, "not_found", "unknown workout action")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	// Selecting bumps the click counter.
	if !requireScope(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	coords, err := h.service.SelectWorkout(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SelectWorkoutResponse{WorkoutID: id, Coordinates: coords})
}

func (h *Handler) submitWorkout(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	var req SubmitWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	workout, err := h.service.SubmitForm(r.Context(), req.FormInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPendingLocation):
			writeError(w, http.StatusConflict, "no_location", "click a location on the map first")
		case errors.Is(err, domain.ErrInvalidWorkoutInput):
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, WorkoutResponse{
		Item:   present.ListItemFor(workout),
		Marker: present.MarkerFor(workout),
	})
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeWorkoutsRead) {
		return
	}
	workouts := h.service.Workouts()
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		writeHTMLList(w, present.ListItems(workouts))
		return
	}
	markers := make([]present.Marker, 0, len(workouts))
	for _, wk := range workouts {
		markers = append(markers, present.MarkerFor(wk))
	}
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Items:   present.ListItems(workouts),
		Markers: markers,
	})
}

func (h *Handler) clearWorkouts(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeWorkoutsWrite) {
		return
	}
	if err := h.service.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_unavailable", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSession(w http.ResponseWriter, status int) {
	state, coords := h.service.State()
	writeJSON(w, status, SessionResponse{State: string(state), Location: coords})
}

// SubmitWorkoutRequest mirrors the workout form. Numbers arrive as the raw
// text typed into the form; only the metric field matching the type is read.
type SubmitWorkoutRequest struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// FormInput maps the request onto the controller input.
func (r SubmitWorkoutRequest) FormInput() domain.FormInput {
	metric := r.Elevation
	if strings.EqualFold(strings.TrimSpace(r.Type), string(domain.KindRunning)) {
		metric = r.Cadence
	}
	return domain.FormInput{
		Type:     r.Type,
		Distance: r.Distance,
		Duration: r.Duration,
		Metric:   metric,
	}
}

// WorkoutResponse describes a freshly recorded workout.
type WorkoutResponse struct {
	Item   present.ListItem `json:"item"`
	Marker present.Marker   `json:"marker"`
}

// ListWorkoutsResponse packages the log, newest item first.
type ListWorkoutsResponse struct {
	Items   []present.ListItem `json:"items"`
	Markers []present.Marker   `json:"markers"`
}

// SelectWorkoutResponse carries the position to pan to.
type SelectWorkoutResponse struct {
	WorkoutID   string             `json:"workout_id"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// SessionResponse describes the pending entry.
type SessionResponse struct {
	State    string              `json:"state"`
	Location *domain.Coordinates `json:"location,omitempty"`
}

func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(scope) && !(scope == auth.ScopeWorkoutsRead && claims.HasScope(auth.ScopeWorkoutsWrite)) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

// writeHTMLList renders the list as the markup the workout sidebar expects.
func writeHTMLList(w http.ResponseWriter, items []present.ListItem) {
	var buf bytes.Buffer
	buf.WriteString("<ul class=\"workouts\">\n")
	for _, item := range items {
		if err := present.WriteHTML(&buf, item); err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
	}
	buf.WriteString("</ul>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

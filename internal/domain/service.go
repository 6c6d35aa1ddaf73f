// Package domain defines the workout model and the log controller.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"example.com/workoutlog/internal/observability"
)

var (
	// ErrInvalidWorkoutInput is returned when form input fails validation.
	ErrInvalidWorkoutInput = errors.New("invalid workout input")
	// ErrWorkoutNotFound is returned when no workout matches an id.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrPersistenceUnavailable wraps failures of the key-value store.
	ErrPersistenceUnavailable = errors.New("workout persistence unavailable")
	// ErrLocationUnavailable is returned by a Locator that cannot produce a position.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrNoPendingLocation is returned when a form is submitted before a map click.
	ErrNoPendingLocation = errors.New("no location selected")
)

// DefaultZoom is the map zoom used for the initial view and for selections.
const DefaultZoom = 13

// KeyValueStore is the persistence collaborator. Get reports false for a
// missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ViewOptions describes how the map should move to a position.
type ViewOptions struct {
	Zoom        int
	Animate     bool
	PanDuration time.Duration
}

// MapDisplay is the map collaborator.
type MapDisplay interface {
	RenderMarker(ctx context.Context, workout Workout) error
	CenterOn(ctx context.Context, coords Coordinates, opts ViewOptions) error
}

// ListRenderer is the presentation collaborator for the workout list.
type ListRenderer interface {
	RenderListItem(ctx context.Context, workout Workout) error
}

// Locator supplies the initial map position once at startup.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// EntryState tracks the single pending entry.
type EntryState string

const (
	StateAwaitingLocation       EntryState = "awaiting_location"
	StateAwaitingFormSubmission EntryState = "awaiting_form_submission"
	StateRecorded               EntryState = "recorded"
)

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithLogger overrides the logger used to report collaborator failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithViewOptions overrides the zoom and pan used when centring the map.
func WithViewOptions(opts ViewOptions) Option {
	return func(s *Service) {
		s.view = opts
	}
}

// StartupRenderer is implemented by display collaborators that can take the
// whole startup render in one call. center is nil when no position is known.
type StartupRenderer interface {
	RenderStartup(ctx context.Context, workouts []Workout, center *Coordinates, opts ViewOptions) error
}

// WithStartupRenderer delivers the startup render through r instead of one
// collaborator call per workout.
func WithStartupRenderer(r StartupRenderer) Option {
	return func(s *Service) {
		s.startup = r
	}
}

// Service owns the workout log for one session and mediates between form
// input, the render collaborators and persistence. Collaborators are called
// without the log lock held.
type Service struct {
	store   KeyValueStore
	display MapDisplay
	list    ListRenderer
	startup StartupRenderer
	logger  *log.Logger
	now     func() time.Time
	view    ViewOptions

	mu       sync.Mutex
	workouts []Workout
	state    EntryState
	pending  *Coordinates
	version  uint64

	// persistMu orders store writes; persisted is the newest version written.
	persistMu sync.Mutex
	persisted uint64
}

// snapshot is an encoded copy of the log taken under the log lock.
type snapshot struct {
	version uint64
	blob    string
	err     error
}

// NewService constructs a Service with an empty log.
func NewService(store KeyValueStore, display MapDisplay, list ListRenderer, opts ...Option) *Service {
	s := &Service{
		store:   store,
		display: display,
		list:    list,
		logger:  log.New(log.Writer(), "[workouts] ", log.LstdFlags|log.Lshortfile),
		now:     time.Now,
		view:    ViewOptions{Zoom: DefaultZoom, Animate: true, PanDuration: time.Second},
		state:   StateAwaitingLocation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start rehydrates the log from the store and renders every entry in the
// list. When the locator yields a position the map is centred on it and a
// marker is rendered per entry; otherwise markers are skipped and the
// location error is returned after the log has been loaded.
func (s *Service) Start(ctx context.Context, locator Locator) error {
	if err := s.LoadFromStore(ctx); err != nil {
		return err
	}
	workouts := s.Workouts()

	var locErr error
	var center *Coordinates
	if locator == nil {
		locErr = ErrLocationUnavailable
	} else if coords, err := locator.Locate(ctx); err != nil {
		s.logger.Printf("couldn't get your position: %v", err)
		locErr = err
		if !errors.Is(err, ErrLocationUnavailable) {
			locErr = fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
		}
	} else {
		center = &coords
	}

	if s.startup != nil {
		if err := s.startup.RenderStartup(ctx, workouts, center, ViewOptions{Zoom: s.view.Zoom}); err != nil {
			s.logger.Printf("startup render failed: %v", err)
		}
		return locErr
	}

	for _, w := range workouts {
		if err := s.list.RenderListItem(ctx, w); err != nil {
			s.logger.Printf("list render failed (id=%s): %v", w.ID, err)
		}
	}
	if center == nil {
		return locErr
	}
	if err := s.display.CenterOn(ctx, *center, ViewOptions{Zoom: s.view.Zoom}); err != nil {
		s.logger.Printf("initial view failed: %v", err)
	}
	for _, w := range workouts {
		if err := s.display.RenderMarker(ctx, w); err != nil {
			s.logger.Printf("marker render failed (id=%s): %v", w.ID, err)
		}
	}
	return nil
}

// CaptureLocation records a map click and opens the form. A second click
// before submission replaces the pending location.
func (s *Service) CaptureLocation(coords Coordinates) error {
	if err := coords.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &coords
	s.state = StateAwaitingFormSubmission
	return nil
}

// State reports the pending entry state and, when a click is captured, its location.
func (s *Service) State() (EntryState, *Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return s.state, nil
	}
	coords := *s.pending
	return s.state, &coords
}

// SubmitForm records a workout at the pending location. Invalid input leaves
// the form open with the location still pending.
func (s *Service) SubmitForm(ctx context.Context, input FormInput) (Workout, error) {
	s.mu.Lock()
	if s.pending == nil || s.state != StateAwaitingFormSubmission {
		s.mu.Unlock()
		return Workout{}, ErrNoPendingLocation
	}
	w, snap, err := s.appendLocked(input, *s.pending)
	if err == nil {
		s.pending = nil
		s.state = StateRecorded
	}
	s.mu.Unlock()

	if err != nil {
		return Workout{}, err
	}
	s.publish(ctx, w, snap)
	return w, nil
}

// RecordWorkoutFromInput validates the form, appends the workout, renders it
// and persists the log. On invalid input nothing is mutated, rendered or
// persisted and the returned error wraps ErrInvalidWorkoutInput. A
// persistence failure does not undo the append; it is logged and counted.
func (s *Service) RecordWorkoutFromInput(ctx context.Context, input FormInput, coords Coordinates) (Workout, error) {
	s.mu.Lock()
	w, snap, err := s.appendLocked(input, coords)
	s.mu.Unlock()

	if err != nil {
		return Workout{}, err
	}
	s.publish(ctx, w, snap)
	return w, nil
}

// appendLocked validates and appends a workout. s.mu must be held.
func (s *Service) appendLocked(input FormInput, coords Coordinates) (Workout, snapshot, error) {
	w, err := input.build(coords, s.now())
	if err != nil {
		observability.RecordValidationFailure(input.Type)
		return Workout{}, snapshot{}, err
	}

	s.workouts = append(s.workouts, w)
	observability.RecordWorkoutRecorded(string(w.Kind), w.CreatedAt)
	return w.clone(), s.snapshotLocked(), nil
}

// publish renders a freshly recorded workout and writes the snapshot.
func (s *Service) publish(ctx context.Context, w Workout, snap snapshot) {
	if err := s.display.RenderMarker(ctx, w); err != nil {
		s.logger.Printf("marker render failed (id=%s): %v", w.ID, err)
	}
	if err := s.list.RenderListItem(ctx, w); err != nil {
		s.logger.Printf("list render failed (id=%s): %v", w.ID, err)
	}
	if err := s.write(ctx, snap); err != nil {
		s.logger.Printf("persist failed after recording %s: %v", w.ID, err)
	}
}

// SelectWorkout returns the coordinates of the workout with the given id,
// bumps its click counter and asks the map to pan there. The counter is
// written with the next persisted snapshot.
func (s *Service) SelectWorkout(ctx context.Context, id string) (Coordinates, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return Coordinates{}, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	s.workouts[idx].Clicks++
	s.version++
	coords := s.workouts[idx].Coordinates
	s.mu.Unlock()

	observability.RecordSelection()
	if err := s.display.CenterOn(ctx, coords, s.view); err != nil {
		s.logger.Printf("center failed (id=%s): %v", id, err)
	}
	return coords, nil
}

// Persist writes the current log to the store.
func (s *Service) Persist(ctx context.Context) error {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return s.write(ctx, snap)
}

// LoadFromPersistence replaces the log with the decoded blob. A blob that is
// not a JSON array leaves the log unchanged; invalid individual records are
// dropped and logged.
func (s *Service) LoadFromPersistence(serialized string) error {
	workouts, err := DecodeLog(serialized)
	if err != nil {
		if errors.Is(err, ErrCorruptLog) {
			return err
		}
		s.logger.Printf("skipped stored workouts: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = workouts
	s.version++
	return nil
}

// LoadFromStore reads the stored blob and loads it. A missing key is an empty log.
func (s *Service) LoadFromStore(ctx context.Context) error {
	blob, ok, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		observability.RecordPersistenceError("get")
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if !ok {
		blob = ""
	}
	return s.LoadFromPersistence(blob)
}

// ClearAll empties the log and erases the stored key. The in-memory log is
// cleared even when the store fails.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.workouts = nil
	s.pending = nil
	s.state = StateAwaitingLocation
	s.version++
	version := s.version
	s.mu.Unlock()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.store.Delete(ctx, StorageKey); err != nil {
		observability.RecordPersistenceError("delete")
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if version > s.persisted {
		s.persisted = version
	}
	return nil
}

// Workouts returns a copy of the log in insertion order.
func (s *Service) Workouts() []Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.clone()
	}
	return out
}

// Serialize encodes the current log in the persisted format.
func (s *Service) Serialize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeLog(s.workouts)
}

// snapshotLocked encodes the log under a new version. s.mu must be held.
func (s *Service) snapshotLocked() snapshot {
	s.version++
	blob, err := EncodeLog(s.workouts)
	return snapshot{version: s.version, blob: blob, err: err}
}

// write stores snap unless a newer snapshot has already been written.
func (s *Service) write(ctx context.Context, snap snapshot) error {
	if snap.err != nil {
		return snap.err
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if snap.version <= s.persisted {
		return nil
	}
	if err := s.store.Set(ctx, StorageKey, snap.blob); err != nil {
		observability.RecordPersistenceError("set")
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	s.persisted = snap.version
	return nil
}

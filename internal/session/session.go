// Package session owns the state of one counting session: the event log, the
// active settings and the counting system registry. Statistics are always
// recomputed from that state, never stored.
package session

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/stacktrace/internal/analytics"
	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/counting"
	"github.com/lox/stacktrace/internal/eventlog"
	"github.com/lox/stacktrace/internal/randutil"
)

// Snapshot is a consistent view of the session at one point in time
type Snapshot struct {
	Settings    config.Settings  `json:"settings"`
	System      SystemInfo       `json:"system"`
	LastEventID string           `json:"lastEventId"`
	Events      []eventlog.Event `json:"events"`
	State       analytics.State  `json:"state"`
}

// SystemInfo describes the active counting system
type SystemInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Balanced    bool    `json:"balanced"`
	Level       float64 `json:"level"`
}

// Listener is notified with a fresh snapshot after every change
type Listener func(Snapshot)

// Session is safe for concurrent use. Mutations are exclusive; snapshots may
// run concurrently with each other. Each mutation and the delivery of its
// snapshot to listeners happen under notifyMu, so listeners see snapshots in
// mutation order.
type Session struct {
	notifyMu  sync.Mutex
	mu        sync.RWMutex
	log       *eventlog.Log
	settings  config.Settings
	registry  *counting.Registry
	rng       *rand.Rand
	logger    *log.Logger
	listeners []Listener
}

// Option configures a Session
type Option func(*Session)

// WithEventLog replaces the event log, e.g. to inject a clock
func WithEventLog(l *eventlog.Log) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithSeed makes the simple-input rank choice deterministic
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.rng = randutil.New(seed)
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger.WithPrefix("session")
	}
}

// New creates a session with validated settings
func New(settings config.Settings, registry *counting.Registry, opts ...Option) (*Session, error) {
	if err := settings.ValidateWith(registry); err != nil {
		return nil, err
	}

	s := &Session{
		log:      eventlog.New(),
		settings: settings,
		registry: registry,
		rng:      randutil.NewUnseeded(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OnChange registers a listener. Listeners run synchronously after the
// mutation has been applied, outside the state lock, and must not mutate the
// session.
func (s *Session) OnChange(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Record appends an exact card observation
func (s *Session) Record(rank cards.Rank) (eventlog.Event, error) {
	return s.RecordLabeled(rank, "")
}

// RecordLabeled appends an observation carrying a display label
func (s *Session) RecordLabeled(rank cards.Rank, label string) (eventlog.Event, error) {
	if !rank.Valid() {
		return eventlog.Event{}, fmt.Errorf("invalid rank: %d", int(rank))
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	event := s.log.Append(rank, label)
	s.mu.Unlock()

	s.logger.Debug("Recorded card", "id", event.ID, "rank", rank, "label", label)
	s.notify()
	return event, nil
}

// RecordGroup appends an observation entered as Low, Neutral or High. A rank
// from the group is chosen at random and the event is labelled with the group.
func (s *Session) RecordGroup(group cards.Group) (eventlog.Event, error) {
	ranks := group.Ranks()
	if len(ranks) == 0 {
		return eventlog.Event{}, fmt.Errorf("invalid group: %d", int(group))
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	rank := randutil.Pick(s.rng, ranks)
	event := s.log.Append(rank, group.Label())
	s.mu.Unlock()

	s.logger.Debug("Recorded group", "id", event.ID, "group", group, "rank", rank)
	s.notify()
	return event, nil
}

// Undo removes the most recent event if its id matches. Stale ids are ignored.
func (s *Session) Undo(id string) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	removed := s.log.Undo(id)
	s.mu.Unlock()

	if !removed {
		s.logger.Debug("Ignored undo of stale event", "id", id)
		return false
	}
	s.logger.Debug("Undid card", "id", id)
	s.notify()
	return true
}

// UndoLast removes whatever event is currently at the tail
func (s *Session) UndoLast() bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	last, ok := s.log.Last()
	removed := ok && s.log.Undo(last.ID)
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// Reset starts a fresh shoe, discarding the history
func (s *Session) Reset() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.log.Clear()
	s.mu.Unlock()

	s.logger.Info("Shoe reset")
	s.notify()
}

// SetDecks changes the shoe size. The history is kept.
func (s *Session) SetDecks(decks int) error {
	return s.updateSettings(func(settings *config.Settings) {
		settings.Decks = decks
	})
}

// SetSystem changes the active counting system
func (s *Session) SetSystem(id string) error {
	return s.updateSettings(func(settings *config.Settings) {
		settings.System = id
	})
}

// NextSystem switches to the system registered after the active one
func (s *Session) NextSystem() error {
	return s.updateSettings(func(settings *config.Settings) {
		settings.System = s.registry.Next(settings.System)
	})
}

// SetInputMode changes the input mode
func (s *Session) SetInputMode(mode string) error {
	return s.updateSettings(func(settings *config.Settings) {
		settings.InputMode = mode
	})
}

// ApplySettings replaces all settings at once
func (s *Session) ApplySettings(next config.Settings) error {
	return s.updateSettings(func(settings *config.Settings) {
		*settings = next
	})
}

func (s *Session) updateSettings(mutate func(*config.Settings)) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := s.settings
	mutate(&next)
	if err := next.ValidateWith(s.registry); err != nil {
		s.mu.Unlock()
		return err
	}
	changed := next != s.settings
	s.settings = next
	s.mu.Unlock()

	if changed {
		s.logger.Info("Settings changed", "decks", next.Decks, "system", next.System, "input_mode", next.InputMode)
		s.notify()
	}
	return nil
}

// Settings returns the active settings
func (s *Session) Settings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Registry returns the counting system registry
func (s *Session) Registry() *counting.Registry {
	return s.registry
}

// Snapshot replays the history under the current settings
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	settings := s.settings
	events := s.log.Events()
	s.mu.RUnlock()

	// settings are validated on every change so the system is registered
	system, _ := s.registry.Get(settings.System)
	state, err := analytics.ComputeWith(events, settings.Analytics(), s.registry)
	if err != nil {
		s.logger.Error("Failed to compute state", "error", err)
	}

	snapshot := Snapshot{
		Settings: settings,
		System: SystemInfo{
			ID:          system.ID,
			Name:        system.Name,
			Description: system.Description,
			Balanced:    system.Balanced(),
			Level:       system.Level(),
		},
		Events: events,
		State:  state,
	}
	if n := len(events); n > 0 {
		snapshot.LastEventID = events[n-1].ID
	}
	return snapshot
}

// Observe calls fn with the current snapshot, ordered with respect to
// listener notifications: every later notification carries a newer snapshot.
// fn must not mutate the session.
func (s *Session) Observe(fn func(Snapshot)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	fn(s.Snapshot())
}

// notify must be called with notifyMu held
func (s *Session) notify() {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}

	snapshot := s.Snapshot()
	for _, listener := range listeners {
		listener(snapshot)
	}
}

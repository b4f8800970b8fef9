// Package eventlog records the cards observed during a session. The log only
// grows at the tail and only the most recent event can be undone.
package eventlog

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/stacktrace/internal/cards"
)

// Event is a single card observation. Events are never modified once appended.
type Event struct {
	ID        string     `json:"id"`
	Rank      cards.Rank `json:"rank"`
	Timestamp time.Time  `json:"timestamp"`
	Label     string     `json:"label,omitempty"`
}

// Log is an ordered sequence of events with identifier-gated tail removal
type Log struct {
	mu     sync.Mutex
	events []Event
	clock  quartz.Clock
	newID  func() string
}

// Option configures a Log
type Option func(*Log)

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) Option {
	return func(l *Log) {
		l.clock = clock
	}
}

// WithIDGenerator sets the function used to generate event identifiers
func WithIDGenerator(newID func() string) Option {
	return func(l *Log) {
		l.newID = newID
	}
}

// New creates an empty log
func New(opts ...Option) *Log {
	l := &Log{
		clock: quartz.NewReal(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a new observation at the tail of the log
func (l *Log) Append(rank cards.Rank, label string) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		ID:        l.newID(),
		Rank:      rank,
		Timestamp: l.clock.Now(),
		Label:     label,
	}
	l.events = append(l.events, event)
	return event
}

// Undo removes the last event if and only if its identifier is id. A stale or
// unknown id leaves the log untouched and reports false.
func (l *Log) Undo(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.events)
	if n == 0 || l.events[n-1].ID != id {
		return false
	}
	l.events[n-1] = Event{}
	l.events = l.events[:n-1]
	return true
}

// Clear removes every event
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// Events returns a copy of the events in insertion order
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return events
}

// Len returns the number of events
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Last returns the most recent event
func (l *Log) Last() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}

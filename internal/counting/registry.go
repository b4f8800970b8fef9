package counting

import (
	"fmt"
	"sync"

	"github.com/lox/stacktrace/internal/cards"
)

// DefaultSystemID is the system selected when none is configured
const DefaultSystemID = "hilo"

// Registry is a read-mostly table of counting systems keyed by identifier.
// Systems are validated once, when they are registered.
type Registry struct {
	mu      sync.RWMutex
	systems map[string]System
	order   []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{systems: make(map[string]System)}
}

// NewDefaultRegistry creates a registry holding the built-in systems
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, system := range Builtin() {
		r.MustRegister(system)
	}
	return r
}

// Register validates and stores a copy of the system
func (r *Registry) Register(system System) error {
	if err := system.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.systems[system.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, system.ID)
	}
	r.systems[system.ID] = system.clone()
	r.order = append(r.order, system.ID)
	return nil
}

// MustRegister registers the system and panics on a configuration error
func (r *Registry) MustRegister(system System) {
	if err := r.Register(system); err != nil {
		panic(err)
	}
}

// Lookup returns the system registered under id
func (r *Registry) Lookup(id string) (System, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	system, ok := r.systems[id]
	if !ok {
		return System{}, false
	}
	return system.clone(), true
}

// Get is Lookup returning ErrUnknownSystem for missing identifiers
func (r *Registry) Get(id string) (System, error) {
	system, ok := r.Lookup(id)
	if !ok {
		return System{}, fmt.Errorf("%w: %q", ErrUnknownSystem, id)
	}
	return system, nil
}

// IDs returns the registered identifiers in registration order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Systems returns copies of all registered systems in registration order
func (r *Registry) Systems() []System {
	r.mu.RLock()
	defer r.mu.RUnlock()
	systems := make([]System, 0, len(r.order))
	for _, id := range r.order {
		systems = append(systems, r.systems[id].clone())
	}
	return systems
}

// Next returns the identifier registered after id, wrapping around
func (r *Registry) Next(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return id
	}
	for i, candidate := range r.order {
		if candidate == id {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}

// Builtin returns the systems shipped with the trainer
func Builtin() []System {
	return []System{
		{
			ID:          "hilo",
			Name:        "Hi-Lo",
			Description: "The most popular balanced system. Good balance of ease and accuracy.",
			Weights: map[cards.Rank]float64{
				cards.Two: 1, cards.Three: 1, cards.Four: 1, cards.Five: 1, cards.Six: 1,
				cards.Seven: 0, cards.Eight: 0, cards.Nine: 0,
				cards.Ten: -1, cards.Jack: -1, cards.Queen: -1, cards.King: -1, cards.Ace: -1,
			},
		},
		{
			ID:          "zen",
			Name:        "Zen Count",
			Description: "An advanced multi-level balanced system for higher accuracy.",
			Weights: map[cards.Rank]float64{
				cards.Two: 1, cards.Three: 1, cards.Four: 2, cards.Five: 2, cards.Six: 2,
				cards.Seven: 1, cards.Eight: 0, cards.Nine: 0,
				cards.Ten: -2, cards.Jack: -2, cards.Queen: -2, cards.King: -2, cards.Ace: -1,
			},
		},
		{
			ID:          "halves",
			Name:        "Wong Halves",
			Description: "A complex, high-precision system using fractional values.",
			Weights: map[cards.Rank]float64{
				cards.Two: 0.5, cards.Three: 1, cards.Four: 1, cards.Five: 1.5, cards.Six: 1,
				cards.Seven: 0.5, cards.Eight: 0, cards.Nine: -0.5,
				cards.Ten: -1, cards.Jack: -1, cards.Queen: -1, cards.King: -1, cards.Ace: -1,
			},
		},
	}
}

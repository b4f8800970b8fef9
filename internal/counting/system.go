// Package counting holds the card-counting systems and the registry they
// are selected from.
package counting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lox/stacktrace/internal/cards"
)

var (
	// ErrUnknownSystem is returned when a system identifier is not registered
	ErrUnknownSystem = errors.New("unknown counting system")

	// ErrDuplicateSystem is returned when an identifier is registered twice
	ErrDuplicateSystem = errors.New("counting system already registered")

	// ErrIncompleteSystem is returned when a system lacks a weight for a rank
	ErrIncompleteSystem = errors.New("counting system is missing weights")
)

// System maps every rank to a signed weight
type System struct {
	ID          string
	Name        string
	Description string
	Weights     map[cards.Rank]float64
}

// Validate checks that the system has an identifier and a weight for all 13 ranks
func (s System) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("counting system id is required")
	}

	var missing []string
	for _, rank := range cards.Ranks() {
		if _, ok := s.Weights[rank]; !ok {
			missing = append(missing, rank.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s lacks %s", ErrIncompleteSystem, s.ID, strings.Join(missing, ", "))
	}

	for rank, weight := range s.Weights {
		if !rank.Valid() {
			return fmt.Errorf("counting system %s has weight for invalid rank %d", s.ID, int(rank))
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("counting system %s has non-finite weight for %s", s.ID, rank)
		}
	}

	return nil
}

// Weight returns the weight applied when a card of the given rank is seen
func (s System) Weight(rank cards.Rank) float64 {
	return s.Weights[rank]
}

// Sign returns +1, 0 or -1 depending on the weight of the rank
func (s System) Sign(rank cards.Rank) int {
	switch w := s.Weight(rank); {
	case w > 0:
		return 1
	case w < 0:
		return -1
	default:
		return 0
	}
}

// DeckSum returns the running count after a full 52-card deck
func (s System) DeckSum() float64 {
	sum := 0.0
	for _, rank := range cards.Ranks() {
		sum += s.Weight(rank) * cards.PerDeck
	}
	return sum
}

// Balanced reports whether a full deck counts back to zero
func (s System) Balanced() bool {
	return math.Abs(s.DeckSum()) < 1e-9
}

// Level returns the largest absolute weight, the conventional "level" of a system
func (s System) Level() float64 {
	level := 0.0
	for _, weight := range s.Weights {
		level = math.Max(level, math.Abs(weight))
	}
	return level
}

// clone returns a copy whose weight table is not shared with s
func (s System) clone() System {
	weights := make(map[cards.Rank]float64, len(s.Weights))
	for rank, weight := range s.Weights {
		weights[rank] = weight
	}
	s.Weights = weights
	return s
}

// WeightsFromLabels builds a weight table from rank labels, as read from config files
func WeightsFromLabels(labels map[string]float64) (map[cards.Rank]float64, error) {
	weights := make(map[cards.Rank]float64, len(labels))
	for label, weight := range labels {
		rank, err := cards.ParseRank(label)
		if err != nil {
			return nil, err
		}
		if _, dup := weights[rank]; dup {
			return nil, fmt.Errorf("duplicate weight for rank %s", rank)
		}
		weights[rank] = weight
	}
	return weights, nil
}

package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/lox/stacktrace/internal/cards"
)

// Composition is the number of unseen cards of each rank left in the shoe
type Composition [cards.NumRanks]int

// NewComposition returns the composition of a full shoe
func NewComposition(decks int) Composition {
	var c Composition
	for i := range c {
		c[i] = cards.PerDeck * decks
	}
	return c
}

// remove takes one card of the rank out of the shoe, never going below zero
func (c *Composition) remove(rank cards.Rank) {
	if !rank.Valid() {
		return
	}
	if c[rank] > 0 {
		c[rank]--
	}
}

// Count returns the remaining cards of a rank
func (c Composition) Count(rank cards.Rank) int {
	if !rank.Valid() {
		return 0
	}
	return c[rank]
}

// Total returns the number of cards accounted for by the composition
func (c Composition) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probability returns the percentage of the remaining cards that are of the
// given rank, rounded to one decimal
func (c Composition) Probability(rank cards.Rank, cardsRemaining int) float64 {
	if cardsRemaining <= 0 {
		return 0
	}
	return round(float64(c.Count(rank))/float64(cardsRemaining)*100, 1)
}

// MarshalJSON encodes the composition as an object keyed by rank label
func (c Composition) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, cards.NumRanks)
	for _, rank := range cards.Ranks() {
		m[rank.String()] = c[rank]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by rank label
func (c *Composition) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Composition
	for label, n := range m {
		rank, err := cards.ParseRank(label)
		if err != nil {
			return fmt.Errorf("composition: %w", err)
		}
		out[rank] = n
	}
	*c = out
	return nil
}

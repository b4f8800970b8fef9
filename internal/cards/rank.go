// Package cards defines the card ranks observed at a blackjack table and the
// coarse groups used by the simple input mode.
package cards

import (
	"fmt"
	"strings"
)

// Rank represents a card rank. Suits are irrelevant for counting.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks in a deck
const NumRanks = 13

// PerDeck is the number of cards of each rank in one 52-card deck
const PerDeck = 4

// DeckSize is the number of cards in a single deck
const DeckSize = NumRanks * PerDeck

var labels = [NumRanks]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Ranks returns all ranks in display order (2 through A)
func Ranks() []Rank {
	ranks := make([]Rank, NumRanks)
	for i := range ranks {
		ranks[i] = Rank(i)
	}
	return ranks
}

// Valid reports whether r is one of the 13 ranks
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// String returns the display label of the rank ("2" .. "10", "J", "Q", "K", "A")
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return labels[r]
}

// ParseRank parses a rank label. Labels are case-insensitive and "T" or "0"
// may be used for ten.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T", "0":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("invalid rank: %q", s)
}

// ParseRanks parses a whitespace or comma separated list of rank labels
func ParseRanks(s string) ([]Rank, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	ranks := make([]Rank, 0, len(fields))
	for _, field := range fields {
		rank, err := ParseRank(field)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, rank)
	}
	return ranks, nil
}

// MarshalText encodes the rank as its display label
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank: %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank label
func (r *Rank) UnmarshalText(text []byte) error {
	rank, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = rank
	return nil
}

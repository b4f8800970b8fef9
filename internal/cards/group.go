package cards

import (
	"fmt"
	"strings"
)

// Group is a coarse bucket of ranks used when the exact card is not entered
type Group int

const (
	Low Group = iota
	Neutral
	High
)

// Groups returns the groups in display order
func Groups() []Group {
	return []Group{Low, Neutral, High}
}

// Ranks returns the ranks that belong to the group
func (g Group) Ranks() []Rank {
	switch g {
	case Low:
		return []Rank{Two, Three, Four, Five, Six}
	case Neutral:
		return []Rank{Seven, Eight, Nine}
	case High:
		return []Rank{Ten, Jack, Queen, King, Ace}
	default:
		return nil
	}
}

// Label returns the label recorded on events entered through the group
func (g Group) Label() string {
	switch g {
	case Low:
		return "Low"
	case Neutral:
		return "Neutral"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// Span returns the rank range of the group, e.g. "2-6"
func (g Group) Span() string {
	ranks := g.Ranks()
	if len(ranks) == 0 {
		return ""
	}
	return ranks[0].String() + "-" + ranks[len(ranks)-1].String()
}

func (g Group) String() string {
	return g.Label()
}

// GroupOf returns the group a rank belongs to
func GroupOf(r Rank) Group {
	switch {
	case r <= Six:
		return Low
	case r <= Nine:
		return Neutral
	default:
		return High
	}
}

// ParseGroup parses a group name ("low", "neutral", "high" or "l", "n", "h")
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return Low, nil
	case "neutral", "n":
		return Neutral, nil
	case "high", "h":
		return High, nil
	}
	return 0, fmt.Errorf("invalid group: %q", s)
}

// MarshalText encodes the group as its lower-case name
func (g Group) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(g.Label())), nil
}

// UnmarshalText decodes a group name
func (g *Group) UnmarshalText(text []byte) error {
	group, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = group
	return nil
}

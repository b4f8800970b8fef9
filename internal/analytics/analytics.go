// Package analytics derives shoe and count statistics by replaying an event
// log. Every result is a pure function of the history, the deck count and
// the counting system.
package analytics

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/counting"
	"github.com/lox/stacktrace/internal/eventlog"
)

const (
	// pointMinDecks clamps decks remaining for the charted history series
	pointMinDecks = 0.01

	// finalMinDecks clamps decks remaining for the headline snapshot
	finalMinDecks = 0.001

	// advantagePerTrueCount is the approximate player edge, in percent, per
	// point of true count
	advantagePerTrueCount = 0.5

	historyTimeFormat = "15:04:05"
)

// Settings are the engine inputs besides the history itself
type Settings struct {
	Decks    int    `json:"decks"`
	SystemID string `json:"systemId"`
}

// HistoryPoint is one sample of the count series, taken after each card
type HistoryPoint struct {
	Time         string  `json:"time"`
	RunningCount float64 `json:"rc"`
	TrueCount    float64 `json:"tc"`
}

// State is the snapshot derived from a replay
type State struct {
	RunningCount   float64        `json:"runningCount"`
	TrueCount      float64        `json:"trueCount"`
	CardsSeen      int            `json:"cardsSeen"`
	CardsRemaining int            `json:"cardsRemaining"`
	DecksRemaining float64        `json:"decksRemaining"`
	Penetration    float64        `json:"penetration"`
	Advantage      float64        `json:"advantage"`
	History        []HistoryPoint `json:"historyPoints"`
	Composition    Composition    `json:"composition"`
}

// Compute replays history against a shoe of the given number of decks.
// It never fails: over-observed ranks floor at zero and both decks-remaining
// divisors are clamped above zero. Non-positive deck counts are not rejected
// here and produce a degenerate, fully clamped result.
func Compute(history []eventlog.Event, decks int, system counting.System) State {
	totalCards := decks * cards.DeckSize
	composition := NewComposition(decks)

	runningCount := 0.0
	points := make([]HistoryPoint, 0, len(history))

	for i, event := range history {
		runningCount += system.Weight(event.Rank)
		composition.remove(event.Rank)

		cardsSeenSoFar := i + 1
		decksRemaining := math.Max(pointMinDecks, float64(totalCards-cardsSeenSoFar)/cards.DeckSize)

		points = append(points, HistoryPoint{
			Time:         event.Timestamp.Format(historyTimeFormat),
			RunningCount: runningCount,
			TrueCount:    round(runningCount/decksRemaining, 2),
		})
	}

	cardsSeen := len(history)
	cardsRemaining := totalCards - cardsSeen

	decksRemaining := math.Max(finalMinDecks, float64(cardsRemaining)/cards.DeckSize)
	trueCount := runningCount / decksRemaining
	advantage := trueCount * advantagePerTrueCount

	penetration := 0.0
	if totalCards > 0 {
		penetration = float64(cardsSeen) / float64(totalCards) * 100
	}

	return State{
		RunningCount:   round(runningCount, 1),
		TrueCount:      round(trueCount, 2),
		CardsSeen:      cardsSeen,
		CardsRemaining: cardsRemaining,
		DecksRemaining: round(decksRemaining, 3),
		Penetration:    round(penetration, 1),
		Advantage:      round(advantage, 2),
		History:        points,
		Composition:    composition,
	}
}

// ComputeWith resolves the counting system from the registry before replaying
func ComputeWith(history []eventlog.Event, settings Settings, registry *counting.Registry) (State, error) {
	system, err := registry.Get(settings.SystemID)
	if err != nil {
		return State{}, fmt.Errorf("compute state: %w", err)
	}
	return Compute(history, settings.Decks, system), nil
}

// Signal classifies the true count the way the dashboard colours it
type Signal int

const (
	Neutral Signal = iota
	Favorable
	Unfavorable
)

func (s Signal) String() string {
	switch s {
	case Favorable:
		return "favorable"
	case Unfavorable:
		return "unfavorable"
	default:
		return "neutral"
	}
}

// Signal reports whether the true count favours the player
func (s State) Signal() Signal {
	switch {
	case s.TrueCount >= 1:
		return Favorable
	case s.TrueCount <= -1:
		return Unfavorable
	default:
		return Neutral
	}
}

// roundPrec is wide enough to hold any float64 scaled by a small power of ten
// exactly, plus the half added before truncation.
const roundPrec = 2048

// round rounds the exact binary value of x half away from zero to the given
// number of decimal places, so 0.97499999999999998 becomes 0.97.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	scaled := new(big.Float).SetPrec(roundPrec).SetFloat64(x)
	scaled.Mul(scaled, new(big.Float).SetPrec(roundPrec).SetInt(scale))

	half := big.NewFloat(0.5)
	if scaled.Sign() < 0 {
		scaled.Sub(scaled, half)
	} else {
		scaled.Add(scaled, half)
	}
	digits, _ := scaled.Int(nil) // truncates toward zero

	r, err := strconv.ParseFloat(digits.String()+"e-"+strconv.Itoa(places), 64)
	if err != nil || r == 0 {
		return 0 // no negative zero
	}
	return r
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/stacktrace/cmd/stacktrace/shared"
	"github.com/lox/stacktrace/internal/session"
)

// ReplayCmd computes the statistics of a recorded shoe
type ReplayCmd struct {
	CardsInput
	SettingsFlags

	JSON    bool `help:"Print the full snapshot as JSON"`
	History bool `help:"Print every count history point"`
}

func (c *ReplayCmd) Run(globals *Globals) error {
	cfg, registry, err := shared.LoadConfig(globals.Config)
	if err != nil {
		return err
	}

	ranks, err := c.ranks(os.Stdin)
	if err != nil {
		return err
	}

	snapshot, err := replaySession(ranks, c.apply(cfg.Settings), registry)
	if err != nil {
		return err
	}
	return c.write(os.Stdout, snapshot)
}

func (c *ReplayCmd) write(w io.Writer, snapshot session.Snapshot) error {
	if c.JSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}

	state := snapshot.State
	_, _ = fmt.Fprintf(w, "System:          %s (%s)\n", snapshot.System.Name, snapshot.System.ID)
	_, _ = fmt.Fprintf(w, "Decks:           %d\n", snapshot.Settings.Decks)
	_, _ = fmt.Fprintf(w, "Cards seen:      %d\n", state.CardsSeen)
	_, _ = fmt.Fprintf(w, "Cards remaining: %d\n", state.CardsRemaining)
	_, _ = fmt.Fprintf(w, "Running count:   %g\n", state.RunningCount)
	_, _ = fmt.Fprintf(w, "Decks remaining: %.3f\n", state.DecksRemaining)
	_, _ = fmt.Fprintf(w, "True count:      %.2f (%s)\n", state.TrueCount, state.Signal())
	_, _ = fmt.Fprintf(w, "Penetration:     %.1f%%\n", state.Penetration)
	_, _ = fmt.Fprintf(w, "Advantage:       %+.2f%%\n", state.Advantage)

	if c.History {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Card", "Time", "RC", "TC")
		for i, point := range state.History {
			t.Row(fmt.Sprint(i+1), snapshot.Events[i].Rank.String(), point.Time,
				fmt.Sprintf("%g", point.RunningCount), fmt.Sprintf("%.2f", point.TrueCount))
		}
		_, _ = fmt.Fprintln(w, t.Render())
	}
	return nil
}

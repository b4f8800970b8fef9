package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/counting"
	"github.com/lox/stacktrace/internal/eventlog"
	"github.com/lox/stacktrace/internal/session"
)

// CardsInput reads a sequence of ranks from arguments or a file
type CardsInput struct {
	Cards []string `arg:"" optional:"" help:"Card ranks in the order seen (2-9, 10/T/0, J, Q, K, A)"`
	File  string   `short:"f" help:"Read card ranks from a file ('-' for stdin)"`
}

func (in CardsInput) ranks(stdin io.Reader) ([]cards.Rank, error) {
	text := strings.Join(in.Cards, " ")

	if in.File != "" {
		var data []byte
		var err error
		if in.File == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(in.File)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cards: %w", err)
		}
		text += " " + string(data)
	}

	ranks, err := cards.ParseRanks(text)
	if err != nil {
		return nil, err
	}
	if len(ranks) == 0 {
		return nil, fmt.Errorf("no cards given")
	}
	return ranks, nil
}

// replaySession records ranks into a fresh session
func replaySession(ranks []cards.Rank, settings config.Settings, registry *counting.Registry, opts ...eventlog.Option) (session.Snapshot, error) {
	sess, err := session.New(settings, registry, session.WithEventLog(eventlog.New(opts...)))
	if err != nil {
		return session.Snapshot{}, err
	}
	for _, rank := range ranks {
		if _, err := sess.Record(rank); err != nil {
			return session.Snapshot{}, err
		}
	}
	return sess.Snapshot(), nil
}

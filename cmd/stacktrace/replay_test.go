package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/counting"
	"github.com/lox/stacktrace/internal/eventlog"
	"github.com/lox/stacktrace/internal/session"
)

func TestCardsInput(t *testing.T) {
	t.Run("arguments", func(t *testing.T) {
		in := CardsInput{Cards: []string{"2", "k,a", "T"}}
		ranks, err := in.ranks(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, []cards.Rank{cards.Two, cards.King, cards.Ace, cards.Ten}, ranks)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shoe.txt")
		require.NoError(t, os.WriteFile(path, []byte("5 6\n7\n"), 0o644))

		in := CardsInput{Cards: []string{"2"}, File: path}
		ranks, err := in.ranks(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, []cards.Rank{cards.Two, cards.Five, cards.Six, cards.Seven}, ranks)
	})

	t.Run("stdin", func(t *testing.T) {
		in := CardsInput{File: "-"}
		ranks, err := in.ranks(strings.NewReader("a a"))
		require.NoError(t, err)
		assert.Equal(t, []cards.Rank{cards.Ace, cards.Ace}, ranks)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := CardsInput{}.ranks(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := CardsInput{Cards: []string{"2", "x"}}.ranks(strings.NewReader(""))
		assert.ErrorContains(t, err, "invalid rank")
	})
}

func TestSettingsFlags(t *testing.T) {
	decks := 2
	settings := SettingsFlags{Decks: &decks, System: "zen"}.apply(config.DefaultSettings())
	assert.Equal(t, 2, settings.Decks)
	assert.Equal(t, "zen", settings.System)
	assert.Equal(t, config.InputDetailed, settings.InputMode)

	assert.Equal(t, config.DefaultSettings(), SettingsFlags{}.apply(config.DefaultSettings()))
}

func replayFixture(t *testing.T, ranks ...cards.Rank) session.Snapshot {
	t.Helper()
	mClock := quartz.NewMock(t)
	mClock.Set(time.Date(2025, 1, 2, 21, 15, 0, 0, time.UTC))

	snapshot, err := replaySession(ranks, config.DefaultSettings(), counting.NewDefaultRegistry(),
		eventlog.WithClock(mClock))
	require.NoError(t, err)
	return snapshot
}

func TestReplayText(t *testing.T) {
	snapshot := replayFixture(t, cards.Two, cards.Five, cards.King)

	var out bytes.Buffer
	cmd := &ReplayCmd{History: true}
	require.NoError(t, cmd.write(&out, snapshot))

	text := out.String()
	assert.Contains(t, text, "System:          Hi-Lo (hilo)")
	assert.Contains(t, text, "Cards seen:      3")
	assert.Contains(t, text, "Cards remaining: 413")
	assert.Contains(t, text, "Running count:   1")
	assert.Contains(t, text, "Penetration:     0.7%")
	assert.Contains(t, text, "21:15:00")
}

func TestReplayJSON(t *testing.T) {
	snapshot := replayFixture(t, cards.Two)

	var out bytes.Buffer
	cmd := &ReplayCmd{JSON: true}
	require.NoError(t, cmd.write(&out, snapshot))

	var decoded session.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.State.CardsSeen)
	assert.Equal(t, 1.0, decoded.State.RunningCount)
	assert.Equal(t, 0.13, decoded.State.TrueCount)
	require.Len(t, decoded.State.History, 1)
	assert.Equal(t, "21:15:00", decoded.State.History[0].Time)
}

func TestReplayRejectsUnknownSystem(t *testing.T) {
	settings := SettingsFlags{System: "omega"}.apply(config.DefaultSettings())
	_, err := replaySession([]cards.Rank{cards.Two}, settings, counting.NewDefaultRegistry())
	assert.ErrorIs(t, err, counting.ErrUnknownSystem)
}

func TestWriteSystems(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeSystems(&out, counting.NewDefaultRegistry()))

	text := out.String()
	assert.Contains(t, text, "Hi-Lo")
	assert.Contains(t, text, "Zen Count")
	assert.Contains(t, text, "Wong Halves")
	assert.Contains(t, text, "0.5")
}

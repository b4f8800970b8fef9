// Package tui is the interactive trainer: a keyboard driven dashboard over a
// counting session.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/counting"
	"github.com/lox/stacktrace/internal/session"
)

const (
	minDecks = 1
	maxDecks = 8
)

// SettingsSaver persists settings changed from the keyboard
type SettingsSaver interface {
	Save(settings config.Settings) error
}

// Model is the Bubble Tea model for the trainer
type Model struct {
	session *session.Session
	store   SettingsSaver
	logger  *log.Logger

	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	snapshot session.Snapshot
	system   counting.System

	status        string
	statusIsError bool
	showInventory bool

	width    int
	height   int
	quitting bool
}

// NewModel creates a trainer over the session. store may be nil, in which
// case settings changes only last for the session.
func NewModel(sess *session.Session, store SettingsSaver, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &Model{
		session:       sess,
		store:         store,
		logger:        logger.WithPrefix("tui"),
		keys:          defaultKeyMap(),
		help:          help.New(),
		logViewport:   vp,
		showInventory: true,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the snapshot currently on screen
func (m *Model) Snapshot() session.Snapshot {
	return m.snapshot
}

// Status returns the status line message
func (m *Model) Status() string {
	return m.status
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Inventory):
		m.showInventory = !m.showInventory

	case key.Matches(msg, m.keys.ScrollUp):
		if msg.String() == "pgup" {
			m.logViewport.HalfPageUp()
		} else {
			m.logViewport.ScrollUp(1)
		}

	case key.Matches(msg, m.keys.ScrollDn):
		if msg.String() == "pgdown" {
			m.logViewport.HalfPageDown()
		} else {
			m.logViewport.ScrollDown(1)
		}

	case key.Matches(msg, m.keys.Undo):
		m.undo()

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.setStatus("New shoe", false)

	case key.Matches(msg, m.keys.Mode):
		mode := config.InputSimple
		if m.snapshot.Settings.InputMode == config.InputSimple {
			mode = config.InputDetailed
		}
		m.changeSettings(m.session.SetInputMode(mode), "Input mode: "+mode)

	case key.Matches(msg, m.keys.System):
		err := m.session.NextSystem()
		m.refresh()
		m.changeSettings(err, "System: "+m.system.Name)

	case key.Matches(msg, m.keys.MoreDecks):
		m.adjustDecks(1)

	case key.Matches(msg, m.keys.LessDecks):
		m.adjustDecks(-1)

	case key.Matches(msg, m.keys.Cards):
		m.recordCard(msg.String())

	case key.Matches(msg, m.keys.Groups):
		m.recordGroup(msg.String())
	}

	m.refresh()
	return m, nil
}

func (m *Model) recordCard(input string) {
	if m.snapshot.Settings.InputMode == config.InputSimple {
		m.setStatus("Simple mode: use l, n or h", true)
		return
	}
	rank, err := cards.ParseRank(input)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if _, err := m.session.Record(rank); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
}

func (m *Model) recordGroup(input string) {
	if m.snapshot.Settings.InputMode != config.InputSimple {
		m.setStatus("Detailed mode: press m for simple input", true)
		return
	}
	group, err := cards.ParseGroup(input)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if _, err := m.session.RecordGroup(group); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
}

func (m *Model) undo() {
	id := m.snapshot.LastEventID
	if id == "" {
		m.setStatus("Nothing to undo", true)
		return
	}
	if !m.session.Undo(id) {
		m.setStatus("Nothing to undo", true)
		return
	}
	m.setStatus("Undone", false)
}

// adjustDecks steps the shoe size, pulling configured sizes outside the
// keyboard range back into it
func (m *Model) adjustDecks(delta int) {
	current := m.snapshot.Settings.Decks
	decks := min(max(current+delta, minDecks), maxDecks)
	if decks == current || (delta > 0 && decks < current) || (delta < 0 && decks > current) {
		m.setStatus(fmt.Sprintf("Decks must be between %d and %d", minDecks, maxDecks), true)
		return
	}
	m.changeSettings(m.session.SetDecks(decks), "")
}

// changeSettings reports the outcome of a settings change and persists it
func (m *Model) changeSettings(err error, message string) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(message, false)

	if m.store == nil {
		return
	}
	if err := m.store.Save(m.session.Settings()); err != nil {
		m.logger.Error("Failed to save settings", "error", err)
		m.setStatus("Failed to save settings: "+err.Error(), true)
	}
}

func (m *Model) setStatus(message string, isError bool) {
	m.status = message
	m.statusIsError = isError
}

// refresh re-reads the session after a change
func (m *Model) refresh() {
	m.snapshot = m.session.Snapshot()
	if system, err := m.session.Registry().Get(m.snapshot.Settings.System); err == nil {
		m.system = system
	}
	m.logViewport.SetContent(m.renderLog())
}

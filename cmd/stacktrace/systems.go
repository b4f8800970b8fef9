package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/stacktrace/cmd/stacktrace/shared"
	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/counting"
)

// SystemsCmd lists the registered counting systems
type SystemsCmd struct{}

func (c *SystemsCmd) Run(globals *Globals) error {
	_, registry, err := shared.LoadConfig(globals.Config)
	if err != nil {
		return err
	}
	return writeSystems(os.Stdout, registry)
}

func writeSystems(w io.Writer, registry *counting.Registry) error {
	headers := []string{"ID", "Name", "Level", "Balanced"}
	for _, rank := range cards.Ranks() {
		headers = append(headers, rank.String())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for _, system := range registry.Systems() {
		row := []string{
			system.ID,
			system.Name,
			strconv.FormatFloat(system.Level(), 'g', -1, 64),
			strconv.FormatBool(system.Balanced()),
		}
		for _, rank := range cards.Ranks() {
			row = append(row, strconv.FormatFloat(system.Weight(rank), 'g', -1, 64))
		}
		t.Row(row...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

package main

import (
	"bytes"
	"os"

	"github.com/lox/stacktrace/cmd/stacktrace/shared"
	"github.com/lox/stacktrace/internal/chart"
	"github.com/lox/stacktrace/internal/fileutil"
)

// ChartCmd renders a recorded shoe as an HTML page
type ChartCmd struct {
	CardsInput
	SettingsFlags

	Output string `short:"o" type:"path" default:"stacktrace.html" help:"HTML file to write"`
	Title  string `help:"Page title"`
	Theme  string `default:"dark" help:"ECharts theme"`
}

func (c *ChartCmd) Run(globals *Globals) error {
	cfg, registry, err := shared.LoadConfig(globals.Config)
	if err != nil {
		return err
	}
	logger, err := shared.SetupLogger(os.Stderr, cfg.Log.Level, globals.Debug)
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

	chartConfig := chart.DefaultConfig()
	if c.Title != "" {
		chartConfig.Title = c.Title
	}
	chartConfig.Theme = c.Theme

	var html bytes.Buffer
	if err := chart.Render(&html, snapshot.State, snapshot.System.Name, chartConfig); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomicAll(c.Output, html.Bytes(), 0o644); err != nil {
		return err
	}

	logger.Info("Wrote chart", "path", c.Output, "cards", snapshot.State.CardsSeen)
	return nil
}

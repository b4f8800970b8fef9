// Package chart renders a session's count history and remaining shoe
// composition as an interactive HTML page.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lox/stacktrace/internal/analytics"
	"github.com/lox/stacktrace/internal/cards"
)

// Config holds chart presentation options
type Config struct {
	Title  string
	Width  string
	Height string
	Theme  string
	Smooth bool
}

// DefaultConfig returns default chart configuration
func DefaultConfig() Config {
	return Config{
		Title:  "StackTrace session",
		Width:  "900px",
		Height: "420px",
		Theme:  "dark",
		Smooth: false,
	}
}

var (
	runningCountColor = "#22D3EE"
	trueCountColor    = "#A855F7"
	lowColor          = "#10B981"
	neutralColor      = "#3B82F6"
	highColor         = "#A855F7"
)

// Render writes an HTML page holding the count history line chart and the
// composition bar chart
func Render(w io.Writer, state analytics.State, systemName string, config Config) error {
	page := components.NewPage()
	page.PageTitle = config.Title
	page.AddCharts(
		countHistory(state, systemName, config),
		composition(state, config),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func globalOptions(config Config, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	}
}

func countHistory(state analytics.State, systemName string, config Config) *charts.Line {
	line := charts.NewLine()
	subtitle := fmt.Sprintf("%s · %d cards · RC %+.1f · TC %+.2f",
		systemName, state.CardsSeen, state.RunningCount, state.TrueCount)
	line.SetGlobalOptions(globalOptions(config, "Count history", subtitle)...)

	xLabels := make([]string, len(state.History))
	rc := make([]opts.LineData, len(state.History))
	tc := make([]opts.LineData, len(state.History))
	for i, point := range state.History {
		xLabels[i] = point.Time
		rc[i] = opts.LineData{Value: point.RunningCount}
		tc[i] = opts.LineData{Value: point.TrueCount}
	}

	line.SetXAxis(xLabels)
	line.AddSeries("Running Count", rc, charts.WithItemStyleOpts(opts.ItemStyle{Color: runningCountColor}))
	line.AddSeries("True Count", tc, charts.WithItemStyleOpts(opts.ItemStyle{Color: trueCountColor}))
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{
			Smooth: opts.Bool(config.Smooth),
		}),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)
	return line
}

func composition(state analytics.State, config Config) *charts.Bar {
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("%d cards remaining · %.1f%% penetration", state.CardsRemaining, state.Penetration)
	bar.SetGlobalOptions(globalOptions(config, "Remaining composition", subtitle)...)

	ranks := cards.Ranks()
	xLabels := make([]string, len(ranks))
	data := make([]opts.BarData, len(ranks))
	for i, rank := range ranks {
		xLabels[i] = rank.String()
		data[i] = opts.BarData{
			Value: state.Composition.Count(rank),
			ItemStyle: &opts.ItemStyle{
				Color: groupColor(cards.GroupOf(rank)),
			},
		}
	}

	bar.SetXAxis(xLabels).AddSeries("Remaining", data)
	return bar
}

func groupColor(g cards.Group) string {
	switch g {
	case cards.Low:
		return lowColor
	case cards.Neutral:
		return neutralColor
	default:
		return highColor
	}
}

package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `short:"c" type:"path" default:"stacktrace.hcl" help:"Path to the HCL config file"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Train   TrainCmd         `cmd:"" default:"1" help:"Run the interactive trainer"`
	Replay  ReplayCmd        `cmd:"" help:"Compute statistics for a recorded sequence of cards"`
	Chart   ChartCmd         `cmd:"" help:"Render a recorded sequence of cards as an HTML chart"`
	Serve   ServeCmd         `cmd:"" help:"Serve a live counting session over HTTP and WebSocket"`
	Systems SystemsCmd       `cmd:"" help:"List the available counting systems"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stacktrace"),
		kong.Description("Blackjack card counting trainer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

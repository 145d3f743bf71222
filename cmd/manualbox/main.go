package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"manualbox.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
	} `cmd:"" help:"Run the ManualBox service: containers, warranty sweeper, and optional metrics/bridge"`

	Stats struct {
	} `cmd:"" help:"Print inventory and warranty statistics"`

	ExportLogs struct {
		Output string `short:"o" help:"Write the error log dump to a file instead of stdout"`
	} `cmd:"" help:"Export the recorded error log"`

	Manual struct {
		Render struct {
			ID string `arg:"" help:"Manual ID"`
		} `cmd:"" help:"Render a stored manual to HTML"`
		Links struct {
			ID string `arg:"" optional:"" help:"Manual ID (reports every manual when omitted)"`
		} `cmd:"" help:"Report the outbound links of stored manuals"`
	} `cmd:"" help:"Inspect stored product manuals"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "serve":
		err = runServe(CLI.Config, logger)
	case "stats":
		err = runStats(CLI.Config)
	case "export-logs":
		err = runExportLogs(CLI.Config, CLI.ExportLogs.Output)
	case "manual render <id>":
		err = runManualRender(CLI.Config, CLI.Manual.Render.ID, os.Stdout)
	case "manual links <id>", "manual links":
		err = runManualLinks(CLI.Config, CLI.Manual.Links.ID, os.Stdout)
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	default:
		err = ctx.PrintUsage(false)
	}
	if err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

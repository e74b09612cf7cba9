// Command fwctl is the companion CLI for flingwatch.
//
// Usage:
//
//	fwctl snapshot            One fetch of every endpoint, printed
//	fwctl tail flings|chat    Follow a feed line by line
//	fwctl prefs get [KEY]     Show stored preferences
//	fwctl prefs set ...       Change theme or gradient
//	fwctl events              JSONL event log viewer
package main

import (
	"github.com/alecthomas/kong"
)

var cli struct {
	Config string `help:"Config file." type:"path" placeholder:"PATH"`
	URL    string `help:"API base URL, overrides the config file." placeholder:"URL"`

	Snapshot snapshotCmd `cmd:"" help:"Fetch stats, reservations, flings and chat once."`
	Tail     tailCmd     `cmd:"" help:"Follow the fling or chat feed."`
	Prefs    prefsCmd    `cmd:"" help:"Show or change theme and gradient."`
	Events   eventsCmd   `cmd:"" help:"JSONL event log viewer."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("fwctl"),
		kong.Description("flingwatch companion CLI."),
		kong.UsageOnError(),
	)
	env, err := loadEnv(cli.Config, cli.URL)
	ctx.FatalIfErrorf(err)
	defer env.close()
	ctx.FatalIfErrorf(ctx.Run(env))
}

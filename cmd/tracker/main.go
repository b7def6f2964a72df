package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&runCmd{}, "scheduler")
	commander.Register(&jobsCmd{}, "scheduler")

	commander.Register(&snapshotCmd{}, "sync")
	commander.Register(&weeklyCmd{}, "sync")
	commander.Register(&exportCmd{}, "sync")
	commander.Register(&reconnectCmd{}, "sync")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

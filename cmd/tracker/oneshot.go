package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// runOnce wires the app, runs one job and exits, sharing lifecycle
// handling across the snapshot, weekly, export and reconnect subcommands.
func runOnce(ctx context.Context, flags appFlags, name string, job func(*app) func(context.Context) error) subcommands.ExitStatus {
	a, err := newApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := job(a)(ctx); err != nil {
		a.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func oneshotUsage(name, synopsis string) string {
	return fmt.Sprintf("tracker %s [-config path] [-env-only]\n\n  %s, then exits.\n", name, synopsis)
}

type snapshotCmd struct {
	flags appFlags
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "capture today's positions snapshot" }
func (c *snapshotCmd) Usage() string  { return oneshotUsage(c.Name(), c.Synopsis()) }

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return runOnce(ctx, c.flags, c.Name(), func(a *app) func(context.Context) error { return a.snapshot.Run })
}

type weeklyCmd struct {
	flags appFlags
}

func (*weeklyCmd) Name() string     { return "weekly" }
func (*weeklyCmd) Synopsis() string { return "refresh historical prices for all active symbols" }
func (c *weeklyCmd) Usage() string  { return oneshotUsage(c.Name(), c.Synopsis()) }

func (c *weeklyCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *weeklyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return runOnce(ctx, c.flags, c.Name(), func(a *app) func(context.Context) error { return a.prices.Run })
}

type exportCmd struct {
	flags appFlags
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the monthly report and CSV exports" }
func (c *exportCmd) Usage() string  { return oneshotUsage(c.Name(), c.Synopsis()) }

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return runOnce(ctx, c.flags, c.Name(), func(a *app) func(context.Context) error { return a.export.Run })
}

type reconnectCmd struct {
	flags appFlags
}

func (*reconnectCmd) Name() string     { return "reconnect" }
func (*reconnectCmd) Synopsis() string { return "probe and re-establish the gateway session" }
func (c *reconnectCmd) Usage() string  { return oneshotUsage(c.Name(), c.Synopsis()) }

func (c *reconnectCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *reconnectCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return runOnce(ctx, c.flags, c.Name(), func(a *app) func(context.Context) error { return a.reconnect.Run })
}

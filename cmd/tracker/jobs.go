package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/google/subcommands"

	cronrunner "stocktracker/internal/cron"
)

// jobsCmd prints the configured schedule without starting the scheduler.
type jobsCmd struct {
	flags appFlags
}

func (*jobsCmd) Name() string     { return "jobs" }
func (*jobsCmd) Synopsis() string { return "list scheduled jobs and their next run times" }
func (c *jobsCmd) Usage() string {
	return `tracker jobs [-config path] [-env-only]

  Prints every scheduled job with its cron spec and next run time.
`
}

func (c *jobsCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *jobsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	a, err := newApp(c.flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	runner := cronrunner.New(a.logger, ctx)
	if err := a.registerJobs(runner); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	jobs := runner.Jobs()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSPEC\tNEXT RUN")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", j.Name, j.Spec, j.NextRun.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

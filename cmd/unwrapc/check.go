package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/unwrap/internal/batch"
	"github.com/orizon-lang/unwrap/internal/diagnostic"
	"github.com/orizon-lang/unwrap/internal/watch"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Report unwrap sites that cannot be rewritten",
		Long: "Check classifies every unwrap pseudo-call of the given tree documents " +
			"and prints one diagnostic per unsupported site. Directories are " +
			"searched for .yaml and .yml files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := collectJobs(args)
			if err != nil {
				return err
			}
			report, err := a.runner().Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}
			if printFailures(cmd.OutOrStdout(), report, a.color) > 0 {
				return errFailed
			}
			return nil
		},
	}
}

func (a *app) runner() *batch.Runner {
	return &batch.Runner{Pass: a.pass, Workers: a.cfg.Workers, Logger: &a.log}
}

// collectJobs expands paths into one job per tree document, in sorted
// order per directory.
func collectJobs(paths []string) ([]batch.Job, error) {
	var jobs []batch.Job
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			jobs = append(jobs, batch.Job{Path: p})
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && watch.IsTreeFile(e.Name()) {
				names = append(names, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(names)
		for _, n := range names {
			jobs = append(jobs, batch.Job{Path: n})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no tree documents in %v", paths)
	}
	return jobs, nil
}

// printFailures writes the diagnostics and errors of a report and returns
// the number of failed units.
func printFailures(w io.Writer, report *batch.Report, colorize bool) int {
	dw := diagnostic.NewWriter(w, colorize)
	var all diagnostic.List
	failed := 0
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		if !o.Failed() {
			continue
		}
		failed++
		if o.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", o.Name, o.Err)
			continue
		}
		dw.Write(o.Result.Diagnostics)
		all = append(all, o.Result.Diagnostics...)
	}
	dw.Summary(all)
	return failed
}

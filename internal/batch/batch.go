// Package batch runs the unwrap pass over many units in parallel. Units
// are independent: a rejected or broken unit never stops the others.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/treeio"
	"github.com/orizon-lang/unwrap/internal/unwrap"
)

// Job is one unit to process. When Unit is nil the tree document at Path
// is loaded first.
type Job struct {
	Path string
	Unit *ast.CompilationUnit
}

func (j Job) name() string {
	if j.Path != "" {
		return j.Path
	}
	if j.Unit != nil {
		return j.Unit.Filename
	}
	return "<unit>"
}

// Outcome is the result of one job. Err is set when the unit could not be
// loaded or the pass hit an internal defect; rejected sites are in
// Result.Diagnostics.
type Outcome struct {
	Name   string
	Result *unwrap.Result
	Err    error
}

// Failed reports whether the unit was not rewritten.
func (o *Outcome) Failed() bool {
	return o.Err != nil || o.Result == nil || len(o.Result.Diagnostics) > 0
}

// Report collects the outcomes of a run in job order.
type Report struct {
	RunID    string
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Failed counts the units that were not rewritten.
func (r *Report) Failed() int {
	n := 0
	for i := range r.Outcomes {
		if r.Outcomes[i].Failed() {
			n++
		}
	}
	return n
}

// Err aggregates every failure of the run, or returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for i := range r.Outcomes {
		o := &r.Outcomes[i]
		switch {
		case o.Err != nil:
			result = multierror.Append(result, fmt.Errorf("%s: %w", o.Name, o.Err))
		case o.Result != nil && len(o.Result.Diagnostics) > 0:
			result = multierror.Append(result, fmt.Errorf("%s: %w", o.Name, o.Result.Err()))
		}
	}
	return result.ErrorOrNil()
}

// Runner runs a pass over jobs with bounded parallelism.
type Runner struct {
	Pass    *unwrap.Pass
	Workers int
	Logger  *zerolog.Logger
}

// Run processes jobs and returns their outcomes. The error is non-nil only
// when ctx ends before every job ran.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Report, error) {
	report := &Report{
		RunID:    uuid.NewString(),
		Outcomes: make([]Outcome, len(jobs)),
	}
	log := zerolog.Nop()
	if r.Logger != nil {
		log = r.Logger.With().Str("run", report.RunID).Logger()
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	var mu sync.Mutex

	for i, job := range jobs {
		i, job := i, job

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			out := r.runOne(job)
			if out.Failed() {
				log.Info().Str("unit", out.Name).Msg("unit not rewritten")
			}

			mu.Lock()
			report.Outcomes[i] = out
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	report.Elapsed = time.Since(start)
	log.Info().
		Int("units", len(jobs)).
		Int("failed", report.Failed()).
		Dur("elapsed", report.Elapsed).
		Msg("batch finished")
	if err != nil {
		return report, fmt.Errorf("batch %s: %w", report.RunID, err)
	}
	return report, nil
}

func (r *Runner) runOne(job Job) Outcome {
	out := Outcome{Name: job.name()}
	unit := job.Unit
	if unit == nil {
		u, err := treeio.Load(job.Path)
		if err != nil {
			out.Err = err
			return out
		}
		unit = u
	}
	out.Result, out.Err = r.Pass.Run(unit)
	return out
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/orizon-lang/unwrap/internal/batch"
	"github.com/orizon-lang/unwrap/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "watch PATH...",
		Short: "Check or rewrite tree documents whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(args, watch.DefaultDelay, &a.log)
			if err != nil {
				return err
			}
			defer w.Close()
			if outDir != "" {
				if err := w.Ignore(outDir); err != nil {
					return err
				}
			}

			a.log.Info().Strs("paths", args).Msg("watching")
			err = w.Run(cmd.Context(), func(changed []string) error {
				jobs := make([]batch.Job, len(changed))
				for i, p := range changed {
					jobs[i] = batch.Job{Path: p}
				}
				report, err := a.runner().Run(cmd.Context(), jobs)
				if err != nil {
					return err
				}
				if outDir != "" {
					if err := emit(cmd.OutOrStdout(), report, outDir, "yaml"); err != nil {
						return err
					}
				}
				if printFailures(cmd.OutOrStdout(), report, a.color) == 0 {
					a.log.Info().Int("units", len(jobs)).Msg("ok")
				}
				return nil
			})
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write rewritten tree documents into this directory")
	return cmd
}

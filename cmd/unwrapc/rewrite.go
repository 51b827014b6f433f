package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/batch"
	"github.com/orizon-lang/unwrap/internal/treeio"
)

func newRewriteCommand(a *app) *cobra.Command {
	var (
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "rewrite PATH...",
		Short: "Rewrite tree documents and print or write the result",
		Long: "Rewrite replaces every unwrap pseudo-call with an explicit early " +
			"exit. Results are printed as source text or YAML, or written as tree " +
			"documents into the output directory. Units with unsupported sites " +
			"are reported and left unwritten.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q", format)
			}
			jobs, err := collectJobs(args)
			if err != nil {
				return err
			}
			report, err := a.runner().Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}
			if err := emit(cmd.OutOrStdout(), report, outDir, format); err != nil {
				return err
			}
			if printFailures(cmd.ErrOrStderr(), report, a.color) > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write rewritten tree documents into this directory")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "stdout format: text or yaml")
	return cmd
}

func emit(w io.Writer, report *batch.Report, outDir, format string) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		if o.Failed() {
			continue
		}
		if outDir != "" {
			if err := writeTree(filepath.Join(outDir, filepath.Base(o.Name)), o.Result.Unit); err != nil {
				return err
			}
			continue
		}
		if format == "yaml" {
			if err := treeio.Encode(w, o.Result.Unit); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "// %s\n%s\n", o.Name, ast.Print(o.Result.Unit))
	}
	return nil
}

func writeTree(path string, unit *ast.CompilationUnit) error {
	data, err := treeio.Marshal(unit)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

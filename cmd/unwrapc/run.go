package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/eval"
	"github.com/orizon-lang/unwrap/internal/treeio"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		native  bool
		compare bool
		hosts   []string
	)
	cmd := &cobra.Command{
		Use:   "run FILE METHOD [ARG...]",
		Short: "Run a method of a tree document",
		Long: "Run rewrites the unit and calls METHOD on the result, printing what it " +
			"returns or throws and the host calls it made. With --native the " +
			"original unit runs with unwrap evaluated directly; --compare runs " +
			"both and fails when they differ.\n\n" +
			"Arguments are YAML scalars, or containers written Kind.factory:value " +
			"such as Either.left:boom or Option.none.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := treeio.Load(args[0])
			if err != nil {
				return err
			}
			reg, err := a.cfg.Registry()
			if err != nil {
				return err
			}
			values := make([]eval.Value, 0, len(args)-2)
			for _, s := range args[2:] {
				v, err := parseArg(reg, s)
				if err != nil {
					return err
				}
				values = append(values, v)
			}
			opts := eval.Options{
				Registry:          reg,
				Functions:         hostFunctions(hosts),
				Sentinel:          a.cfg.Sentinel,
				AssertionsEnabled: a.cfg.Assertions,
			}
			out := cmd.OutOrStdout()
			method := args[1]

			if native || compare {
				nopts := opts
				nopts.NativeUnwrap = true
				before, err := eval.Run(unit, nopts, method, values...)
				if err != nil {
					return err
				}
				printOutcome(out, "native", before)
				if !compare {
					return nil
				}
				after, err := a.runRewritten(unit, opts, method, values)
				if err != nil {
					return err
				}
				printOutcome(out, "rewritten", after)
				if !before.Equal(after) {
					return fmt.Errorf("outcomes differ")
				}
				return nil
			}

			after, err := a.runRewritten(unit, opts, method, values)
			if err != nil {
				return err
			}
			printOutcome(out, "", after)
			return nil
		},
	}
	cmd.Flags().BoolVar(&native, "native", false, "run the original unit with unwrap evaluated directly")
	cmd.Flags().BoolVar(&compare, "compare", false, "run both forms and compare their outcomes")
	cmd.Flags().StringSliceVar(&hosts, "host", nil, "host functions that return their first argument")
	return cmd
}

func (a *app) runRewritten(unit *ast.CompilationUnit, opts eval.Options, method string, args []eval.Value) (*eval.Outcome, error) {
	res, err := a.pass.Run(unit)
	if err != nil {
		return nil, err
	}
	if res.Unit == nil {
		return nil, res.Err()
	}
	return eval.Run(res.Unit, opts, method, args...)
}

func printOutcome(w io.Writer, label string, o *eval.Outcome) {
	if label != "" {
		fmt.Fprintf(w, "%s: ", label)
	}
	fmt.Fprintln(w, o.String())
}

// hostFunctions returns recording functions for names; each returns its
// first argument, or null without arguments.
func hostFunctions(names []string) map[string]eval.Function {
	fns := make(map[string]eval.Function, len(names))
	for _, n := range names {
		fns[n] = func(args []eval.Value) (eval.Value, error) {
			if len(args) == 0 {
				return nil, nil
			}
			return args[0], nil
		}
	}
	return fns
}

// parseArg reads a command line argument as a runtime value.
func parseArg(reg *capability.Registry, s string) (eval.Value, error) {
	head, rest, hasValue := strings.Cut(s, ":")
	if kindName, factory, ok := strings.Cut(head, "."); ok {
		if kind, found := reg.ByName(kindName); found {
			var v eval.Value
			if hasValue {
				var err error
				if v, err = parseScalar(rest); err != nil {
					return nil, err
				}
			}
			switch factory {
			case kind.SuccessFactory:
				return capability.Success(kind, v), nil
			case kind.AlternateFactory:
				return capability.Alternate(kind, v), nil
			}
			return nil, fmt.Errorf("%s has no factory %s", kind.Name, factory)
		}
	}
	return parseScalar(s)
}

func parseScalar(s string) (eval.Value, error) {
	var v interface{}
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("argument %q: %w", s, err)
	}
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64, float64, bool, string, nil:
		return x, nil
	}
	return nil, fmt.Errorf("argument %q is not a scalar", s)
}

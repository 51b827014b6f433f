// Command unwrapc applies the unwrap early-return rewrite to tree
// documents. It checks sites, prints or writes rewritten units, watches
// files for changes and runs methods before and after rewriting.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orizon-lang/unwrap/internal/cli"
	"github.com/orizon-lang/unwrap/internal/config"
	"github.com/orizon-lang/unwrap/internal/unwrap"
)

// app is the state shared by every subcommand, built once flags are
// parsed.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	pass  *unwrap.Pass
	color bool
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = viper.GetString("log-level")
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = viper.GetString("color")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = viper.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.color = cli.UseColor(cfg.Color, os.Stdout)

	a.log, err = cli.NewLogger(os.Stderr, cfg.LogLevel, cli.UseColor(cfg.Color, os.Stderr))
	if err != nil {
		return err
	}
	opts, err := cfg.PassOptions(&a.log)
	if err != nil {
		return err
	}
	a.pass = unwrap.New(opts)
	return nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "unwrapc",
		Short:         "Rewrite unwrap pseudo-calls into explicit early returns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./unwrapc.yaml)")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.String("color", "auto", "color output: auto, always, never")
	flags.Int("workers", 0, "units processed in parallel")
	for _, name := range []string{"config", "log-level", "color", "workers"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newCheckCommand(a),
		newRewriteCommand(a),
		newWatchCommand(a),
		newRunCommand(a),
		newVersionCommand(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&app{}).ExecuteContext(ctx); err != nil {
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		cli.Fatal(err)
	}
}

// errFailed ends a run whose failures were already printed.
var errFailed = errors.New("unwrapc: failed")

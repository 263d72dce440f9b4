package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/lpk/internal/config"
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/logging"
)

// app is the state shared by every subcommand after flags are parsed.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

// newBus creates a bus configured from a.cfg.
func (a *app) newBus() event.Bus {
	opts := []event.BusOption{event.WithLogger(logging.Component(a.log, "bus"))}
	if a.cfg.Bus.IgnoreDuplicates {
		opts = append(opts, event.WithDuplicatePolicy(event.DuplicateIgnore))
	}
	return event.NewBus(opts...)
}

func newRootCommand() *cobra.Command {
	var configFile string
	a := &app{cfg: config.Default(), log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "lpk",
		Short:         "Run and inspect LPK event bus scenes",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			l, err := logging.Configure(logging.Options{
				Level:   cfg.Log.Level,
				Format:  logging.Format(cfg.Log.Format),
				Output:  cmd.ErrOrStderr(),
				NoColor: cfg.Log.NoColor,
			})
			if err != nil {
				return err
			}
			if cfg.Log.NoColor {
				color.NoColor = true
			}
			a.cfg = cfg
			a.log = l
			return nil
		},
	}

	d := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "configuration file (YAML)")
	pf.String("log-level", d.Log.Level, "log level (trace, debug, info, warn, error)")
	pf.String("log-format", d.Log.Format, "log format (console, json)")
	pf.Bool("no-color", d.Log.NoColor, "disable colored output")
	pf.Bool("ignore-duplicates", d.Bus.IgnoreDuplicates, "ignore repeated subscriptions of the same handler")
	pf.Duration("script-timeout", d.Script.Timeout, "maximum duration of a single Lua call")

	cmd.AddCommand(
		newKindsCommand(),
		newValidateCommand(),
		newRunCommand(a),
		newWatchCommand(a),
	)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Int("frames", d.Run.Frames, "frames to simulate (0 runs to the end of the timeline)")
	cmd.Flags().Duration("step", d.Run.Step, "simulated time per frame")
}

func secondsOf(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

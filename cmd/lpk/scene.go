package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/logging"
	"github.com/dshills/lpk/internal/scene"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate SCENE...",
		Short: "Check scene files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()

			failed := 0
			for _, path := range args {
				sc, err := scene.Load(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s\n", bad("FAIL"), path)
					var verr *scene.ValidationError
					if errors.As(err, &verr) {
						for _, is := range verr.Issues {
							fmt.Fprintf(out, "     %s\n", is)
						}
					} else {
						fmt.Fprintf(out, "     %v\n", err)
					}
					continue
				}
				fmt.Fprintf(out, "%s   %s (%d objects, %d timeline entries)\n",
					ok("ok"), path, len(sc.Objects), len(sc.Timeline))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenes invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newRunCommand(a *app) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "run SCENE",
		Short: "Simulate a scene and report what was published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			return a.runScene(cmd.Context(), cmd.OutOrStdout(), args[0], sc, trace)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().BoolVar(&trace, "trace", false, "print every published event")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch SCENE",
		Short: "Re-run a scene whenever it or its scripts change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := scene.NewWatcher(args[0],
				scene.WithDebounce(a.cfg.Watch.Debounce),
				scene.WithWatchLogger(logging.Component(a.log, "watch")))
			if err != nil {
				return err
			}
			defer w.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			err = w.Run(ctx, func(sc *scene.Scene, err error) {
				if err != nil {
					fmt.Fprintf(out, "%s %v\n", color.RedString("error"), err)
					return
				}
				if err := a.runScene(ctx, out, args[0], sc, false); err != nil {
					fmt.Fprintf(out, "%s %v\n", color.RedString("error"), err)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	addRunFlags(cmd)
	return cmd
}

// runScene builds sc on a fresh bus, runs it and prints a summary.
func (a *app) runScene(ctx context.Context, out io.Writer, path string, sc *scene.Scene, trace bool) error {
	bus := a.newBus()
	defer bus.Close()

	built, err := scene.Build(ctx, bus, sc,
		scene.WithLogger(a.log),
		scene.WithBaseDir(filepath.Dir(path)),
		scene.WithScriptTimeout(a.cfg.Script.Timeout))
	if err != nil {
		return err
	}
	defer built.Close()

	if trace {
		tracer := event.HandlerFunc(func(_ context.Context, k kind.Kind, p *event.Payload) {
			fmt.Fprintf(out, "%6d  %-24s %s -> %s\n", built.World.Frame(), k, p.Sender, describe(p.Receivers))
		})
		if _, err := bus.SubscribeAll(kind.Select(kind.All()...), tracer, event.WithLabel("trace")); err != nil {
			return err
		}
	}

	st, err := built.Run(ctx, a.cfg.Run.Frames, a.cfg.Run.Step)
	bs := bus.Stats()
	fmt.Fprintf(out, "%s: %d frames (%s), %d timeline events, %d published, %d unheard, %d handler panics\n",
		displayName(sc, path), st.Frames, secondsOf(time.Duration(st.Frames)*a.cfg.Run.Step),
		st.Published, bs.EventsPublished, bs.EventsUnheard, bs.HandlerPanics)
	return err
}

func describe(r event.Receivers) string {
	if r.IsBroadcast() {
		return "*"
	}
	s := ""
	for _, o := range r.Objects {
		if s != "" {
			s += ","
		}
		if o == nil {
			s += event.SelfName
			continue
		}
		s += o.Name
	}
	for _, t := range r.Tags {
		if s != "" {
			s += ","
		}
		s += "#" + t
	}
	return s
}

func displayName(sc *scene.Scene, path string) string {
	if sc.Name != "" {
		return sc.Name
	}
	return filepath.Base(path)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/sifter/pkg/definition"
	"github.com/arthur-debert/sifter/pkg/engine"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/report"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		maxToMatch int
		all        bool
	)

	cmd := &cobra.Command{
		Use:     "run <definition>",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition.Load(args[0])
			if err != nil {
				return err
			}
			cfg, err := definition.Build(def, a.fs)
			if err != nil {
				return err
			}

			switch {
			case cmd.Flags().Changed("max"):
				cfg.MaxToMatch = maxToMatch
			case cfg.MaxToMatch == 0:
				cfg.MaxToMatch = a.cfg.Engine.MaxToMatch
			}

			eng, err := engine.New(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := report.NewPrinter(out, a.cfg.Output, report.Options{
				ShowTested: all,
				Styled:     a.styled(out),
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigs := make(chan os.Signal, 2)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)
			go watchInterrupts(ctx, sigs, cancel, func() {
				eng.RequestStop()
				printer.Interrupted()
				fmt.Fprintln(cmd.ErrOrStderr(), MsgInterrupt)
			})

			if err := eng.Run(ctx, printer.Sinks()); err != nil {
				if errors.IsCanceled(err) {
					return errors.Wrap(err, errors.ErrCancelled, MsgRunCancelled)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxToMatch, "max", 0, MsgFlagMax)
	cmd.Flags().BoolVarP(&all, "all", "a", false, MsgFlagAll)
	return cmd
}

// watchInterrupts calls stop on the first signal and cancel on the second.
// It returns when ctx is done or after cancelling.
func watchInterrupts(ctx context.Context, sigs <-chan os.Signal, cancel context.CancelFunc, stop func()) {
	received := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			received++
			if received == 1 {
				stop()
				continue
			}
			cancel()
			return
		}
	}
}

// ExitCode maps an Execute error to the process exit status: 0 on success,
// 130 for a cancelled run and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsErrorCode(err, errors.ErrCancelled), errors.IsCanceled(err):
		return 130
	default:
		return 1
	}
}

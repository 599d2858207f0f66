package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"cfpredict/internal/fixtures"

	"github.com/spf13/cobra"
)

// checkCmd runs a directory of fixtures through the predictor
func checkCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check [DIR]",
		Short: "Compare predictions against NAME.in / NAME.out fixtures",
		Long: `Run every NAME.in file in DIR through the predictor and compare the
output with NAME.out, ignoring leading and trailing whitespace.

DIR defaults to check.dir from the config file.

Examples:
  cfpredict check ./tests
  cfpredict check ./tests --no-color -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Check.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no fixtures directory given")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runCheck(ctx, cmd, dir, cfg.Check.Color && !noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, dir string, color bool) error {
	cases, err := fixtures.Discover(dir)
	if err != nil {
		return err
	}

	checker := &fixtures.Checker{
		Run: func(in io.Reader, out io.Writer) error {
			_, err := newRunner().Run(in, out)
			return err
		},
		Timeout: cfg.Check.Timeout,
		Logger:  logger,
	}

	report, err := checker.Check(ctx, cases)
	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	styles := fixtures.PlainStyles()
	if color {
		styles = fixtures.DefaultStyles()
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Render(styles))

	if !report.OK() {
		return fmt.Errorf("%d of %d fixtures failed", report.Failed, len(report.Results))
	}
	return nil
}

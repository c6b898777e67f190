package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/de-tools/finops-agent/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

const busyMessage = " Analyzing Your AWS Infrastructure..."

type AnalyzeCmd struct {
	backend  Backend
	reporter *export.Reporter
	timeout  time.Duration
}

func NewAnalyzeCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{backend: backend, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Invoke the FinOps agent and print its report",
		RunE:  ac.run,
	}

	cmd.Flags().DurationVar(&ac.timeout, "timeout", 10*time.Minute, "Maximum duration of the agent run")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ac.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, ac.timeout)
		defer cancel()
	}

	analyst, err := ac.backend.Analyst(ctx)
	if err != nil {
		return err
	}

	s := startSpinner(cmd.ErrOrStderr())
	report, err := analyst.Analyze(ctx)
	s.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return ac.reporter.Report(report)
}

// startSpinner only spins when w is a terminal.
func startSpinner(w io.Writer) *spinner.Spinner {
	var s *spinner.Spinner
	if f, ok := w.(*os.File); ok {
		s = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f))
	} else {
		s = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
		s.Disable()
	}
	s.Suffix = busyMessage
	s.Start()
	return s
}

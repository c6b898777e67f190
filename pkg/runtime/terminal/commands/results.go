package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/finops-agent/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewAdvisorCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "advisor",
		Short: "List flagged Trusted Advisor cost checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := backend.Advisor(cmd.Context())
			if err != nil {
				return err
			}
			return fetchAndReport(cmd.Context(), source, reporter, "Trusted Advisor cost findings")
		},
	}
}

func NewHubCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "hub",
		Short: "List Cost Optimization Hub recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := backend.Hub(cmd.Context())
			if err != nil {
				return err
			}
			return fetchAndReport(cmd.Context(), source, reporter, "Cost Optimization Hub recommendations")
		},
	}
}

type SpendCmd struct {
	backend  Backend
	reporter *export.Reporter
	days     int
}

func NewSpendCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	sc := &SpendCmd{backend: backend, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Summarize recent spend per AWS service",
		RunE:  sc.run,
	}

	cmd.Flags().IntVar(&sc.days, "days", 0, "Number of days to summarize (default from configuration)")

	return cmd
}

func (sc *SpendCmd) run(cmd *cobra.Command, _ []string) error {
	if sc.days < 0 {
		return fmt.Errorf("--days must be positive, got %d", sc.days)
	}

	ctx := cmd.Context()
	source, err := sc.backend.Spend(ctx)
	if err != nil {
		return err
	}

	result, err := source.FetchLast(ctx, sc.days)
	if err != nil {
		return fmt.Errorf("failed to fetch spend: %w", err)
	}
	return sc.reporter.Result("Spend by service", result)
}

func fetchAndReport(ctx context.Context, source Source, reporter *export.Reporter, title string) error {
	result, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", title, err)
	}
	return reporter.Result(title, result)
}

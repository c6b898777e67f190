package advisor

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/support"
	"github.com/aws/aws-sdk-go-v2/service/support/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/de-tools/finops-agent/pkg/services/table"
	"github.com/rs/zerolog"
)

const (
	ServiceName     = "support"
	EmptyMessage    = "No flagged Trusted Advisor cost checks found."
	language        = "en"
	costCategory    = "cost"
	toolName        = "trusted_advisor_finops"
	toolDescription = "Check-based cost alerts from AWS Trusted Advisor: one row per flagged resource " +
		"of every cost-optimizing check, sorted by estimated savings."
)

// SupportAPI is the part of the AWS Support client the fetcher needs.
type SupportAPI interface {
	DescribeTrustedAdvisorChecks(
		ctx context.Context,
		input *support.DescribeTrustedAdvisorChecksInput,
		opts ...func(*support.Options),
	) (*support.DescribeTrustedAdvisorChecksOutput, error)
	DescribeTrustedAdvisorCheckResult(
		ctx context.Context,
		input *support.DescribeTrustedAdvisorCheckResultInput,
		opts ...func(*support.Options),
	) (*support.DescribeTrustedAdvisorCheckResultOutput, error)
}

// Fetcher collects flagged resources of cost-category Trusted Advisor checks.
type Fetcher struct {
	client SupportAPI
}

func NewFetcher(client SupportAPI) *Fetcher {
	return &Fetcher{client: client}
}

func (f *Fetcher) Name() string {
	return toolName
}

func (f *Fetcher) Description() string {
	return toolDescription
}

// Invoke lets the fetcher be registered as an agent tool.
func (f *Fetcher) Invoke(ctx context.Context) (domain.Result, error) {
	return f.Fetch(ctx)
}

// Fetch returns the flagged resources as a table with constant columns removed
// and rows ordered by savings, or an empty result when nothing is flagged.
func (f *Fetcher) Fetch(ctx context.Context) (domain.Result, error) {
	logger := zerolog.Ctx(ctx)

	findings, err := f.Findings(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	if len(findings) == 0 {
		logger.Info().Msg("no flagged trusted advisor cost checks")
		return domain.EmptyResult(EmptyMessage), nil
	}

	records := make([][]domain.Field, 0, len(findings))
	for _, finding := range findings {
		records = append(records, finding.Fields())
	}
	t := domain.NewTable(records)

	dropped := table.DropConstantColumns(&t)
	col, sorted := table.SortBySavings(&t)

	logger.Debug().
		Int("findings", len(findings)).
		Strs("dropped_columns", dropped).
		Str("savings_column", col).
		Bool("sorted", sorted).
		Msg("trusted advisor findings reshaped")

	return domain.RowsResult(t), nil
}

// Findings lists one finding per flagged resource of every cost check.
func (f *Fetcher) Findings(ctx context.Context) ([]domain.Finding, error) {
	checks, err := f.costChecks(ctx)
	if err != nil {
		return nil, err
	}

	var findings []domain.Finding
	for _, check := range checks {
		out, err := f.client.DescribeTrustedAdvisorCheckResult(ctx, &support.DescribeTrustedAdvisorCheckResultInput{
			CheckId:  check.Id,
			Language: aws.String(language),
		})
		if err != nil {
			return nil, domain.NewUpstreamError(ServiceName, "DescribeTrustedAdvisorCheckResult", err)
		}
		if out.Result == nil {
			continue
		}

		for _, res := range out.Result.FlaggedResources {
			findings = append(findings, newFinding(check, res))
		}
	}
	return findings, nil
}

func (f *Fetcher) costChecks(ctx context.Context) ([]types.TrustedAdvisorCheckDescription, error) {
	out, err := f.client.DescribeTrustedAdvisorChecks(ctx, &support.DescribeTrustedAdvisorChecksInput{
		Language: aws.String(language),
	})
	if err != nil {
		return nil, domain.NewUpstreamError(ServiceName, "DescribeTrustedAdvisorChecks", err)
	}

	var checks []types.TrustedAdvisorCheckDescription
	for _, check := range out.Checks {
		if isCostCategory(aws.ToString(check.Category)) {
			checks = append(checks, check)
		}
	}
	return checks, nil
}

func isCostCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), costCategory)
}

func newFinding(check types.TrustedAdvisorCheckDescription, res types.TrustedAdvisorResourceDetail) domain.Finding {
	return domain.Finding{
		CheckID:    aws.ToString(check.Id),
		CheckName:  aws.ToString(check.Name),
		ResourceID: orNotAvailable(res.ResourceId),
		Status:     orNotAvailable(res.Status),
		Region:     aws.ToString(res.Region),
		Metadata:   zipMetadata(check.Metadata, res.Metadata),
	}
}

// zipMetadata pairs the check's declared keys with the resource's values by
// position. Keys without a value get the NotAvailable sentinel; surplus values are ignored.
func zipMetadata(keys, values []*string) []domain.Field {
	fields := make([]domain.Field, 0, len(keys))
	for i, key := range keys {
		value := domain.NotAvailable
		if i < len(values) && values[i] != nil {
			value = *values[i]
		}
		fields = append(fields, domain.Field{Key: aws.ToString(key), Value: value})
	}
	return fields
}

func orNotAvailable(s *string) string {
	if s == nil {
		return domain.NotAvailable
	}
	return *s
}

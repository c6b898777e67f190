package hub

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	ServiceName  = "cost-optimization-hub"
	EmptyMessage = "No recommendations found."
)

// HubAPI is the part of the Cost Optimization Hub client the fetcher needs.
type HubAPI interface {
	ListRecommendations(
		ctx context.Context,
		input *costoptimizationhub.ListRecommendationsInput,
		opts ...func(*costoptimizationhub.Options),
	) (*costoptimizationhub.ListRecommendationsOutput, error)
}

// Fetcher reads the first page of Cost Optimization Hub recommendations.
type Fetcher struct {
	client HubAPI
}

func NewFetcher(client HubAPI) *Fetcher {
	return &Fetcher{client: client}
}

func (f *Fetcher) Name() string {
	return "cost_optimization_hub"
}

func (f *Fetcher) Description() string {
	return "Structured, prioritized cost recommendations from AWS Cost Optimization Hub, " +
		"with estimated monthly savings, cost, implementation effort and recommended action."
}

func (f *Fetcher) Invoke(ctx context.Context) (domain.Result, error) {
	return f.Fetch(ctx)
}

func (f *Fetcher) Fetch(ctx context.Context) (domain.Result, error) {
	recs, err := f.Recommendations(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	if len(recs) == 0 {
		zerolog.Ctx(ctx).Info().Msg("cost optimization hub returned no recommendations")
		return domain.EmptyResult(EmptyMessage), nil
	}

	records := make([][]domain.Field, 0, len(recs))
	for _, rec := range recs {
		records = append(records, rec.Fields())
	}
	return domain.RowsResult(domain.NewTable(records)), nil
}

// Recommendations maps the first page of items; pagination tokens are not followed.
func (f *Fetcher) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	out, err := f.client.ListRecommendations(ctx, &costoptimizationhub.ListRecommendationsInput{})
	if err != nil {
		return nil, domain.NewUpstreamError(ServiceName, "ListRecommendations", err)
	}

	recs := make([]domain.Recommendation, 0, len(out.Items))
	for _, item := range out.Items {
		recs = append(recs, MapRecommendation(item))
	}

	zerolog.Ctx(ctx).Debug().
		Int("items", len(recs)).
		Bool("truncated", out.NextToken != nil).
		Msg("cost optimization hub recommendations listed")

	return recs, nil
}

func MapRecommendation(item types.Recommendation) domain.Recommendation {
	return domain.Recommendation{
		ID:                   stringOrNA(item.RecommendationId),
		ResourceType:         stringOrNA(item.CurrentResourceType),
		ResourceID:           stringOrNA(item.ResourceId),
		MonthlySavings:       aws.ToFloat64(item.EstimatedMonthlySavings),
		SavingsPercentage:    floatOrNA(item.EstimatedSavingsPercentage),
		MonthlyCost:          aws.ToFloat64(item.EstimatedMonthlyCost),
		ImplementationEffort: stringOrNA(item.ImplementationEffort),
		RestartNeeded:        boolOrNA(item.RestartNeeded),
		RollbackPossible:     boolOrNA(item.RollbackPossible),
		Action:               stringOrNA(item.ActionType),
		CurrentSummary:       stringOrNA(item.CurrentResourceSummary),
		RecommendedSummary:   stringOrNA(item.RecommendedResourceSummary),
		Currency:             stringOrNA(item.CurrencyCode),
	}
}

func stringOrNA(s *string) string {
	if s == nil {
		return domain.NotAvailable
	}
	return *s
}

func floatOrNA(f *float64) any {
	if f == nil {
		return domain.NotAvailable
	}
	return *f
}

func boolOrNA(b *bool) any {
	if b == nil {
		return domain.NotAvailable
	}
	return *b
}

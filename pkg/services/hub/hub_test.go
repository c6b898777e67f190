package hub

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHub struct {
	mock.Mock
}

func (m *mockHub) ListRecommendations(
	ctx context.Context,
	input *costoptimizationhub.ListRecommendationsInput,
	_ ...func(*costoptimizationhub.Options),
) (*costoptimizationhub.ListRecommendationsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costoptimizationhub.ListRecommendationsOutput), args.Error(1)
}

var allColumns = []string{
	"Recommendation ID",
	"Resource Type",
	"Resource ID",
	"Estimated Monthly Savings ($)",
	"Estimated Savings Percentage",
	"Estimated Monthly Cost ($)",
	"Implementation Effort",
	"Is Resource Restart Needed",
	"Is Rollback Possible",
	"Top Recommended Action",
	"Current Resource Summary",
	"Recommended Resource Summary",
	"Currency",
}

func TestFetch_NoItemsIsEmptyResult(t *testing.T) {
	client := new(mockHub)
	client.On("ListRecommendations", mock.Anything, mock.Anything).Return(
		&costoptimizationhub.ListRecommendationsOutput{}, nil)

	result, err := NewFetcher(client).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ResultEmpty, result.Kind)
	assert.Equal(t, "No recommendations found.", result.Message)
	assert.Zero(t, result.Table.Len())
}

func TestFetch_OneRowPerItemWithAllColumns(t *testing.T) {
	client := new(mockHub)
	client.On("ListRecommendations", mock.Anything, mock.Anything).Return(
		&costoptimizationhub.ListRecommendationsOutput{
			Items: []types.Recommendation{
				{
					RecommendationId:           aws.String("rec-1"),
					CurrentResourceType:        aws.String("Ec2Instance"),
					ResourceId:                 aws.String("i-0abc"),
					EstimatedMonthlySavings:    aws.Float64(42.1),
					EstimatedSavingsPercentage: aws.Float64(35),
					EstimatedMonthlyCost:       aws.Float64(120),
					ImplementationEffort:       aws.String("Medium"),
					RestartNeeded:              aws.Bool(true),
					RollbackPossible:           aws.Bool(false),
					ActionType:                 aws.String("Rightsize"),
					CurrentResourceSummary:     aws.String("m5.xlarge"),
					RecommendedResourceSummary: aws.String("m5.large"),
					CurrencyCode:               aws.String("USD"),
				},
				{RecommendationId: aws.String("rec-2")},
				{RecommendationId: aws.String("rec-3")},
			},
			NextToken: aws.String("next"),
		}, nil)

	result, err := NewFetcher(client).Fetch(context.Background())

	require.NoError(t, err)
	require.Equal(t, domain.ResultRows, result.Kind)
	require.Equal(t, 3, result.Table.Len())
	assert.Equal(t, allColumns, result.Table.Columns)
	for _, row := range result.Table.Rows {
		assert.Len(t, row, len(allColumns))
	}

	first := result.Table.Rows[0]
	assert.Equal(t, 42.1, first["Estimated Monthly Savings ($)"])
	assert.Equal(t, 35.0, first["Estimated Savings Percentage"])
	assert.Equal(t, true, first["Is Resource Restart Needed"])
	assert.Equal(t, false, first["Is Rollback Possible"])
	assert.Equal(t, "Rightsize", first["Top Recommended Action"])
	client.AssertNumberOfCalls(t, "ListRecommendations", 1)
}

func TestMapRecommendation_Defaults(t *testing.T) {
	rec := MapRecommendation(types.Recommendation{})

	fields := rec.Fields()
	row := domain.NewTable([][]domain.Field{fields}).Rows[0]

	assert.Equal(t, 0.0, row["Estimated Monthly Savings ($)"])
	assert.Equal(t, 0.0, row["Estimated Monthly Cost ($)"])
	for _, col := range allColumns {
		if col == "Estimated Monthly Savings ($)" || col == "Estimated Monthly Cost ($)" {
			continue
		}
		assert.Equal(t, domain.NotAvailable, row[col], col)
	}
}

func TestFetch_SavingsWithoutActionType(t *testing.T) {
	client := new(mockHub)
	client.On("ListRecommendations", mock.Anything, mock.Anything).Return(
		&costoptimizationhub.ListRecommendationsOutput{
			Items: []types.Recommendation{{EstimatedMonthlySavings: aws.Float64(120.5)}},
		}, nil)

	result, err := NewFetcher(client).Fetch(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, result.Table.Len())
	assert.Equal(t, 120.5, result.Table.Rows[0]["Estimated Monthly Savings ($)"])
	assert.Equal(t, "N/A", result.Table.Rows[0]["Top Recommended Action"])
}

func TestFetch_UpstreamError(t *testing.T) {
	boom := errors.New("AccessDeniedException")
	client := new(mockHub)
	client.On("ListRecommendations", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := NewFetcher(client).Fetch(context.Background())

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, ServiceName, upstream.Service)
	assert.ErrorIs(t, err, boom)
}

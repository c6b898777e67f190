package spend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCostExplorer struct {
	mock.Mock
}

func (m *mockCostExplorer) GetCostAndUsage(
	ctx context.Context,
	input *costexplorer.GetCostAndUsageInput,
	_ ...func(*costexplorer.Options),
) (*costexplorer.GetCostAndUsageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costexplorer.GetCostAndUsageOutput), args.Error(1)
}

func group(service, amount string) types.Group {
	return types.Group{
		Keys: []string{service},
		Metrics: map[string]types.MetricValue{
			"UnblendedCost": {Amount: aws.String(amount), Unit: aws.String("USD")},
		},
	}
}

func fixedFetcher(client CostExplorerAPI) *Fetcher {
	f := NewFetcher(client, 30)
	f.now = func() time.Time { return time.Date(2025, 7, 31, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestFetch_SumsAndSortsByAmount(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsage", mock.Anything, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageInput) bool {
		return aws.ToString(in.TimePeriod.Start) == "2025-07-01" &&
			aws.ToString(in.TimePeriod.End) == "2025-07-31" &&
			in.Granularity == types.GranularityMonthly
	})).Return(&costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []types.ResultByTime{
			{Groups: []types.Group{
				group("Amazon Simple Storage Service", "10.5"),
				group("Amazon Elastic Compute Cloud - Compute", "100"),
				group("AWS Key Management Service", "0"),
			}},
			{Groups: []types.Group{
				group("Amazon Simple Storage Service", "4.5"),
			}},
		},
	}, nil)

	result, err := fixedFetcher(client).Fetch(context.Background())

	require.NoError(t, err)
	require.Equal(t, domain.ResultRows, result.Kind)
	assert.Equal(t, []string{ColService, ColAmount, ColCurrency}, result.Table.Columns)
	assert.Equal(t, []any{
		"Amazon Elastic Compute Cloud - Compute",
		"Amazon Simple Storage Service",
	}, result.Table.Column(ColService))
	assert.Equal(t, []any{100.0, 15.0}, result.Table.Column(ColAmount))
	client.AssertExpectations(t)
}

func TestFetch_NoSpendIsEmpty(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsage", mock.Anything, mock.Anything).Return(
		&costexplorer.GetCostAndUsageOutput{}, nil)

	result, err := fixedFetcher(client).Fetch(context.Background())

	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, EmptyMessage, result.Message)
}

func TestFetch_UpstreamError(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsage", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := fixedFetcher(client).Fetch(context.Background())

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "GetCostAndUsage", upstream.Op)
}

func TestNewFetcher_DefaultDays(t *testing.T) {
	f := NewFetcher(new(mockCostExplorer), 0)

	assert.Equal(t, DefaultDays, f.Period().Duration)
}

func TestFetchLast_OverridesWindow(t *testing.T) {
	client := new(mockCostExplorer)
	client.On("GetCostAndUsage", mock.Anything, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageInput) bool {
		return aws.ToString(in.TimePeriod.Start) == "2025-07-24"
	})).Return(&costexplorer.GetCostAndUsageOutput{}, nil).Once()

	f := fixedFetcher(client)
	_, err := f.FetchLast(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 30, f.Period().Duration)
	client.AssertExpectations(t)
}

func TestPeriodLast(t *testing.T) {
	f := fixedFetcher(new(mockCostExplorer))

	week := f.PeriodLast(7)
	assert.Equal(t, time.Date(2025, 7, 24, 10, 0, 0, 0, time.UTC), week.Start)
	assert.Equal(t, time.Date(2025, 7, 31, 10, 0, 0, 0, time.UTC), week.End)
	assert.Equal(t, 7, week.Duration)

	assert.Equal(t, f.Period(), f.PeriodLast(0))
}

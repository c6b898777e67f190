package spend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/de-tools/finops-agent/pkg/services/table"
	"github.com/rs/zerolog"
)

const (
	ServiceName  = "costexplorer"
	DefaultDays  = 30
	EmptyMessage = "No spend recorded in the selected period."

	metricUnblendedCost = "UnblendedCost"
	dateLayout          = "2006-01-02"

	ColService  = "Service"
	ColAmount   = "Amount"
	ColCurrency = "Currency"
)

// CostExplorerAPI is the part of the Cost Explorer client the fetcher needs.
type CostExplorerAPI interface {
	GetCostAndUsage(
		ctx context.Context,
		input *costexplorer.GetCostAndUsageInput,
		opts ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageOutput, error)
}

// Fetcher summarises recent spend per AWS service.
type Fetcher struct {
	client CostExplorerAPI
	days   int
	now    func() time.Time
}

func NewFetcher(client CostExplorerAPI, days int) *Fetcher {
	if days <= 0 {
		days = DefaultDays
	}
	return &Fetcher{client: client, days: days, now: time.Now}
}

func (f *Fetcher) Name() string {
	return "cost_explorer_spend"
}

func (f *Fetcher) Description() string {
	return fmt.Sprintf("Unblended AWS spend per service over the last %d days from AWS Cost Explorer, "+
		"largest first. Use it to weigh recommendations against where money is actually spent.", f.days)
}

func (f *Fetcher) Invoke(ctx context.Context) (domain.Result, error) {
	return f.Fetch(ctx)
}

// Period returns the queried window; Cost Explorer treats End as exclusive.
func (f *Fetcher) Period() domain.TimePeriod {
	return f.PeriodLast(f.days)
}

// PeriodLast is the window FetchLast queries for days.
func (f *Fetcher) PeriodLast(days int) domain.TimePeriod {
	if days <= 0 {
		days = f.days
	}
	end := f.now().UTC()
	return domain.TimePeriod{
		Start:    end.AddDate(0, 0, -days),
		End:      end,
		Duration: days,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) (domain.Result, error) {
	period := f.Period()

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(period.Start.Format(dateLayout)),
			End:   aws.String(period.End.Format(dateLayout)),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{metricUnblendedCost},
		Filter: &types.Expression{
			Not: &types.Expression{
				Dimensions: &types.DimensionValues{
					Key:    types.DimensionRecordType,
					Values: []string{"Credit", "Refund"},
				},
			},
		},
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String(string(types.DimensionService)),
			},
		},
	}

	result, err := f.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return domain.Result{}, domain.NewUpstreamError(ServiceName, "GetCostAndUsage", err)
	}

	t := transformCostAndUsageResult(result)
	if t.Len() == 0 {
		return domain.EmptyResult(EmptyMessage), nil
	}
	table.SortDescending(&t, ColAmount)

	zerolog.Ctx(ctx).Debug().
		Int("services", t.Len()).
		Int("days", f.days).
		Msg("cost explorer spend summarised")

	return domain.RowsResult(t), nil
}

// FetchLast is Fetch over a different window; days <= 0 keeps the configured one.
func (f *Fetcher) FetchLast(ctx context.Context, days int) (domain.Result, error) {
	if days <= 0 {
		return f.Fetch(ctx)
	}
	window := *f
	window.days = days
	return window.Fetch(ctx)
}

type serviceSpend struct {
	amount   float64
	currency string
}

// transformCostAndUsageResult sums every time bucket per service and drops
// services that cost nothing.
func transformCostAndUsageResult(result *costexplorer.GetCostAndUsageOutput) domain.Table {
	var order []string
	totals := make(map[string]*serviceSpend)

	for _, resultByTime := range result.ResultsByTime {
		for _, group := range resultByTime.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics[metricUnblendedCost]
			if !ok {
				continue
			}
			amount, err := strconv.ParseFloat(aws.ToString(metric.Amount), 64)
			if err != nil {
				continue
			}

			service := group.Keys[0]
			total, exists := totals[service]
			if !exists {
				total = &serviceSpend{currency: aws.ToString(metric.Unit)}
				totals[service] = total
				order = append(order, service)
			}
			total.amount += amount
		}
	}

	records := make([][]domain.Field, 0, len(order))
	for _, service := range order {
		total := totals[service]
		if total.amount == 0 {
			continue
		}
		records = append(records, []domain.Field{
			{Key: ColService, Value: service},
			{Key: ColAmount, Value: total.amount},
			{Key: ColCurrency, Value: total.currency},
		})
	}
	return domain.NewTable(records)
}

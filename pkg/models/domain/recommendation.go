package domain

// Column names of a Cost Optimization Hub row, in output order.
const (
	ColRecommendationID     = "Recommendation ID"
	ColResourceType         = "Resource Type"
	ColResourceID           = "Resource ID"
	ColEstimatedSavings     = "Estimated Monthly Savings ($)"
	ColEstimatedSavingsPct  = "Estimated Savings Percentage"
	ColEstimatedCost        = "Estimated Monthly Cost ($)"
	ColImplementationEffort = "Implementation Effort"
	ColRestartNeeded        = "Is Resource Restart Needed"
	ColRollbackPossible     = "Is Rollback Possible"
	ColRecommendedAction    = "Top Recommended Action"
	ColCurrentSummary       = "Current Resource Summary"
	ColRecommendedSummary   = "Recommended Resource Summary"
	ColCurrency             = "Currency"
)

// Recommendation is a Cost Optimization Hub recommendation with defaults already applied.
// Values typed any are either their natural type or NotAvailable.
type Recommendation struct {
	ID                   string
	ResourceType         string
	ResourceID           string
	MonthlySavings       float64
	SavingsPercentage    any
	MonthlyCost          float64
	ImplementationEffort string
	RestartNeeded        any
	RollbackPossible     any
	Action               string
	CurrentSummary       string
	RecommendedSummary   string
	Currency             string
}

func (r Recommendation) Fields() []Field {
	return []Field{
		{Key: ColRecommendationID, Value: r.ID},
		{Key: ColResourceType, Value: r.ResourceType},
		{Key: ColResourceID, Value: r.ResourceID},
		{Key: ColEstimatedSavings, Value: r.MonthlySavings},
		{Key: ColEstimatedSavingsPct, Value: r.SavingsPercentage},
		{Key: ColEstimatedCost, Value: r.MonthlyCost},
		{Key: ColImplementationEffort, Value: r.ImplementationEffort},
		{Key: ColRestartNeeded, Value: r.RestartNeeded},
		{Key: ColRollbackPossible, Value: r.RollbackPossible},
		{Key: ColRecommendedAction, Value: r.Action},
		{Key: ColCurrentSummary, Value: r.CurrentSummary},
		{Key: ColRecommendedSummary, Value: r.RecommendedSummary},
		{Key: ColCurrency, Value: r.Currency},
	}
}

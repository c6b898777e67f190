package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/finops-agent/pkg/models/api"
	"github.com/de-tools/finops-agent/pkg/models/domain"
)

func MapResultDomainToApi(r domain.Result) (api.Result, error) {
	if r.IsEmpty() {
		return api.Result{Status: api.ResultStatusEmpty, Message: r.Message}, nil
	}
	rows, err := json.Marshal(r.Table)
	if err != nil {
		return api.Result{}, fmt.Errorf("failed to encode rows: %w", err)
	}
	return api.Result{Status: api.ResultStatusOK, Rows: rows}, nil
}

func MapSpendDomainToApi(r domain.Result, p domain.TimePeriod) (api.SpendResult, error) {
	result, err := MapResultDomainToApi(r)
	if err != nil {
		return api.SpendResult{}, err
	}
	return api.SpendResult{Result: result, Period: MapTimePeriodDomainToApi(p)}, nil
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Start:    p.Start,
		End:      p.End,
		Duration: p.Duration,
	}
}

func MapReportDomainToApi(r domain.Report) api.Report {
	return api.Report{
		RunID:      r.RunID,
		Markdown:   r.Markdown,
		Steps:      r.Steps,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMs: r.Duration().Milliseconds(),
	}
}

// MapErrorToApi picks the response status for err: 502 when an upstream
// service failed, 500 otherwise.
func MapErrorToApi(err error) (api.Error, int) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return api.Error{Error: upstream.Error(), Service: upstream.Service}, http.StatusBadGateway
	}
	return api.Error{Error: err.Error()}, http.StatusInternalServerError
}

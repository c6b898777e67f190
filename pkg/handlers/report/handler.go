package report

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/de-tools/finops-agent/pkg/adapters"
	"github.com/de-tools/finops-agent/pkg/assets"
	"github.com/de-tools/finops-agent/pkg/models/api"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/rs/zerolog"
)

type Analyst interface {
	Analyze(ctx context.Context) (*domain.Report, error)
}

// Source is a recommendation fetcher.
type Source interface {
	Fetch(ctx context.Context) (domain.Result, error)
}

type SpendSource interface {
	FetchLast(ctx context.Context, days int) (domain.Result, error)
	PeriodLast(days int) domain.TimePeriod
}

type Handler struct {
	analyst Analyst
	advisor Source
	hub     Source
	spend   SpendSource
	avatar  assets.Image
	page    *page
}

type Options struct {
	Analyst Analyst
	Advisor Source
	Hub     Source
	Spend   SpendSource
	Avatar  assets.Image
	Title   string
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		analyst: opts.Analyst,
		advisor: opts.Advisor,
		hub:     opts.Hub,
		spend:   opts.Spend,
		avatar:  opts.Avatar,
		page:    newPage(opts.Title),
	}
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := h.analyst.Analyze(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create report")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(*report))
}

func (h *Handler) ListAdvisorFindings(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.advisor, "trusted advisor findings")
}

func (h *Handler) ListHubRecommendations(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.hub, "cost optimization hub recommendations")
}

func (h *Handler) GetSpend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.spend == nil {
		http.NotFound(w, r)
		return
	}

	var days int
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, r, http.StatusBadRequest, api.Error{Error: "days must be a positive integer"})
			return
		}
		days = n
	}

	result, err := h.spend.FetchLast(ctx, days)
	if err != nil {
		logger.Error().Err(err).Int("days", days).Msg("failed to fetch spend")
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapSpendDomainToApi(result, h.spend.PeriodLast(days))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetAvatar(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", h.avatar.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.avatar.Data)
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, source Source, what string) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := source.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msgf("failed to fetch %s", what)
		writeError(w, r, err)
		return
	}
	h.encodeResult(w, r, result)
}

func (h *Handler) encodeResult(w http.ResponseWriter, r *http.Request, result domain.Result) {
	response, err := adapters.MapResultDomainToApi(result)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body, status := adapters.MapErrorToApi(err)
	writeJSON(w, r, status, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

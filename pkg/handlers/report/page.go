package report

import (
	"bytes"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	DefaultTitle = "FinAI: AWS Cost Optimization Agent"
	BusyText     = "Analyzing Your AWS Infrastructure..."
)

//go:embed page.html
var pageHTML string

type page struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
	title    string
}

type pageData struct {
	Title    string
	BusyText string
	Report   template.HTML
	RunID    string
	Steps    int
	Duration time.Duration
	Error    string
	Upstream bool
	Service  string
}

func newPage(title string) *page {
	if title == "" {
		title = DefaultTitle
	}
	return &page{
		tmpl:     template.Must(template.New("page").Parse(pageHTML)),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		title:    title,
	}
}

// RenderMarkdown converts agent markdown to HTML. Raw HTML in the input is
// omitted by goldmark's default renderer.
func (p *page) RenderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.page.data())
}

// RunReport invokes the agent synchronously and renders its final message.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	data := h.page.data()

	report, err := h.analyst.Analyze(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("agent run failed")

		data.Error = err.Error()
		status := http.StatusInternalServerError
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			data.Upstream = true
			data.Service = upstream.Service
			status = http.StatusBadGateway
		}
		h.render(w, r, status, data)
		return
	}

	html, err := h.page.RenderMarkdown(report.Markdown)
	if err != nil {
		logger.Error().Err(err).Str("run_id", report.RunID).Msg("failed to render report markdown")
		data.Error = err.Error()
		h.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Report = html
	data.RunID = report.RunID
	data.Steps = report.Steps
	data.Duration = report.Duration().Round(time.Millisecond)
	h.render(w, r, http.StatusOK, data)
}

func (p *page) data() pageData {
	return pageData{Title: p.title, BusyText: BusyText}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.page.tmpl.Execute(&buf, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

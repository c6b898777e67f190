package analyst

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner executes one agent conversation and returns the final message.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, int, error)
}

type Service interface {
	Analyze(ctx context.Context) (*domain.Report, error)
}

type analyst struct {
	runner Runner
	prompt string
	now    func() time.Time
}

func NewService(runner Runner, prompt string) Service {
	return &analyst{
		runner: runner,
		prompt: prompt,
		now:    time.Now,
	}
}

func (a *analyst) Analyze(ctx context.Context) (*domain.Report, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	started := a.now()
	logger.Info().Msg("cost analysis started")

	markdown, steps, err := a.runner.Run(ctx, a.prompt)
	finished := a.now()
	if err != nil {
		logger.Error().Err(err).
			Int("steps", steps).
			Dur("duration", finished.Sub(started)).
			Msg("cost analysis failed")
		return nil, fmt.Errorf("analysis %s failed: %w", runID, err)
	}

	report := &domain.Report{
		RunID:      runID,
		Markdown:   markdown,
		Steps:      steps,
		StartedAt:  started,
		FinishedAt: finished,
	}

	logger.Info().
		Int("steps", steps).
		Dur("duration", report.Duration()).
		Msg("cost analysis finished")

	return report, nil
}

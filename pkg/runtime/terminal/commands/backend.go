package commands

import (
	"context"

	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/de-tools/finops-agent/pkg/services/config"
)

type Analyst interface {
	Analyze(ctx context.Context) (*domain.Report, error)
}

type Source interface {
	Fetch(ctx context.Context) (domain.Result, error)
}

type SpendSource interface {
	FetchLast(ctx context.Context, days int) (domain.Result, error)
}

// Backend builds services on first use so that commands which never touch
// AWS do not need credentials.
type Backend interface {
	Analyst(ctx context.Context) (Analyst, error)
	Advisor(ctx context.Context) (Source, error)
	Hub(ctx context.Context) (Source, error)
	Spend(ctx context.Context) (SpendSource, error)
	Profiles(ctx context.Context) ([]config.Profile, error)
}

package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/de-tools/finops-agent/pkg/runtime/terminal/export"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Analyst(ctx context.Context) (Analyst, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Analyst), args.Error(1)
}

func (m *mockBackend) Advisor(ctx context.Context) (Source, error) {
	args := m.Called(ctx)
	return args.Get(0).(Source), args.Error(1)
}

func (m *mockBackend) Hub(ctx context.Context) (Source, error) {
	args := m.Called(ctx)
	return args.Get(0).(Source), args.Error(1)
}

func (m *mockBackend) Spend(ctx context.Context) (SpendSource, error) {
	args := m.Called(ctx)
	return args.Get(0).(SpendSource), args.Error(1)
}

func (m *mockBackend) Profiles(ctx context.Context) ([]config.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]config.Profile), args.Error(1)
}

type mockAnalyst struct {
	mock.Mock
}

func (m *mockAnalyst) Analyze(ctx context.Context) (*domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) (domain.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Result), args.Error(1)
}

type mockSpend struct {
	mock.Mock
}

func (m *mockSpend) FetchLast(ctx context.Context, days int) (domain.Result, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(domain.Result), args.Error(1)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	if args == nil {
		// cobra falls back to os.Args when no args are set
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetContext(context.Background())
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func TestAnalyzeCmd(t *testing.T) {
	// Given
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	analyst := new(mockAnalyst)
	analyst.On("Analyze", mock.Anything).Return(&domain.Report{
		RunID:      "run-1",
		Markdown:   "## Action Items",
		Steps:      4,
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
	}, nil)
	backend := new(mockBackend)
	backend.On("Analyst", mock.Anything).Return(analyst, nil)

	var out bytes.Buffer

	// When
	err := execute(t, NewAnalyzeCmd(backend, export.NewReporter(&out)))

	// Then
	require.NoError(t, err)
	assert.Equal(t, "## Action Items\n\n---\nRun run-1 finished in 3s after 4 steps.\n", out.String())

	ctx := analyst.Calls[0].Arguments.Get(0).(context.Context)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAnalyzeCmd_Failure(t *testing.T) {
	analyst := new(mockAnalyst)
	analyst.On("Analyze", mock.Anything).
		Return(nil, domain.NewUpstreamError("bedrock", "Converse", errors.New("AccessDeniedException")))
	backend := new(mockBackend)
	backend.On("Analyst", mock.Anything).Return(analyst, nil)

	err := execute(t, NewAnalyzeCmd(backend, export.NewReporter(new(bytes.Buffer))))

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorContains(t, err, "analysis failed")
}

func TestAnalyzeCmd_BackendFailure(t *testing.T) {
	backend := new(mockBackend)
	backend.On("Analyst", mock.Anything).Return(nil, errors.New("no credentials"))

	err := execute(t, NewAnalyzeCmd(backend, export.NewReporter(new(bytes.Buffer))))

	assert.EqualError(t, err, "no credentials")
}

func TestAdvisorAndHubCmds(t *testing.T) {
	advisor := new(mockSource)
	advisor.On("Fetch", mock.Anything).Return(domain.EmptyResult("No flagged Trusted Advisor cost checks found."), nil)
	hub := new(mockSource)
	hub.On("Fetch", mock.Anything).Return(domain.Result{}, errors.New("denied"))

	backend := new(mockBackend)
	backend.On("Advisor", mock.Anything).Return(advisor, nil)
	backend.On("Hub", mock.Anything).Return(hub, nil)

	var out bytes.Buffer
	reporter := export.NewReporter(&out)

	err := execute(t, NewAdvisorCmd(backend, reporter))
	require.NoError(t, err)
	assert.Equal(t, "Trusted Advisor cost findings: No flagged Trusted Advisor cost checks found.\n", out.String())

	err = execute(t, NewHubCmd(backend, reporter))
	assert.ErrorContains(t, err, "failed to fetch Cost Optimization Hub recommendations: denied")
}

func TestSpendCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		days    int
		wantErr string
	}{
		{name: "configured window", args: nil, days: 0},
		{name: "explicit window", args: []string{"--days", "7"}, days: 7},
		{name: "negative window", args: []string{"--days=-1"}, wantErr: "--days must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spend := new(mockSpend)
			spend.On("FetchLast", mock.Anything, tt.days).Return(domain.EmptyResult("none"), nil)
			backend := new(mockBackend)
			backend.On("Spend", mock.Anything).Return(spend, nil)

			var out bytes.Buffer
			err := execute(t, NewSpendCmd(backend, export.NewReporter(&out)), tt.args...)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				spend.AssertNotCalled(t, "FetchLast", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Spend by service: none\n", out.String())
			spend.AssertExpectations(t)
		})
	}
}

func TestProfilesCmd(t *testing.T) {
	backend := new(mockBackend)
	backend.On("Profiles", mock.Anything).Return([]config.Profile{}, nil)

	var out bytes.Buffer
	err := execute(t, NewProfilesCmd(backend, export.NewReporter(&out)))

	require.NoError(t, err)
	assert.Equal(t, "No AWS profiles found.\n", out.String())
}

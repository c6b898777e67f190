package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	"github.com/aws/aws-sdk-go-v2/service/support"
	"github.com/de-tools/finops-agent/pkg/assets"
	"github.com/de-tools/finops-agent/pkg/services/advisor"
	"github.com/de-tools/finops-agent/pkg/services/agent"
	"github.com/de-tools/finops-agent/pkg/services/analyst"
	"github.com/de-tools/finops-agent/pkg/services/awscfg"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/de-tools/finops-agent/pkg/services/hub"
	"github.com/de-tools/finops-agent/pkg/services/spend"
	"github.com/rs/zerolog"
)

// Clients are the AWS API clients the services are built on.
type Clients struct {
	Support      advisor.SupportAPI
	Hub          hub.HubAPI
	CostExplorer spend.CostExplorerAPI
	Bedrock      agent.ConverseAPI
}

// Services holds everything a front end needs. The agent is built once and
// shared by every run.
type Services struct {
	Advisor *advisor.Fetcher
	Hub     *hub.Fetcher
	Spend   *spend.Fetcher
	Agent   *agent.Agent
	Analyst analyst.Service
	Avatar  assets.Image
}

// NewClients resolves AWS credentials and creates the clients. Support, Cost
// Optimization Hub and Cost Explorer use the service region; Bedrock uses
// the default region.
func NewClients(ctx context.Context, cfg *config.Config) (Clients, error) {
	awsCfg, err := awscfg.LoadConfig(ctx, awscfg.Settings{
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
		Profile:         cfg.AWS.Profile,
		Region:          cfg.AWS.Region,
	})
	if err != nil {
		return Clients{}, err
	}

	serviceCfg := awscfg.ForRegion(*awsCfg, cfg.AWS.ServiceRegion)

	zerolog.Ctx(ctx).Debug().
		Str("region", awsCfg.Region).
		Str("service_region", serviceCfg.Region).
		Msg("aws clients configured")

	return newClients(*awsCfg, serviceCfg), nil
}

func newClients(defaultCfg, serviceCfg aws.Config) Clients {
	return Clients{
		Support:      support.NewFromConfig(serviceCfg),
		Hub:          costoptimizationhub.NewFromConfig(serviceCfg),
		CostExplorer: costexplorer.NewFromConfig(serviceCfg),
		Bedrock:      bedrockruntime.NewFromConfig(defaultCfg),
	}
}

func New(cfg *config.Config, clients Clients) (*Services, error) {
	s := &Services{
		Advisor: advisor.NewFetcher(clients.Support),
		Hub:     hub.NewFetcher(clients.Hub),
		Spend:   spend.NewFetcher(clients.CostExplorer, cfg.Spend.Days),
	}

	tools := []agent.Tool{s.Advisor, s.Hub}
	if cfg.Agent.EnableSpendTool {
		tools = append(tools, s.Spend)
	}

	a, err := agent.New(clients.Bedrock, agent.Options{
		ModelID:     cfg.Agent.ModelID,
		MaxTurns:    cfg.Agent.MaxTurns,
		MaxTokens:   cfg.Agent.MaxTokens,
		Temperature: cfg.Agent.Temperature,
	}, tools...)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	s.Agent = a

	prompt, err := assets.LoadPrompt(cfg.Agent.PromptFile)
	if err != nil {
		return nil, err
	}
	s.Analyst = analyst.NewService(a, prompt)

	s.Avatar, err = assets.LoadAvatar(cfg.UI.AvatarPath)
	if err != nil {
		return nil, err
	}

	return s, nil
}

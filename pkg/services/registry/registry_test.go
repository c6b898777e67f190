package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Agent: config.AgentConfig{
			ModelID:   "anthropic.claude-3-haiku-20240307-v1:0",
			MaxTurns:  10,
			MaxTokens: 2048,
		},
		Spend: config.SpendConfig{Days: 14},
	}
}

func testClients() Clients {
	return newClients(aws.Config{Region: "eu-west-1"}, aws.Config{Region: "us-east-1"})
}

func TestNew_RegistersTools(t *testing.T) {
	tests := []struct {
		name          string
		enableSpend   bool
		expectedTools []string
	}{
		{
			name:          "default tools",
			expectedTools: []string{"trusted_advisor_finops", "cost_optimization_hub"},
		},
		{
			name:          "with spend tool",
			enableSpend:   true,
			expectedTools: []string{"trusted_advisor_finops", "cost_optimization_hub", "cost_explorer_spend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Agent.EnableSpendTool = tt.enableSpend

			services, err := New(cfg, testClients())

			require.NoError(t, err)
			assert.Equal(t, tt.expectedTools, services.Agent.Tools())
			assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", services.Agent.ModelID())
			assert.Equal(t, 14, services.Spend.Period().Duration)
			assert.NotNil(t, services.Analyst)
			assert.Equal(t, "image/svg+xml", services.Avatar.ContentType)
		})
	}
}

func TestNew_CustomAssets(t *testing.T) {
	dir := t.TempDir()
	avatar := filepath.Join(dir, "agent.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png"), 0o644))

	cfg := testConfig()
	cfg.UI.AvatarPath = avatar
	cfg.Agent.PromptFile = filepath.Join(dir, "missing.md")

	_, err := New(cfg, testClients())
	assert.ErrorContains(t, err, "failed to read prompt file")

	cfg.Agent.PromptFile = ""
	services, err := New(cfg, testClients())
	require.NoError(t, err)
	assert.Equal(t, "image/png", services.Avatar.ContentType)
}

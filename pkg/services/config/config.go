package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AWSConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	ServiceRegion   string `mapstructure:"service_region"`
}

type AgentConfig struct {
	ModelID         string  `mapstructure:"model_id"`
	MaxTurns        int     `mapstructure:"max_turns"`
	MaxTokens       int32   `mapstructure:"max_tokens"`
	Temperature     float32 `mapstructure:"temperature"`
	PromptFile      string  `mapstructure:"prompt_file"`
	EnableSpendTool bool    `mapstructure:"enable_spend_tool"`
}

type SpendConfig struct {
	Days int `mapstructure:"days"`
}

type UIConfig struct {
	AvatarPath string `mapstructure:"avatar_path"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	AWS    AWSConfig    `mapstructure:"aws"`
	Agent  AgentConfig  `mapstructure:"agent"`
	Spend  SpendConfig  `mapstructure:"spend"`
	UI     UIConfig     `mapstructure:"ui"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

var defaults = map[string]any{
	"aws.service_region":      "us-east-1",
	"agent.model_id":          "anthropic.claude-3-5-sonnet-20240620-v1:0",
	"agent.max_turns":         25,
	"agent.max_tokens":        4096,
	"agent.temperature":       0.0,
	"agent.enable_spend_tool": false,
	"spend.days":              30,
	"server.host":             "127.0.0.1",
	"server.port":             8080,
	"log.level":               "info",
}

var envBindings = map[string]string{
	"aws.access_key_id":       "AWS_ACCESS_KEY_ID",
	"aws.secret_access_key":   "AWS_SECRET_ACCESS_KEY",
	"aws.session_token":       "AWS_SESSION_TOKEN",
	"aws.region":              "AWS_REGION",
	"aws.profile":             "AWS_PROFILE",
	"aws.service_region":      "FINOPS_SERVICE_REGION",
	"agent.model_id":          "FINOPS_MODEL_ID",
	"agent.max_turns":         "FINOPS_MAX_TURNS",
	"agent.max_tokens":        "FINOPS_MAX_TOKENS",
	"agent.temperature":       "FINOPS_TEMPERATURE",
	"agent.prompt_file":       "FINOPS_PROMPT_FILE",
	"agent.enable_spend_tool": "FINOPS_ENABLE_SPEND_TOOL",
	"spend.days":              "FINOPS_SPEND_DAYS",
	"ui.avatar_path":          "FINOPS_AVATAR_PATH",
	"server.host":             "SERVER_HOST",
	"server.port":             "SERVER_PORT",
	"log.level":               "LOG_LEVEL",
}

// LoadDotEnv loads variables from the given files (".env" when none) into the
// process environment. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration from defaults, the optional file at path and
// the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Agent.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("agent.max_turns must be positive, got %d", c.Agent.MaxTurns))
	}
	if c.Agent.MaxTokens < 1 {
		errs = append(errs, fmt.Errorf("agent.max_tokens must be positive, got %d", c.Agent.MaxTokens))
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 1 {
		errs = append(errs, fmt.Errorf("agent.temperature must be within [0, 1], got %g", c.Agent.Temperature))
	}
	if c.Spend.Days < 1 {
		errs = append(errs, fmt.Errorf("spend.days must be positive, got %d", c.Spend.Days))
	}
	if (c.AWS.AccessKeyID == "") != (c.AWS.SecretAccessKey == "") {
		errs = append(errs, errors.New("aws.access_key_id and aws.secret_access_key must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the host:port pair the web server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

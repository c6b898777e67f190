package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/finops-agent/pkg/runtime/terminal/commands"
	"github.com/de-tools/finops-agent/pkg/runtime/terminal/export"
	"github.com/de-tools/finops-agent/pkg/services/config"
	"github.com/de-tools/finops-agent/pkg/services/registry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ServicesFactory builds the services from a resolved configuration.
type ServicesFactory func(ctx context.Context, cfg *config.Config) (*registry.Services, error)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
	backend  *backend
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
	Services  ServicesFactory
	// CredentialsPath and ConfigPath override the shared AWS files listed by
	// the profiles command.
	CredentialsPath string
	ConfigPath      string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Services == nil {
		opts.Services = DefaultServices
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		backend: &backend{
			factory:         opts.Services,
			credentialsPath: opts.CredentialsPath,
			configPath:      opts.ConfigPath,
			logOutput:       opts.LogOutput,
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "finops",
		Short:        "AWS cost optimization agent",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := cli.backend.configure(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.backend.cfgPath, "config", "c", "", "Path to an optional YAML configuration file")
	cmd.PersistentFlags().StringVar(&cli.backend.envPath, "env-file", ".env", "Path to a .env file loaded before the environment")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewAdvisorCmd(cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewHubCmd(cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewSpendCmd(cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewProfilesCmd(cli.backend, cli.reporter))

	return cmd
}

// DefaultServices validates the configured profile, resolves AWS credentials
// and builds the services.
func DefaultServices(ctx context.Context, cfg *config.Config) (*registry.Services, error) {
	profiles, err := config.NewRegistry(config.DefaultProfilePaths())
	if err != nil {
		return nil, fmt.Errorf("failed to read AWS profiles: %w", err)
	}
	if err := config.ValidateProfile(ctx, profiles, cfg.AWS.Profile); err != nil {
		return nil, err
	}

	clients, err := registry.NewClients(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure AWS: %w", err)
	}
	return registry.New(cfg, clients)
}

// backend loads the configuration before a command runs and builds the
// services once, on first use.
type backend struct {
	cfgPath         string
	envPath         string
	credentialsPath string
	configPath      string
	logOutput       io.Writer
	factory         ServicesFactory

	cfg      *config.Config
	services *registry.Services
}

// configure loads the configuration and returns ctx carrying the CLI logger.
func (b *backend) configure(ctx context.Context) (context.Context, error) {
	if err := config.LoadDotEnv(b.envPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load(b.cfgPath)
	if err != nil {
		return nil, err
	}
	b.cfg = cfg

	return newLogger(b.logOutput, cfg.Log.Level).WithContext(ctx), nil
}

func (b *backend) load(ctx context.Context) (*registry.Services, error) {
	if b.services != nil {
		return b.services, nil
	}

	if b.cfg == nil {
		var err error
		if ctx, err = b.configure(ctx); err != nil {
			return nil, err
		}
	}

	services, err := b.factory(ctx, b.cfg)
	if err != nil {
		return nil, err
	}
	b.services = services
	return services, nil
}

func (b *backend) Analyst(ctx context.Context) (commands.Analyst, error) {
	s, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Analyst, nil
}

func (b *backend) Advisor(ctx context.Context) (commands.Source, error) {
	s, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Advisor, nil
}

func (b *backend) Hub(ctx context.Context) (commands.Source, error) {
	s, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Hub, nil
}

func (b *backend) Spend(ctx context.Context) (commands.SpendSource, error) {
	s, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Spend, nil
}

func (b *backend) Profiles(ctx context.Context) ([]config.Profile, error) {
	credentialsPath, configPath := config.DefaultProfilePaths()
	if b.credentialsPath != "" {
		credentialsPath = b.credentialsPath
	}
	if b.configPath != "" {
		configPath = b.configPath
	}

	profiles, err := config.NewRegistry(credentialsPath, configPath)
	if err != nil {
		return nil, err
	}
	return profiles.GetProfiles(ctx)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger()
}

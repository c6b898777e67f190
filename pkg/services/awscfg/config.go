package awscfg

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile or environment
)

// Settings selects how the AWS SDK resolves credentials and region.
// Static keys win over the profile; an empty profile means the default chain.
type Settings struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Profile         string
	Region          string
}

func (s Settings) hasStaticKeys() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

func LoadConfig(ctx context.Context, settings Settings) (*awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if settings.Region != "" {
		opts = append(opts, config.WithRegion(settings.Region))
	}
	if settings.hasStaticKeys() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				settings.AccessKeyID,
				settings.SecretAccessKey,
				settings.SessionToken,
			),
		))
	} else if settings.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(settings.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	_, err = awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid AWS credentials (%s): %w", settings.source(), err)
	}

	return &awsCfg, nil
}

// ForRegion returns a copy of cfg pinned to region. Support and Cost Optimization
// Hub only answer from a single endpoint region.
func ForRegion(cfg awssdk.Config, region string) awssdk.Config {
	if region == "" {
		return cfg
	}
	out := cfg.Copy()
	out.Region = region
	return out
}

func (s Settings) source() string {
	switch {
	case s.hasStaticKeys():
		return "static keys"
	case s.Profile != "":
		return "profile " + s.Profile
	default:
		return "default chain"
	}
}

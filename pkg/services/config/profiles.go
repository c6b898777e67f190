package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	SourceCredentials = "credentials"
	SourceConfig      = "config"

	configProfilePrefix = "profile "
)

type Profile struct {
	Name    string
	Region  string
	Sources []string
}

// Registry lists the AWS named profiles found in the shared credentials and
// config files.
type Registry interface {
	GetProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, name string) (Profile, error)
}

type profileRegistry struct {
	profiles map[string]*Profile
	order    []string
}

// DefaultProfilePaths honours AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE
// and falls back to ~/.aws.
func DefaultProfilePaths() (credentialsPath, configPath string) {
	home, _ := os.UserHomeDir()

	credentialsPath = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(home, ".aws", "credentials")
	}
	configPath = os.Getenv("AWS_CONFIG_FILE")
	if configPath == "" {
		configPath = filepath.Join(home, ".aws", "config")
	}
	return credentialsPath, configPath
}

// NewRegistry parses both files. Either may be missing.
func NewRegistry(credentialsPath, configPath string) (Registry, error) {
	r := &profileRegistry{profiles: make(map[string]*Profile)}

	creds, err := ini.LooseLoad(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", credentialsPath, err)
	}
	for _, section := range creds.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		r.add(section.Name(), SourceCredentials, section)
	}

	cfg, err := ini.LooseLoad(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name := section.Name()
		if name != "default" {
			var ok bool
			if name, ok = strings.CutPrefix(name, configProfilePrefix); !ok {
				// sso-session and services sections are not profiles
				continue
			}
		}
		r.add(strings.TrimSpace(name), SourceConfig, section)
	}

	return r, nil
}

func (r *profileRegistry) add(name, source string, section *ini.Section) {
	p, ok := r.profiles[name]
	if !ok {
		p = &Profile{Name: name}
		r.profiles[name] = p
		r.order = append(r.order, name)
	}
	if !slices.Contains(p.Sources, source) {
		p.Sources = append(p.Sources, source)
	}
	if region := section.Key("region").String(); region != "" && p.Region == "" {
		p.Region = region
	}
}

func (r *profileRegistry) GetProfiles(_ context.Context) ([]Profile, error) {
	profiles := make([]Profile, 0, len(r.order))
	for _, name := range r.order {
		profiles = append(profiles, *r.profiles[name])
	}
	return profiles, nil
}

func (r *profileRegistry) GetProfile(_ context.Context, name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %s not found", name)
	}
	return *p, nil
}

// ValidateProfile checks that a configured profile exists. An empty name is
// valid and means the default credential chain.
func ValidateProfile(ctx context.Context, registry Registry, name string) error {
	if name == "" {
		return nil
	}
	if _, err := registry.GetProfile(ctx, name); err != nil {
		return fmt.Errorf("invalid aws.profile: %w", err)
	}
	return nil
}

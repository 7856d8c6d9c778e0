package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

type Credentials struct {
	Email    string
	Password string
}

// CredentialsRegistry reads account credentials from an ini file with one
// section per region.
type CredentialsRegistry interface {
	GetRegions(ctx context.Context) ([]string, error)
	GetCredentials(ctx context.Context, region string) (Credentials, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewCredentialsRegistry(path string) (CredentialsRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetRegions(_ context.Context) ([]string, error) {
	var regions []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			regions = append(regions, section.Name())
		}
	}
	return regions, nil
}

func (r *iniRegistry) GetCredentials(_ context.Context, region string) (Credentials, error) {
	section, err := r.cfg.GetSection(region)
	if err != nil {
		return Credentials{}, fmt.Errorf("region %s not found in credentials file", region)
	}

	return Credentials{
		Email:    section.Key("email").String(),
		Password: section.Key("password").String(),
	}, nil
}

func applyCredentials(cfg *Config, registry CredentialsRegistry) error {
	ctx := context.Background()

	regions, err := registry.GetRegions(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(regions))
	for _, r := range regions {
		known[r] = true
	}

	for i := range cfg.Regions {
		r := &cfg.Regions[i]
		if !known[r.Name] {
			continue
		}

		creds, err := registry.GetCredentials(ctx, r.Name)
		if err != nil {
			return err
		}
		if creds.Email != "" {
			r.Email = creds.Email
		}
		if creds.Password != "" {
			r.Password = creds.Password
		}
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "TENANTHEALTH"

var (
	ErrNoRegions        = errors.New("at least one region must be configured")
	ErrDuplicateRegion  = errors.New("region configured more than once")
	ErrMissingRegion    = errors.New("region name is required")
	ErrMissingAPIURL    = errors.New("region api_url is required")
	ErrInvalidThreshold = errors.New("thresholds must be positive")
	ErrUnknownRegion    = errors.New("region is not configured")
)

type Config struct {
	Regions         []Region    `mapstructure:"regions"`
	Thresholds      Thresholds  `mapstructure:"thresholds"`
	Concurrency     Concurrency `mapstructure:"concurrency"`
	HTTP            HTTP        `mapstructure:"http"`
	Output          Output      `mapstructure:"output"`
	Log             Log         `mapstructure:"log"`
	CredentialsFile string      `mapstructure:"credentials_file"`
}

type Region struct {
	Name         string     `mapstructure:"name"`
	APIURL       string     `mapstructure:"api_url"`
	Email        string     `mapstructure:"email"`
	Password     string     `mapstructure:"password"`
	Tenants      []string   `mapstructure:"tenants"`
	IgnoreEmails []string   `mapstructure:"ignore_emails"`
	Mongo        Mongo      `mapstructure:"mongo"`
	ClickHouse   ClickHouse `mapstructure:"clickhouse"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type ClickHouse struct {
	DSN string `mapstructure:"dsn"`
}

// Thresholds of the analytics checks. Account staleness bands are fixed.
type Thresholds struct {
	RecencyHours    float64 `mapstructure:"recency_hours"`
	CountWindowDays int     `mapstructure:"count_window_days"`
}

type Concurrency struct {
	Tenants int `mapstructure:"tenants"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Output struct {
	Dir string `mapstructure:"dir"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("thresholds.recency_hours", 24.0)
	v.SetDefault("thresholds.count_window_days", 7)
	v.SetDefault("concurrency.tenants", 1)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("output.dir", "output")
	v.SetDefault("log.level", "info")
	v.SetDefault("credentials_file", "")
}

// LoadConfig reads a YAML config file. Top-level keys can be overridden with
// TENANTHEALTH_ variables (e.g. TENANTHEALTH_LOG_LEVEL) and per-region
// values with TENANTHEALTH_<REGION>_<KEY>. Credentials from the optional ini
// file win over both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyRegionEnv(&cfg)

	if cfg.CredentialsFile != "" {
		registry, err := NewCredentialsRegistry(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials file: %w", err)
		}
		if err := applyCredentials(&cfg, registry); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyRegionEnv(cfg *Config) {
	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	env.AutomaticEnv()

	for i := range cfg.Regions {
		r := &cfg.Regions[i]
		prefix := strings.ToLower(r.Name) + "_"

		if s := env.GetString(prefix + "api_url"); s != "" {
			r.APIURL = s
		}
		if s := env.GetString(prefix + "email"); s != "" {
			r.Email = s
		}
		if s := env.GetString(prefix + "password"); s != "" {
			r.Password = s
		}
		if s := env.GetString(prefix + "tenants"); s != "" {
			r.Tenants = splitList(s)
		}
		if s := env.GetString(prefix + "ignore_emails"); s != "" {
			r.IgnoreEmails = splitList(s)
		}
		if s := env.GetString(prefix + "mongo_uri"); s != "" {
			r.Mongo.URI = s
		}
		if s := env.GetString(prefix + "mongo_database"); s != "" {
			r.Mongo.Database = s
		}
		if s := env.GetString(prefix + "clickhouse_dsn"); s != "" {
			r.ClickHouse.DSN = s
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return ErrNoRegions
	}

	seen := make(map[string]struct{}, len(c.Regions))
	for _, r := range c.Regions {
		if r.Name == "" {
			return ErrMissingRegion
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRegion, r.Name)
		}
		seen[r.Name] = struct{}{}

		if r.APIURL == "" {
			return fmt.Errorf("%w: %s", ErrMissingAPIURL, r.Name)
		}
	}

	if c.Thresholds.RecencyHours <= 0 || c.Thresholds.CountWindowDays <= 0 {
		return ErrInvalidThreshold
	}
	if c.Concurrency.Tenants < 1 {
		c.Concurrency.Tenants = 1
	}

	return nil
}

// Select returns a copy of the config restricted to the named regions, in
// the order they are configured. No names selects every region.
func (c *Config) Select(names ...string) (*Config, error) {
	if len(names) == 0 {
		return c, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}

	selected := *c
	selected.Regions = nil
	for _, r := range c.Regions {
		if _, ok := wanted[r.Name]; ok {
			selected.Regions = append(selected.Regions, r)
			wanted[r.Name] = true
		}
	}

	for name, found := range wanted {
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, name)
		}
	}

	return &selected, nil
}

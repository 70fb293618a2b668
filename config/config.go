package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Moonflow  MoonflowConfig  `yaml:"moonflow"`
	API       APIConfig       `yaml:"api"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Storage   StorageConfig   `yaml:"storage"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type MoonflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig describes how to reach the Moon Dev data API.
type APIConfig struct {
	BaseURL        string          `yaml:"base_url"`
	Key            string          `yaml:"key"`
	KeyInQuery     bool            `yaml:"key_in_query"`
	Timeout        time.Duration   `yaml:"timeout"`
	HyperliquidURL string          `yaml:"hyperliquid_url"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig enables the optional client-side throttle. The service
// enforces 3600 requests/minute server-side; when disabled the client is
// purely reactive and 429 responses surface to the caller.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

type SwarmConfig struct {
	GatewayURL  string        `yaml:"gateway_url"`
	Key         string        `yaml:"key"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RecorderConfig drives the snapshot recorder daemon. Endpoints are API
// paths polled on every interval and archived verbatim.
type RecorderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Endpoints []string      `yaml:"endpoints"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type DashboardConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Address         string        `yaml:"address"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LogHistory      int           `yaml:"log_history"`
	SnapshotHistory int           `yaml:"snapshot_history"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	MaxAge        int    `yaml:"max_age"`
	DashboardName string `yaml:"dashboard_name"`
}

const (
	// DefaultBaseURL is the fixed production host of the data API.
	DefaultBaseURL = "https://api.moondev.com"
	// DefaultGatewayURL is the OpenRouter-compatible chat completions gateway.
	DefaultGatewayURL = "https://openrouter.ai/api/v1"

	apiKeyEnvVar     = "MOONDEV_API_KEY"
	gatewayKeyEnvVar = "OPENROUTER_API_KEY"
)

const defaultConfigPath = "config/config.yml"

var envConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, defaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 3600,
				Burst:             60,
			},
		},
		Swarm: SwarmConfig{
			GatewayURL:  DefaultGatewayURL,
			MaxTokens:   2048,
			Temperature: 0.7,
			Timeout:     2 * time.Minute,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides lets environment variables win over file values for
// secrets so keys never have to live in the config file.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv(apiKeyEnvVar); v != "" {
		config.API.Key = strings.TrimSpace(v)
	}
	if v := os.Getenv(gatewayKeyEnvVar); v != "" {
		config.Swarm.Key = strings.TrimSpace(v)
	}

	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)
}

func validateConfig(cfg *Config) error {
	if cfg.Moonflow.Name == "" {
		return fmt.Errorf("moonflow.name is required")
	}

	if cfg.Moonflow.Version == "" {
		return fmt.Errorf("moonflow.version is required")
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be greater than 0")
	}

	// Development tolerates a missing key so local tooling can construct
	// clients lazily; production-like deployments must carry one.
	if IsProductionLike(AppEnvironment()) && cfg.API.Key == "" {
		return fmt.Errorf("api.key (or %s) is required in %s", apiKeyEnvVar, AppEnvironment())
	}

	if cfg.API.RateLimit.Enabled {
		if cfg.API.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("api.rate_limit.requests_per_minute must be greater than 0")
		}
		if cfg.API.RateLimit.RequestsPerMinute > 3600 {
			return fmt.Errorf("api.rate_limit.requests_per_minute exceeds the service cap of 3600")
		}
	}

	if cfg.Recorder.Enabled {
		if cfg.Recorder.Interval <= 0 {
			return fmt.Errorf("recorder.interval must be greater than 0")
		}
		if len(cfg.Recorder.Endpoints) == 0 {
			return fmt.Errorf("recorder.endpoints must name at least one endpoint")
		}
		for _, ep := range cfg.Recorder.Endpoints {
			if !strings.HasPrefix(ep, "/") {
				return fmt.Errorf("recorder endpoint %q must be an absolute path", ep)
			}
		}
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}

package config

import (
	"os"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file required for
// LoadConfig and returns its path.
func writeTempConfig(t *testing.T) string {
	t.Helper()
	content := `moonflow:
  name: "TestApp"
  version: "1.0"
api:
  base_url: "https://api.example.com"
  timeout: 10s
recorder:
  enabled: true
  interval: 30s
  endpoints:
    - /api/liquidations/1h.json
storage:
  s3:
    enabled: false
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Moonflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Moonflow.Name)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.API.Timeout)
	}
	if cfg.Recorder.Interval != 30*time.Second {
		t.Errorf("unexpected recorder interval: %v", cfg.Recorder.Interval)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	content := `moonflow:
  name: "TestApp"
  version: "1.0"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	cfg, err := LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base url default not applied: %s", cfg.API.BaseURL)
	}
	if cfg.API.RateLimit.RequestsPerMinute != 3600 {
		t.Errorf("rate limit default not applied: %d", cfg.API.RateLimit.RequestsPerMinute)
	}
	if cfg.Swarm.GatewayURL != DefaultGatewayURL {
		t.Errorf("gateway default not applied: %s", cfg.Swarm.GatewayURL)
	}
}

func TestLoadConfigKeyFromEnv(t *testing.T) {
	t.Setenv("MOONDEV_API_KEY", "env-key")

	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("env key not applied: %q", cfg.API.Key)
	}
}

func TestValidateConfigRejectsRateAboveCap(t *testing.T) {
	content := `moonflow:
  name: "TestApp"
  version: "1.0"
api:
  rate_limit:
    enabled: true
    requests_per_minute: 5000
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatal("expected error for rate above the service cap")
	}
}

func TestValidateConfigRejectsRelativeEndpoint(t *testing.T) {
	content := `moonflow:
  name: "TestApp"
  version: "1.0"
recorder:
  enabled: true
  interval: 30s
  endpoints:
    - api/whales.json
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatal("expected error for relative endpoint path")
	}
}

func TestValidateConfigRequiresKeyInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("MOONDEV_API_KEY", "")

	path := writeTempConfig(t)
	defer os.Remove(path)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing key in production")
	}

	t.Setenv("MOONDEV_API_KEY", "prod-key")
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed with key present: %v", err)
	}
}

func TestResolveEnvSpecificPath(t *testing.T) {
	f, err := os.CreateTemp("", "cfg-prod-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()
	defer os.Remove(f.Name())

	paths := map[string]string{environmentProduction: f.Name()}

	t.Setenv("APP_ENV", "prod")
	if got := resolveEnvSpecificPath("default.yml", "default.yml", paths); got != f.Name() {
		t.Errorf("production alias should select %q, got %q", f.Name(), got)
	}
	if got := resolveEnvSpecificPath("explicit.yml", "default.yml", paths); got != "explicit.yml" {
		t.Errorf("explicit path should win, got %q", got)
	}

	t.Setenv("APP_ENV", "development")
	if got := resolveEnvSpecificPath("default.yml", "default.yml", paths); got != "default.yml" {
		t.Errorf("development should keep the default path, got %q", got)
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"valid-bucket", true},
		{"Invalid", false},
		{"ab", false},
		{"my..bucket", false},
	}
	for _, c := range cases {
		if got := isValidS3Bucket(c.name); got != c.valid {
			t.Errorf("isValidS3Bucket(%q) = %v, want %v", c.name, got, c.valid)
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinPort       = 1     // Minimum valid port number
	MaxPort       = 65535 // Maximum valid port number
	MaxAPITimeout = 300   // Upper bound for api_timeout in seconds

	// Default values
	DefaultHTTPPort   = 9200
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	DefaultAPITimeout = 30 // API timeout in seconds
	DefaultCloud      = CloudAzurePublic
	DefaultCostField  = "PreTaxCost"
	DefaultEnvFile    = ".env"
)

// Sovereign clouds accepted in azure.cloud
const (
	CloudAzurePublic     = "AzurePublic"
	CloudAzureChina      = "AzureChina"
	CloudAzureGovernment = "AzureGovernment"
)

// Azure holds the identity and billing scope used for cost queries
type Azure struct {
	TenantID       string `yaml:"tenant_id"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	SubscriptionID string `yaml:"subscription_id"`
	ScopeOverride  string `yaml:"scope"`      // Full billing scope; defaults to /subscriptions/{subscription_id}
	Cloud          string `yaml:"cloud"`      // AzurePublic, AzureChina or AzureGovernment
	CostField      string `yaml:"cost_field"` // Column summed by the aggregation
}

// Scope returns the billing scope the query runs against
func (a Azure) Scope() string {
	if a.ScopeOverride != "" {
		return a.ScopeOverride
	}
	return fmt.Sprintf("/subscriptions/%s", a.SubscriptionID)
}

// Config represents the application configuration. It is built once at
// startup and never mutated afterwards.
type Config struct {
	Azure      Azure  `yaml:"azure"`
	HTTPPort   int    `yaml:"http_port"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`  // json or text
	APITimeout int    `yaml:"api_timeout"` // Azure API timeout in seconds
}

// APITimeoutDuration returns APITimeout as a time.Duration
func (c *Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// Redacted returns slog key/value pairs describing the configuration with
// the client secret masked
func (c *Config) Redacted() []any {
	secret := ""
	if c.Azure.ClientSecret != "" {
		secret = "********"
	}
	return []any{
		"tenant_id", c.Azure.TenantID,
		"client_id", c.Azure.ClientID,
		"client_secret", secret,
		"scope", c.Azure.Scope(),
		"cloud", c.Azure.Cloud,
		"cost_field", c.Azure.CostField,
		"http_port", c.HTTPPort,
		"log_level", c.LogLevel,
		"log_format", c.LogFormat,
		"api_timeout_seconds", c.APITimeout,
	}
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is only an error when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from an optional YAML file, defaults and
// environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// #nosec G304 -- Config file path is provided by administrator via CLI flag, not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.Azure.Cloud == "" {
		cfg.Azure.Cloud = DefaultCloud
	}
	if cfg.Azure.CostField == "" {
		cfg.Azure.CostField = DefaultCostField
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *Config) error {
	// Credentials use the same names as the Azure SDKs and CLI
	overrideString(&cfg.Azure.TenantID, "AZURE_TENANT_ID")
	overrideString(&cfg.Azure.ClientID, "AZURE_CLIENT_ID")
	overrideString(&cfg.Azure.ClientSecret, "AZURE_CLIENT_SECRET")
	overrideString(&cfg.Azure.SubscriptionID, "AZURE_SUBSCRIPTION_ID")

	overrideString(&cfg.Azure.ScopeOverride, "AZURE_COST_SCOPE")
	overrideString(&cfg.Azure.Cloud, "AZURE_COST_CLOUD")
	overrideString(&cfg.Azure.CostField, "AZURE_COST_FIELD")
	overrideString(&cfg.LogLevel, "AZURE_COST_LOG_LEVEL")
	overrideString(&cfg.LogFormat, "AZURE_COST_LOG_FORMAT")

	if err := overrideInt(&cfg.HTTPPort, "AZURE_COST_HTTP_PORT"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.APITimeout, "AZURE_COST_API_TIMEOUT"); err != nil {
		return err
	}

	return nil
}

func overrideString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = strings.TrimSpace(val)
	}
}

func overrideInt(dst *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("invalid %s: must be an integer, got %q", key, val)
	}
	*dst = i
	return nil
}

// validate validates the configuration. Credentials are left to the Azure
// SDK: a malformed tenant fails at startup, a wrong secret on first scrape.
func validate(cfg *Config) error {
	if cfg.HTTPPort < MinPort || cfg.HTTPPort > MaxPort {
		return fmt.Errorf("http_port must be between %d and %d", MinPort, MaxPort)
	}

	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %d", cfg.APITimeout)
	}

	if cfg.APITimeout > MaxAPITimeout {
		return fmt.Errorf("api_timeout should not exceed %d seconds (5 minutes), got %d", MaxAPITimeout, cfg.APITimeout)
	}

	switch cfg.Azure.Cloud {
	case CloudAzurePublic, CloudAzureChina, CloudAzureGovernment:
	default:
		return fmt.Errorf("unknown cloud %q (expected %s, %s or %s)",
			cfg.Azure.Cloud, CloudAzurePublic, CloudAzureChina, CloudAzureGovernment)
	}

	if strings.TrimSpace(cfg.Azure.CostField) == "" {
		return fmt.Errorf("cost_field must not be empty")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", cfg.LogFormat)
	}

	return nil
}

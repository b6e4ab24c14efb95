package core

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the storefront SDK.
// It supports layered configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables
//  3. Config file (JSON or YAML, via WithConfigFile)
//  4. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithAPIBaseURL("https://shop.example.com"),
//	    WithPrincipal(42, 7),
//	    WithCartSnapshots("redis", "redis://localhost:6379"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Name identifies this client in logs and telemetry
	Name string `json:"name" yaml:"name" env:"STOREFRONT_NAME" default:"storefront"`

	API         APIConfig         `json:"api" yaml:"api"`
	Principal   PrincipalConfig   `json:"principal" yaml:"principal"`
	Cart        CartConfig        `json:"cart" yaml:"cart"`
	Telemetry   TelemetryConfig   `json:"telemetry" yaml:"telemetry"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
	Development DevelopmentConfig `json:"development" yaml:"development"`
}

// APIConfig describes how to reach the storefront backend and how to build
// image URLs from the relative paths it returns.
type APIConfig struct {
	BaseURL          string        `json:"base_url" yaml:"base_url" env:"STOREFRONT_API_URL" default:"http://localhost:8080"`
	AssetOrigin      string        `json:"asset_origin" yaml:"asset_origin" env:"STOREFRONT_ASSET_ORIGIN" default:"http://localhost:8080"`
	PlaceholderImage string        `json:"placeholder_image" yaml:"placeholder_image" env:"STOREFRONT_PLACEHOLDER_IMAGE" default:"/assets/images/default-product.png"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout" env:"STOREFRONT_API_TIMEOUT" default:"30s"`
	MaxIdleConns     int           `json:"max_idle_conns" yaml:"max_idle_conns" env:"STOREFRONT_API_MAX_IDLE_CONNS" default:"20"`
	UserAgent        string        `json:"user_agent" yaml:"user_agent" env:"STOREFRONT_API_USER_AGENT"`
}

// PrincipalConfig identifies the acting customer and vendor. When a JWT is
// configured the ids are read from its claims instead.
type PrincipalConfig struct {
	UserID    int64  `json:"user_id" yaml:"user_id" env:"STOREFRONT_USER_ID" default:"1"`
	VendorID  int64  `json:"vendor_id" yaml:"vendor_id" env:"STOREFRONT_VENDOR_ID" default:"1"`
	Token     string `json:"-" yaml:"-" env:"STOREFRONT_TOKEN"`
	JWTSecret string `json:"-" yaml:"-" env:"STOREFRONT_JWT_SECRET"`
}

// CartConfig controls cart snapshot persistence.
type CartConfig struct {
	SnapshotProvider string        `json:"snapshot_provider" yaml:"snapshot_provider" env:"STOREFRONT_CART_SNAPSHOTS" default:"none"`
	RedisURL         string        `json:"redis_url" yaml:"redis_url" env:"STOREFRONT_REDIS_URL,REDIS_URL"`
	SnapshotTTL      time.Duration `json:"snapshot_ttl" yaml:"snapshot_ttl" env:"STOREFRONT_CART_SNAPSHOT_TTL" default:"24h"`
	KeyPrefix        string        `json:"key_prefix" yaml:"key_prefix" env:"STOREFRONT_CART_KEY_PREFIX" default:"storefront:cart"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled" env:"STOREFRONT_TELEMETRY_ENABLED" default:"false"`
	Exporter        string  `json:"exporter" yaml:"exporter" env:"STOREFRONT_TELEMETRY_EXPORTER" default:"stdout"`
	Endpoint        string  `json:"endpoint" yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MetricsEndpoint string  `json:"metrics_endpoint" yaml:"metrics_endpoint" env:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"`
	ServiceName     string  `json:"service_name" yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	SamplingRate    float64 `json:"sampling_rate" yaml:"sampling_rate" env:"STOREFRONT_TELEMETRY_SAMPLING_RATE" default:"1.0"`
	Insecure        bool    `json:"insecure" yaml:"insecure" env:"STOREFRONT_TELEMETRY_INSECURE" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" env:"STOREFRONT_LOG_LEVEL" default:"info"`
	Format string `json:"format" yaml:"format" env:"STOREFRONT_LOG_FORMAT" default:"json"`
	Output string `json:"output" yaml:"output" env:"STOREFRONT_LOG_OUTPUT" default:"stderr"`
}

// DevelopmentConfig contains developer-friendly toggles.
type DevelopmentConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled" env:"STOREFRONT_DEV_MODE" default:"false"`
	PrettyLogs bool `json:"pretty_logs" yaml:"pretty_logs" env:"STOREFRONT_PRETTY_LOGS" default:"false"`
}

// Option is a functional option for configuring the SDK
type Option func(*Config) error

// Snapshot providers understood by CartConfig.SnapshotProvider.
const (
	SnapshotNone     = "none"
	SnapshotInMemory = "inmemory"
	SnapshotRedis    = "redis"
)

// DefaultConfig returns a configuration with sensible defaults that matches
// a backend running locally on port 8080.
func DefaultConfig() *Config {
	return &Config{
		Name: "storefront",
		API: APIConfig{
			BaseURL:          "http://localhost:8080",
			AssetOrigin:      "http://localhost:8080",
			PlaceholderImage: "/assets/images/default-product.png",
			Timeout:          30 * time.Second,
			MaxIdleConns:     20,
		},
		Principal: PrincipalConfig{
			UserID:   1,
			VendorID: 1,
		},
		Cart: CartConfig{
			SnapshotProvider: SnapshotNone,
			SnapshotTTL:      24 * time.Hour,
			KeyPrefix:        "storefront:cart",
		},
		Telemetry: TelemetryConfig{
			Exporter:     "stdout",
			SamplingRate: 1.0,
			Insecure:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
// Unparseable numeric values are ignored and the previous value is kept.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("STOREFRONT_NAME"); v != "" {
		c.Name = v
	}

	// API settings
	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_ASSET_ORIGIN"); v != "" {
		c.API.AssetOrigin = v
	}
	if v := os.Getenv("STOREFRONT_PLACEHOLDER_IMAGE"); v != "" {
		c.API.PlaceholderImage = v
	}
	if v := os.Getenv("STOREFRONT_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("STOREFRONT_API_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.MaxIdleConns = n
		}
	}
	if v := os.Getenv("STOREFRONT_API_USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}

	// Principal settings
	if v := os.Getenv("STOREFRONT_USER_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Principal.UserID = id
		}
	}
	if v := os.Getenv("STOREFRONT_VENDOR_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Principal.VendorID = id
		}
	}
	if v := os.Getenv("STOREFRONT_TOKEN"); v != "" {
		c.Principal.Token = v
	}
	if v := os.Getenv("STOREFRONT_JWT_SECRET"); v != "" {
		c.Principal.JWTSecret = v
	}

	// Cart snapshot settings
	if v := os.Getenv("STOREFRONT_CART_SNAPSHOTS"); v != "" {
		c.Cart.SnapshotProvider = strings.ToLower(v)
	}
	if v := os.Getenv("STOREFRONT_REDIS_URL"); v != "" {
		c.Cart.RedisURL = v
	} else if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cart.RedisURL = v
	}
	if v := os.Getenv("STOREFRONT_CART_SNAPSHOT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cart.SnapshotTTL = d
		}
	}
	if v := os.Getenv("STOREFRONT_CART_KEY_PREFIX"); v != "" {
		c.Cart.KeyPrefix = v
	}

	// Telemetry settings
	if v := os.Getenv("STOREFRONT_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_TELEMETRY_EXPORTER"); v != "" {
		c.Telemetry.Exporter = strings.ToLower(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); v != "" {
		c.Telemetry.MetricsEndpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("STOREFRONT_TELEMETRY_SAMPLING_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Telemetry.SamplingRate = rate
		}
	}
	if v := os.Getenv("STOREFRONT_TELEMETRY_INSECURE"); v != "" {
		c.Telemetry.Insecure = parseBool(v)
	}

	// Logging settings
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("STOREFRONT_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}

	// Development settings
	if v := os.Getenv("STOREFRONT_DEV_MODE"); v != "" {
		if parseBool(v) {
			c.applyDevelopmentDefaults()
		}
	}
	if v := os.Getenv("STOREFRONT_PRETTY_LOGS"); v != "" {
		c.Development.PrettyLogs = parseBool(v)
	}

	return nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
func (c *Config) LoadFromFile(path string) error {
	cleanPath := filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file extension %s: %w", ext, ErrInvalidConfiguration)
	}

	if !filepath.IsAbs(cleanPath) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		cleanPath = filepath.Join(wd, cleanPath)
	}

	data, err := os.ReadFile(filepath.Clean(cleanPath)) // nosec G304 -- path is validated
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %v: %w", err, ErrInvalidConfiguration)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %v: %w", err, ErrInvalidConfiguration)
		}
	}

	return nil
}

// Validate checks the final configuration for consistency.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return &StoreError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: "API base URL is required",
			Err:     ErrMissingConfiguration,
		}
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &StoreError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("invalid API base URL: %q", c.API.BaseURL),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.API.Timeout < 0 {
		return &StoreError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("invalid API timeout: %s", c.API.Timeout),
			Err:     ErrInvalidConfiguration,
		}
	}

	// A JWT carries its own ids
	if c.Principal.Token == "" && (c.Principal.UserID < 1 || c.Principal.VendorID < 1) {
		return &StoreError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("invalid principal: user=%d vendor=%d", c.Principal.UserID, c.Principal.VendorID),
			Err:     ErrInvalidConfiguration,
		}
	}

	switch c.Cart.SnapshotProvider {
	case SnapshotNone, SnapshotInMemory:
	case SnapshotRedis:
		if c.Cart.RedisURL == "" {
			return &StoreError{
				Op:      "Config.Validate",
				Kind:    "config",
				Message: "redis URL is required for the redis cart snapshot provider",
				Err:     ErrMissingConfiguration,
			}
		}
	default:
		return &StoreError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("unknown cart snapshot provider: %q", c.Cart.SnapshotProvider),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case "stdout":
		case "otlp":
			if c.Telemetry.Endpoint == "" {
				return &StoreError{
					Op:      "Config.Validate",
					Kind:    "config",
					Message: "telemetry endpoint is required for the otlp exporter",
					Err:     ErrMissingConfiguration,
				}
			}
		default:
			return &StoreError{
				Op:      "Config.Validate",
				Kind:    "config",
				Message: fmt.Sprintf("unknown telemetry exporter: %q", c.Telemetry.Exporter),
				Err:     ErrInvalidConfiguration,
			}
		}
		if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
			return &StoreError{
				Op:      "Config.Validate",
				Kind:    "config",
				Message: fmt.Sprintf("sampling rate must be within [0,1]: %v", c.Telemetry.SamplingRate),
				Err:     ErrInvalidConfiguration,
			}
		}
	}

	return nil
}

func (c *Config) applyDevelopmentDefaults() {
	c.Development.Enabled = true
	c.Development.PrettyLogs = true
	c.Logging.Format = "text"
	c.Logging.Level = "debug"
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// WithName sets the client name used in logs and telemetry.
func WithName(name string) Option {
	return func(c *Config) error {
		c.Name = name
		return nil
	}
}

// WithAPIBaseURL sets the backend base URL. A trailing slash is trimmed.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Config) error {
		c.API.BaseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithAssetOrigin sets the origin prefixed to relative image paths.
func WithAssetOrigin(origin string) Option {
	return func(c *Config) error {
		c.API.AssetOrigin = origin
		return nil
	}
}

// WithPlaceholderImage sets the image shown when a product has no images.
func WithPlaceholderImage(path string) Option {
	return func(c *Config) error {
		c.API.PlaceholderImage = path
		return nil
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative: %w", ErrInvalidConfiguration)
		}
		c.API.Timeout = d
		return nil
	}
}

// WithPrincipal sets the acting user and vendor ids.
func WithPrincipal(userID, vendorID int64) Option {
	return func(c *Config) error {
		if userID < 1 || vendorID < 1 {
			return fmt.Errorf("principal ids must be positive: %w", ErrInvalidConfiguration)
		}
		c.Principal.UserID = userID
		c.Principal.VendorID = vendorID
		return nil
	}
}

// WithToken sets a bearer token; secret may be empty to skip signature checks.
func WithToken(token, secret string) Option {
	return func(c *Config) error {
		c.Principal.Token = token
		c.Principal.JWTSecret = secret
		return nil
	}
}

// WithCartSnapshots selects the cart snapshot provider.
func WithCartSnapshots(provider, redisURL string) Option {
	return func(c *Config) error {
		c.Cart.SnapshotProvider = strings.ToLower(provider)
		if redisURL != "" {
			c.Cart.RedisURL = redisURL
		}
		return nil
	}
}

// WithTelemetry enables tracing with the given exporter ("stdout" or "otlp").
func WithTelemetry(enabled bool, exporter, endpoint string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = enabled
		if exporter != "" {
			c.Telemetry.Exporter = strings.ToLower(exporter)
		}
		if endpoint != "" {
			c.Telemetry.Endpoint = endpoint
		}
		return nil
	}
}

// WithLogLevel sets the logging level
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logging.Level = strings.ToLower(level)
		return nil
	}
}

// WithLogFormat sets the logging format ("json" or "text")
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.Logging.Format = strings.ToLower(format)
		return nil
	}
}

// WithConfigFile loads configuration from a JSON or YAML file.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		return c.LoadFromFile(path)
	}
}

// WithDevelopmentMode enables text logs at debug level.
func WithDevelopmentMode(enabled bool) Option {
	return func(c *Config) error {
		if enabled {
			c.applyDevelopmentDefaults()
		} else {
			c.Development.Enabled = false
		}
		return nil
	}
}

// NewConfig creates a new configuration with the given options.
// It applies defaults, then environment variables, then functional options,
// and finally validates the result.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

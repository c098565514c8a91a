package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	WordPress WordPressConfig   `yaml:"wordpress"`
	Drafts    DraftsConfig      `yaml:"drafts"`
	Optimizer OptimizerConfig   `yaml:"optimizer"`
	Limits    LimitsConfig      `yaml:"limits"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Drafts.Validate(); err != nil {
		return err
	}
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	return c.Limits.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	Transport string     `yaml:"transport"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	// Normalise empty transport to stdio, the common MCP client setup.
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
	); err != nil {
		return err
	}
	if c.Transport == TransportHTTP {
		return c.HTTP.Validate()
	}
	return nil
}

// HTTPConfig holds HTTP server configuration for the http transport.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// WordPressConfig holds optional startup credentials. All fields may be
// empty; the session can also be configured at runtime through the
// authenticate tool.
type WordPressConfig struct {
	SiteURL     string `yaml:"site_url"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"app_password"`
	Password    string `yaml:"password"`
}

// DraftsConfig holds the path to the local draft file.
type DraftsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the drafts configuration.
func (c *DraftsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OptimizerConfig holds the image compression service settings. The
// optimize_media tool is unusable until both fields are set.
type OptimizerConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// Validate validates the optimizer configuration.
func (c *OptimizerConfig) Validate() error {
	if c.Endpoint != "" && c.APIKey == "" {
		return fmt.Errorf("optimizer: endpoint is set but api_key is empty")
	}
	return nil
}

// Enabled returns true when the compression service is configured.
func (c *OptimizerConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// LimitsConfig throttles outbound WordPress requests. Zero disables the
// limiter.
type LimitsConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Validate validates the limits configuration.
func (c *LimitsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			Transport: TransportStdio,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Drafts: DraftsConfig{
			Path: "./drafts.json",
		},
		Limits: LimitsConfig{
			RequestsPerSecond: 10,
		},
	}
}

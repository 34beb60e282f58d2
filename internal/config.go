package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes accepted by auth.mode.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config is the namesake configuration file.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Similar SimilarConfig     `yaml:"similar"`
}

// NewDefaultConfig returns the configuration used when no config file exists:
// a ./vault directory indexed into ./namesake.db, served without auth.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.LogLevel = slog.LevelInfo
	cfg.App.HTTP.Port = 8095
	cfg.Vault.Path = "./vault"
	cfg.SQLite.Path = "./namesake.db"
	cfg.Auth.Mode = AuthModeDisabled
	return cfg
}

// Validate checks every section and reports the first failure.
func (c *Config) Validate() error {
	for _, section := range []validation.Validatable{&c.App.HTTP, &c.Vault, &c.SQLite, &c.Auth} {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds process-wide settings.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the listener used by serve.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address for Port.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig points at the directory of Markdown notes.
type VaultConfig struct {
	Path string `yaml:"path"`
}

func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c, validation.Field(&c.Path, validation.Required))
}

// SQLiteConfig locates the title index. The file is a cache and can be
// deleted at any time.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c, validation.Field(&c.Path, validation.Required))
}

// AuthConfig guards the HTTP API. An empty mode means disabled; mode
// "token" requires every API request to carry Token.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
		validation.Field(&c.Token, validation.When(c.Mode == AuthModeToken, validation.Required)),
	)
}

// AuthEnabled reports whether API requests must be authenticated.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// SimilarConfig tunes the namesake search.
type SimilarConfig struct {
	// SkipUntitled makes titles without any letters match nothing
	// instead of every other letterless title.
	SkipUntitled bool `yaml:"skip_untitled"`
}

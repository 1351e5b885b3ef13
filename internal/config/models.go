package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	API      APIConfig      `mapstructure:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ValidateServer checks the sections the HTTP server needs.
func (c Config) ValidateServer() error {
	for _, section := range []any{c.Server, c.Postgres, c.Redis, c.Auth} {
		if err := validate.Struct(section); err != nil {
			return errors.Wrap(err, "invalid server config")
		}
	}
	return nil
}

// ValidateClient checks the sections the team CLI needs.
func (c Config) ValidateClient() error {
	if err := validate.Struct(c.API); err != nil {
		return errors.Wrap(err, "invalid client config")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	DSN      string `mapstructure:"dsn" validate:"required"`
	MaxConns int32  `mapstructure:"max_conns" validate:"min=0"`
}

// RedisConfig configures the workspace snapshot cache. Addr is unset by default and an empty Addr disables the cache.
type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl" validate:"min=0"`
}

type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret" validate:"required,min=16"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// APIConfig is used by clients of the team API.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	Token          string        `mapstructure:"token" validate:"required"`
	WorkspaceID    string        `mapstructure:"workspace_id" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Package config builds the process configuration once at start-up.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type AppConfig struct {
	Name      string `koanf:"name"`
	Version   string `koanf:"version"`
	APIPrefix string `koanf:"api_prefix"`
	Debug     bool   `koanf:"debug"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	RPCSocket         string        `koanf:"rpc_socket"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver   string `koanf:"driver"`
	Path     string `koanf:"path"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver != "postgres" {
		return d.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type SecurityConfig struct {
	SecretKey                string        `koanf:"secret_key"`
	Algorithm                string        `koanf:"algorithm"`
	AccessTokenExpireMinutes int           `koanf:"access_token_expire_minutes"`
	CORSAllowedOrigins       []string      `koanf:"cors_allowed_origins"`
	RateLimitRequests        int           `koanf:"rate_limit_requests"`
	RateLimitWindow          time.Duration `koanf:"rate_limit_window"`
}

func (s SecurityConfig) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

const DefaultSecretKey = "change-me-in-production"

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:      "Universal Tourist Guide API",
			Version:   "0.1.0",
			APIPrefix: "/api/v1",
		},
		Server: ServerConfig{
			Addr:              ":8000",
			RPCSocket:         "./data/tourist-guide.sock",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "./data/tourist_guide.db",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "password",
			Name:     "tourist_guide",
			SSLMode:  "disable",
		},
		Security: SecurityConfig{
			SecretKey:                DefaultSecretKey,
			Algorithm:                "HS256",
			AccessTokenExpireMinutes: 60 * 24 * 7,
			CORSAllowedOrigins:       []string{"*"},
			RateLimitRequests:        0,
			RateLimitWindow:          time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("database.host and database.name are required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Security.SecretKey == "" {
		errs = append(errs, errors.New("security.secret_key is required"))
	}
	if c.Security.Algorithm != "HS256" {
		errs = append(errs, fmt.Errorf("security.algorithm %q is not supported", c.Security.Algorithm))
	}
	if c.Security.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("security.access_token_expire_minutes must be positive"))
	}
	if c.Security.RateLimitRequests < 0 {
		errs = append(errs, errors.New("security.rate_limit_requests must not be negative"))
	}
	if c.Security.RateLimitRequests > 0 && c.Security.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("security.rate_limit_window must be positive when rate limiting is on"))
	}
	if !strings.HasPrefix(c.App.APIPrefix, "/") {
		errs = append(errs, errors.New("app.api_prefix must start with /"))
	}
	return errors.Join(errs...)
}

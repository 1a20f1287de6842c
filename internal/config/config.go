// Package config loads application settings from the environment, an
// optional .env file and an optional YAML file named by FINTRACK_CONFIG.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable holding an optional config file path.
const ConfigFileEnv = "FINTRACK_CONFIG"

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	// TrustedProxies are CIDRs, beyond loopback and private ranges, whose
	// X-Forwarded-For header is believed.
	TrustedProxies []string

	// Database
	DBDriver     string
	SQLiteDBPath string
	DatabaseURL  string
	DBLogQueries bool

	// Sessions and credentials
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	BcryptCost    int

	// AMQP; an empty URL disables event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFormat string
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("sqlite_db_path", "./data/fintrack.db")
	v.SetDefault("database_url", "")
	v.SetDefault("db_log_queries", false)
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "fintrack")
	v.SetDefault("amqp_queue", "ledger_events")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load resolves the configuration. Environment variables override the
// config file, which overrides the defaults.
func Load() (*Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path := v.GetString(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return &Config{
		Port:               v.GetString("port"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		TrustedProxies:     splitList(v.GetString("trusted_proxies")),

		DBDriver:     strings.ToLower(v.GetString("db_driver")),
		SQLiteDBPath: v.GetString("sqlite_db_path"),
		DatabaseURL:  v.GetString("database_url"),
		DBLogQueries: v.GetBool("db_log_queries"),

		SessionSecret: v.GetString("session_secret"),
		SessionTTL:    v.GetDuration("session_ttl"),
		CookieSecure:  v.GetBool("cookie_secure"),
		BcryptCost:    v.GetInt("bcrypt_cost"),

		AMQPURL:      v.GetString("amqp_url"),
		AMQPExchange: v.GetString("amqp_exchange"),
		AMQPQueue:    v.GetString("amqp_queue"),

		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),
	}, nil
}

// Validate validates the configuration and returns all problems at once
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when DB_DRIVER is sqlite")
		}
	case "postgres":
		if u, err := url.Parse(c.DatabaseURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errs = append(errs, "DATABASE_URL must be a postgres:// URL when DB_DRIVER is postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid database driver '%s': must be one of [sqlite postgres]", c.DBDriver))
	}

	if c.SessionSecret != "" && len(c.SessionSecret) < 32 {
		errs = append(errs, "SESSION_SECRET must be at least 32 characters")
	}
	if c.SessionTTL < 5*time.Minute || c.SessionTTL > 30*24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be between 5m and 720h", c.SessionTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}
	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid CORS origin '%s'", origin))
		}
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateWorker checks the settings the audit worker needs on top of Validate.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AMQPURL == "" {
		return fmt.Errorf("configuration validation failed:\n- AMQP_URL is required for the audit worker")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

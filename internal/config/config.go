package config

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"ENV"`
	BaseURL string `mapstructure:"BASE_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	DBPath   string `mapstructure:"DB_PATH"`

	// Comma separated; "*" allows any origin.
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	// Comma separated IPs or CIDRs allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxyList string `mapstructure:"TRUSTED_PROXIES"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	VisitorRetentionMonths int `mapstructure:"VISITOR_RETENTION_MONTHS"`
	LoginAttemptsPerMin    int `mapstructure:"LOGIN_ATTEMPTS_PER_MIN"`
}

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Load reads config.yaml from the working directory or ./config (or the
// explicit file when path is set) and overlays environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("BASE_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "portfolio.db")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("ADMIN_USERNAME", DefaultAdminUsername)
	v.SetDefault("ADMIN_PASSWORD", DefaultAdminPassword)
	v.SetDefault("VISITOR_RETENTION_MONTHS", 12)
	v.SetDefault("LOGIN_ATTEMPTS_PER_MIN", 10)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.VisitorRetentionMonths <= 0 {
		cfg.VisitorRetentionMonths = 12
	}
	if cfg.LoginAttemptsPerMin <= 0 {
		cfg.LoginAttemptsPerMin = 10
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsingDefaultAdmin reports whether either admin credential was left at its
// development default.
func (c *Config) UsingDefaultAdmin() bool {
	return c.AdminUsername == DefaultAdminUsername || c.AdminPassword == DefaultAdminPassword
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// TrustedProxies returns nil unless TRUSTED_PROXIES is set.
func (c *Config) TrustedProxies() []string {
	return splitList(c.TrustedProxyList)
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

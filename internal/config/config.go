package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. CBW_API_URL.
const EnvPrefix = "CBW"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIURL         string        `mapstructure:"api_url"`
	APIKey         string        `mapstructure:"api_key"`
	SecretKey      string        `mapstructure:"secret_key"`
	VerifySSL      bool          `mapstructure:"verify_ssl"`
	TimeoutSeconds int64         `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
	PageSize       int           `mapstructure:"page_size"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`

	PublishersFile        string        `mapstructure:"publishers_file"`
	ExportResources       []string      `mapstructure:"export_resources"`
	ExportIntervalSeconds int64         `mapstructure:"export_interval"`
	ExportInterval        time.Duration `mapstructure:"-"`
	MetricsAddr           string        `mapstructure:"metrics_addr"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and, when file is not
// empty, from that config file. The API URL is not validated here; the API
// client reports a missing address itself.
func Load(file string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "cbwctl")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("verify_ssl", false)
	v.SetDefault("timeout_seconds", 30)
	v.SetDefault("page_size", 100)
	v.SetDefault("rate_limit", 0) // requests per second, 0 disables throttling
	v.SetDefault("rate_burst", 1)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("export_resources", []string{"servers", "cve_announcements", "security_issues"})
	v.SetDefault("export_interval", 0) // seconds, 0 runs a single pass
	v.SetDefault("metrics_addr", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/export.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ExportResources = splitList(cfg.ExportResources)

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page_size (must be positive)")
	}

	if cfg.RateLimit < 0 || cfg.RateBurst <= 0 {
		return nil, fmt.Errorf("invalid rate_limit/rate_burst (limit must not be negative, burst must be positive)")
	}

	if cfg.ExportIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid export_interval (must be zero or positive seconds)")
	}
	cfg.ExportInterval = time.Duration(cfg.ExportIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

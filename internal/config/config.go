package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         int              `json:"port" yaml:"port"`
	WebUIURL     string           `json:"webui_url" yaml:"webui_url"`
	Timezone     string           `json:"timezone" yaml:"timezone"`
	LogConfig    logger.LogConfig `json:"log_config" yaml:"log_config"`
	Database     DatabaseConfig   `json:"database" yaml:"database"`
	Galasa       GalasaConfig     `json:"galasa" yaml:"galasa"`
	FileStore    FileStoreConfig  `json:"file_store" yaml:"file_store"`
	Cache        CacheConfig      `json:"cache" yaml:"cache"`
	Schedule     ScheduleConfig   `json:"schedule" yaml:"schedule"`
	FeatureFlags map[string]bool  `json:"feature_flags" yaml:"feature_flags"`
	CORSOrigins  []string         `json:"cors_origins" yaml:"cors_origins"`
	// TokenRateLimitSeconds throttles personal access token creation per
	// client; 0 disables the limit.
	TokenRateLimitSeconds int `json:"token_rate_limit_seconds" yaml:"token_rate_limit_seconds"`
}

type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type GalasaConfig struct {
	APIServerURL     string `json:"api_server_url" yaml:"api_server_url"`
	ClientAPIVersion string `json:"client_api_version" yaml:"client_api_version"`
	TimeoutSeconds   int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRecords       int    `json:"max_records" yaml:"max_records"`
	// ServiceToken is a personal access token ("refreshToken:clientId") used
	// by background jobs. Without it the shared run feed is disabled.
	ServiceToken  string `json:"service_token" yaml:"service_token"`
	WebUIClientID string `json:"webui_client_id" yaml:"webui_client_id"`
}

type FileStoreConfig struct {
	Type string                 `json:"type" yaml:"type"`
	Data map[string]interface{} `json:"data" yaml:"data"`
}

type CacheConfig struct {
	Size       int `json:"size" yaml:"size"`
	TTLSeconds int `json:"ttl_seconds" yaml:"ttl_seconds"`
}

type ScheduleConfig struct {
	RunsRefresh       string `json:"runs_refresh" yaml:"runs_refresh"`
	OptionsWarmup     string `json:"options_warmup" yaml:"options_warmup"`
	ExportCleanup     string `json:"export_cleanup" yaml:"export_cleanup"`
	ExportMaxAgeHours int    `json:"export_max_age_hours" yaml:"export_max_age_hours"`
}

const (
	DefaultClientAPIVersion = "0.43.0"
	DefaultMaxRecords       = 1000
)

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	cfg.Galasa.APIServerURL = strings.TrimSuffix(strings.TrimSpace(cfg.Galasa.APIServerURL), "/")
	if cfg.Galasa.APIServerURL == "" {
		return fmt.Errorf("galasa.api_server_url is required")
	}
	cfg.WebUIURL = strings.TrimSuffix(strings.TrimSpace(cfg.WebUIURL), "/")
	if cfg.WebUIURL == "" {
		cfg.WebUIURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.Galasa.ClientAPIVersion == "" {
		cfg.Galasa.ClientAPIVersion = DefaultClientAPIVersion
	}
	if cfg.Galasa.TimeoutSeconds <= 0 {
		cfg.Galasa.TimeoutSeconds = 30
	}
	if cfg.Galasa.MaxRecords <= 0 || cfg.Galasa.MaxRecords > DefaultMaxRecords {
		cfg.Galasa.MaxRecords = DefaultMaxRecords
	}
	if cfg.Galasa.WebUIClientID == "" {
		cfg.Galasa.WebUIClientID = "galasa-webui"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = "galasaui.db"
		}
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres")
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.FileStore.Type == "local" && cfg.FileStore.Data == nil {
		cfg.FileStore.Data = map[string]interface{}{"dir": "exports"}
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = 64
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Schedule.RunsRefresh == "" {
		cfg.Schedule.RunsRefresh = "*/1 * * * *"
	}
	if cfg.Schedule.OptionsWarmup == "" {
		cfg.Schedule.OptionsWarmup = "*/5 * * * *"
	}
	if cfg.Schedule.ExportCleanup == "" {
		cfg.Schedule.ExportCleanup = "0 * * * *"
	}
	if cfg.Schedule.ExportMaxAgeHours <= 0 {
		cfg.Schedule.ExportMaxAgeHours = 24
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port                 int              `json:"port"`
	DBPath               string           `json:"db_path"`
	LogConfig            logger.LogConfig `json:"log_config"`
	FileStore            FileStoreConfig  `json:"file_store"`
	CORSAllowlist        []string         `json:"cors_allowlist"`
	MaxUploadSize        int64            `json:"max_upload_size"`
	CommentRateWindowSec int              `json:"comment_rate_window_sec"`
	Sweep                SweepConfig      `json:"sweep"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type SweepConfig struct {
	Enable      bool   `json:"enable"`
	Cron        string `json:"cron"`
	MinAgeHours int    `json:"min_age_hours"`
}

// Default is what the service runs with when no config file is given: a
// local sqlite db and a flat local uploads dir next to the binary.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	switch cfg.FileStore.Type {
	case "local", "s3":
	default:
		return nil, fmt.Errorf("file_store.type must be local or s3")
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	// The PORT env var wins over the config file.
	if value := os.Getenv("PORT"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			cfg.Port = parsed
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./imgwall.db"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
		cfg.LogConfig.Console = true
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./uploads"}
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = 20 * 1024 * 1024
	}
	if cfg.Sweep.Cron == "" {
		cfg.Sweep.Cron = "30 3 * * *"
	}
	if cfg.Sweep.MinAgeHours == 0 {
		cfg.Sweep.MinAgeHours = 24
	}
}

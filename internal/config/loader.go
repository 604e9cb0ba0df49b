package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads config/base.yaml, overlays the environment-specific file when
// one exists, then lets environment variables win. The result is a plain
// struct handed around by injection; nothing here is a mutable global.
func Load() (*Config, error) {
	env := GetEnv("CONFIG_ENV", "local")
	configDir := GetEnv("CONFIG_DIR", "config")

	cfg, err := loadYAMLFile(filepath.Join(configDir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
		if _, err := os.Stat(envFile); err == nil {
			envCfg, err := loadYAMLFile(envFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
			merge(cfg, envCfg)
		}
	}

	OverrideServerFromEnv(&cfg.Server)
	OverrideDBFromEnv(&cfg.DB)
	OverrideRedisFromEnv(&cfg.Redis)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideJWTFromEnv(&cfg.JWT)
	OverridePushFromEnv(&cfg.Push)

	return cfg, nil
}

func loadYAMLFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays non-zero sections of src onto dst.
func merge(dst, src *Config) {
	if src.Server.Port != "" {
		dst.Server.Port = src.Server.Port
	}
	if src.DB.Host != "" {
		dst.DB = src.DB
	}
	if src.Redis.Addr != "" {
		dst.Redis = src.Redis
	}
	if src.MQ.URL != "" {
		dst.MQ = src.MQ
	}
	if src.JWT.Secret != "" {
		dst.JWT.Secret = src.JWT.Secret
	}
	if src.JWT.TTLMinutes != 0 {
		dst.JWT.TTLMinutes = src.JWT.TTLMinutes
	}
	if len(src.CORS.AllowedOrigins) != 0 {
		dst.CORS.AllowedOrigins = src.CORS.AllowedOrigins
	}
	if src.Push.VAPIDPublicKey != "" {
		dst.Push.VAPIDPublicKey = src.Push.VAPIDPublicKey
	}
}

// GetEnv returns the environment variable or a default when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

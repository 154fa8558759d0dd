package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	DB     DBConfig     `toml:"db"`
	Redis  RedisConfig  `toml:"redis"`
	Log    LogConfig    `toml:"log"`
	Import ImportConfig `toml:"import"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	WebDir  string `toml:"web_dir"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

type RedisConfig struct {
	Enabled          bool   `toml:"enabled"`
	Addr             string `toml:"addr"`
	Password         string `toml:"password"`
	DB               int    `toml:"db"`
	FilterTTLSeconds int    `toml:"filter_ttl_seconds"`
}

type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type ImportConfig struct {
	CSVURL         string `toml:"csv_url"`
	CategoriesPath string `toml:"categories_path"`
}

func Load() (*Config, error) {
	// A local .env is optional; a missing file is fine.
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "spellfinder",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "release",
			WebDir:  "web",
		},
		DB: DBConfig{
			Path: "pfinder.db",
		},
		Redis: RedisConfig{
			Enabled:          false,
			Addr:             "127.0.0.1:6379",
			Password:         "",
			DB:               0,
			FilterTTLSeconds: 300,
		},
		Log: LogConfig{
			File:       "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   false,
		},
		Import: ImportConfig{
			CSVURL: "https://raw.githubusercontent.com/PaigeM89/PathfinderSpellDb" +
				"/main/src/PathfinderSpellDb/spells.csv",
			CategoriesPath: "",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.WebDir = getEnv("APP_WEB_DIR", cfg.App.WebDir)

	cfg.DB.Path = getEnv("DB_PATH", cfg.DB.Path)

	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.FilterTTLSeconds = getEnvAsInt("REDIS_FILTER_TTL_SECONDS", cfg.Redis.FilterTTLSeconds)

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.MaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = getEnvAsInt("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays)
	cfg.Log.Compress = getEnvAsBool("LOG_COMPRESS", cfg.Log.Compress)

	cfg.Import.CSVURL = getEnv("IMPORT_CSV_URL", cfg.Import.CSVURL)
	cfg.Import.CategoriesPath = getEnv("IMPORT_CATEGORIES_PATH", cfg.Import.CategoriesPath)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

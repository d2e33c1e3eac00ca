package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"attendance/services/logger"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
)

// Config is everything the service reads from the environment
type Config struct {
	Env                string `default:"dev"`
	Port               string `default:"8083"`
	LogLevel           string `default:"info"`
	SecretKey          string
	AccessTokenMinutes int `default:"1440"`
	GoongAPIKey        string
	GoongBaseURL       string `default:"https://rsapi.goong.io"`
	RedisAddr          string
	RedisUser          string
	RedisPassword      string
	CronEnabled        *bool  `default:"true"`
	PayrollConcurrency int    `default:"4"`
	DBIsolation        string `default:"repeatable_read"`
	DB                 DBConfig
}

type DBConfig struct {
	Host     string
	Port     string `default:"5432"`
	User     string
	Password string
	Name     string
	SSLMode  string `default:"require"`
	TimeZone string `default:"UTC"`
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// Load reads .env and the process environment. Unset values fall back to the struct defaults.
func Load() (Config, error) {
	LoadEnv()

	cfg := Config{
		Env:           strings.ToLower(GetEnv("ENV")),
		Port:          GetEnv("PORT"),
		LogLevel:      GetEnv("LOG_LEVEL"),
		SecretKey:     GetEnv("SECRET_KEY_ACCESS_TOKEN"),
		GoongAPIKey:   GetEnv("GOONG_API_KEY"),
		GoongBaseURL:  GetEnv("GOONG_BASE_URL"),
		RedisAddr:     GetEnv("REDIS_ADDR"),
		RedisUser:     GetEnv("REDIS_USER"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),
		DBIsolation:   GetEnv("DB_ISOLATION"),
	}

	var err error
	if cfg.AccessTokenMinutes, err = intEnv("ACCESS_TOKEN_MINUTES"); err != nil {
		return cfg, err
	}
	if cfg.PayrollConcurrency, err = intEnv("PAYROLL_CONCURRENCY"); err != nil {
		return cfg, err
	}
	if v := GetEnv("CRON_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("CRON_ENABLED: %w", err)
		}
		cfg.CronEnabled = &enabled
	}

	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("apply config defaults: %w", err)
	}

	if cfg.DB, err = getDBConfigByEnv(cfg.Env); err != nil {
		return cfg, err
	}
	if err := defaults.Set(&cfg.DB); err != nil {
		return cfg, fmt.Errorf("apply db defaults: %w", err)
	}

	if cfg.SecretKey == "" {
		return cfg, fmt.Errorf("SECRET_KEY_ACCESS_TOKEN is not set")
	}
	return cfg, nil
}

func intEnv(key string) (int, error) {
	v := GetEnv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// IsCronEnabled reports whether the scheduled jobs should run in this process
func (c Config) IsCronEnabled() bool {
	return c.CronEnabled == nil || *c.CronEnabled
}

// NewLogger builds the service logger for this environment
func NewLogger(cfg Config) (*logger.ZapLogger, error) {
	return logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: "attendance",
	})
}

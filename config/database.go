package config

import (
	"fmt"
	"time"

	"attendance/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getDBConfigByEnv reads the DEV_, QC_ or PROD_ prefixed connection settings
func getDBConfigByEnv(env string) (DBConfig, error) {
	var prefix string
	switch env {
	case "dev":
		prefix = "DEV_"
	case "qc":
		prefix = "QC_"
	case "prod":
		prefix = "PROD_"
	default:
		return DBConfig{}, fmt.Errorf("unknown environment: %s", env)
	}

	return DBConfig{
		Host:     GetEnv(prefix + "DB_HOST"),
		Port:     GetEnv(prefix + "DB_PORT"),
		User:     GetEnv(prefix + "DB_USER"),
		Password: GetEnv(prefix + "DB_PASSWORD"),
		Name:     GetEnv(prefix + "DB_NAME"),
		SSLMode:  GetEnv(prefix + "DB_SSLMODE"),
	}, nil
}

// DSN renders the postgres connection string. The session time zone is UTC so
// DATE columns never shift.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	if cfg.DB.Host == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("database is not configured for environment %q", cfg.Env)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

package cmd

import (
	"context"
	"fmt"

	"attendance/config"
	"attendance/routes"
	"attendance/services"
	"attendance/services/logger"
	"attendance/services/notification"
	"attendance/services/policy"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// application holds the connections shared by every command
type application struct {
	cfg config.Config
	log *logger.ZapLogger
	db  *gorm.DB
	rdb *redis.Client
}

func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to db")

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		// redis only backs caches and the clock-in lock
		log.Warn("redis unavailable, continuing without cache: %v", err)
		rdb = nil
	} else if rdb == nil {
		log.Warn("REDIS_ADDR is not set, continuing without cache")
	}

	return &application{cfg: cfg, log: log, db: db, rdb: rdb}, nil
}

func (a *application) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

// services wires the application services; notifier may be nil outside the server
func (a *application) services(notifier notification.Service) routes.Dependencies {
	isolation := services.ParseIsolation(a.cfg.DBIsolation)
	policies := policy.NewStore(policy.StoreOptions{DB: a.db, Redis: a.rdb, Logger: a.log.With("component", "policy")})

	var geocoder services.Geocoder
	if a.cfg.GoongAPIKey != "" {
		geocoder = services.NewGoongGeocoder(a.cfg.GoongAPIKey, a.cfg.GoongBaseURL)
	}

	return routes.Dependencies{
		Auth: services.NewAuthService(services.AuthServiceOptions{
			DB:           a.db,
			Logger:       a.log.With("component", "auth"),
			Secret:       a.cfg.SecretKey,
			TokenMinutes: a.cfg.AccessTokenMinutes,
		}),
		Employers: services.NewEmployerService(services.EmployerServiceOptions{
			DB:       a.db,
			Logger:   a.log.With("component", "employer"),
			Policies: policies,
			Geocoder: geocoder,
		}),
		Employees: services.NewEmployeeService(services.EmployeeServiceOptions{
			DB:     a.db,
			Logger: a.log.With("component", "employee"),
		}),
		Attendance: services.NewAttendanceService(services.AttendanceServiceOptions{
			DB:        a.db,
			Redis:     a.rdb,
			Logger:    a.log.With("component", "attendance"),
			Policies:  policies,
			Notifier:  notifier,
			Isolation: isolation,
		}),
		Payroll: services.NewPayrollService(services.PayrollServiceOptions{
			DB:        a.db,
			Logger:    a.log.With("component", "payroll"),
			Policies:  policies,
			Isolation: isolation,
		}),
		Deductions: services.NewDeductionService(services.DeductionServiceOptions{
			DB:     a.db,
			Logger: a.log.With("component", "deduction"),
		}),
		Holidays: services.NewHolidayService(services.HolidayServiceOptions{
			DB:     a.db,
			Redis:  a.rdb,
			Logger: a.log.With("component", "holiday"),
		}),
		Policies: policies,
	}
}

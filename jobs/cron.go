// Package jobs holds the scheduled work: nightly absence marking and the monthly payroll snapshot.
package jobs

import (
	"context"
	"fmt"
	"time"

	"attendance/errors"
	"attendance/models"
	"attendance/services"
	"attendance/services/logger"
	"attendance/services/metrics"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	AbsencesSchedule = "10 0 * * *"
	PayrollSchedule  = "0 2 1 * *"
)

type Runner struct {
	db          *gorm.DB
	attendance  *services.AttendanceService
	payroll     *services.PayrollService
	logger      logger.Logger
	concurrency int
	now         func() time.Time
}

type RunnerOptions struct {
	DB         *gorm.DB
	Attendance *services.AttendanceService
	Payroll    *services.PayrollService
	Logger     logger.Logger
	// Concurrency bounds how many employers are processed at once
	Concurrency int
	Now         func() time.Time
}

func NewRunner(opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		db:          opts.DB,
		attendance:  opts.Attendance,
		payroll:     opts.Payroll,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
}

// InitCronJobs registers the jobs on c and starts it
func InitCronJobs(c *cron.Cron, r *Runner) error {
	if _, err := c.AddFunc(AbsencesSchedule, func() {
		if err := r.MarkAbsences(context.Background()); err != nil {
			r.logger.Error("absence job: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(PayrollSchedule, func() {
		if err := r.RunMonthlyPayroll(context.Background(), PreviousMonth(r.now())); err != nil {
			r.logger.Error("payroll job: %v", err)
		}
	}); err != nil {
		return err
	}

	c.Start()
	r.logger.Info("Cron jobs initialized successfully")
	return nil
}

// PreviousMonth returns the YYYY-MM before the month of now, in UTC
func PreviousMonth(now time.Time) string {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, -1).Format("2006-01")
}

// MarkAbsences materializes yesterday's absences for every employer, each in its own time zone
func (r *Runner) MarkAbsences(ctx context.Context) error {
	defer metrics.TrackJob("mark_absences")()

	return r.forEachEmployer(ctx, func(ctx context.Context, employerID uuid.UUID) error {
		n, err := r.attendance.MarkAbsencesForYesterday(ctx, employerID)
		if err != nil {
			return fmt.Errorf("employer %s: %w", employerID, err)
		}
		r.logger.Debug("employer %s: %d absences marked", employerID, n)
		return nil
	})
}

// RunMonthlyPayroll saves the payroll of month for every employer
func (r *Runner) RunMonthlyPayroll(ctx context.Context, month string) error {
	defer metrics.TrackJob("monthly_payroll")()

	return r.forEachEmployer(ctx, func(ctx context.Context, employerID uuid.UUID) error {
		runs, err := r.payroll.RunPayroll(ctx, employerID, month)
		if err != nil {
			return fmt.Errorf("employer %s: %w", employerID, err)
		}
		r.logger.Debug("employer %s: payroll %s saved with %d lines", employerID, month, len(runs))
		return nil
	})
}

// forEachEmployer fans fn out over every employer. A failing employer does not stop
// the others; the first error is returned once all are done.
func (r *Runner) forEachEmployer(ctx context.Context, fn func(context.Context, uuid.UUID) error) error {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Employer{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return errors.Database(err, "failed to list employers")
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := fn(ctx, id); err != nil {
				r.logger.Error("%v", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"attendance/constants"
	"attendance/dto"
	"attendance/models"
	"attendance/routes"
	"attendance/services/clock"
	"attendance/services/logger"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type SeedOptions struct {
	Employers int
	Employees int
	Days      int
	Password  string
}

var sopts SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with fake employers, employees and attendance history",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		return seed(cmd.Context(), app.db, app.services(nil), app.log, sopts)
	},
}

func init() {
	seedCmd.Flags().IntVarP(&sopts.Employers, "employers", "r", 2, "Number of employers")
	seedCmd.Flags().IntVarP(&sopts.Employees, "employees", "e", 10, "Employees per employer")
	seedCmd.Flags().IntVarP(&sopts.Days, "days", "d", 20, "Days of attendance history")
	seedCmd.Flags().StringVarP(&sopts.Password, "password", "p", "password123", "Password of every seeded login")
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, db *gorm.DB, deps routes.Dependencies, log logger.Logger, opts SeedOptions) error {
	gofakeit.Seed(time.Now().UnixNano())
	start := time.Now()
	var records atomic.Int64

	g := errgroup.Group{}
	g.SetLimit(4)
	for range opts.Employers {
		company := gofakeit.Company()
		email := gofakeit.Email()
		g.Go(func() error {
			_, employer, err := deps.Employers.CreateEmployerProfile(ctx, dto.RegisterInput{
				CompanyName: company,
				Email:       email,
				Password:    opts.Password,
			})
			if err != nil {
				return fmt.Errorf("employer %s: %w", company, err)
			}
			log.Info("employer %s login %s", company, email)

			employees := make([]models.Employee, 0, opts.Employees)
			for range opts.Employees {
				department := constants.Departments[gofakeit.Number(0, len(constants.Departments)-1)]
				e, err := deps.Employees.CreateEmployee(ctx, employer.ID, dto.CreateEmployeeInput{
					FirstName:  gofakeit.FirstName(),
					LastName:   gofakeit.LastName(),
					Email:      gofakeit.Email(),
					Password:   opts.Password,
					Department: &department,
					Salary:     decimal.NewFromInt(int64(gofakeit.Number(150, 900)) * 1000),
					HireDate:   time.Now().AddDate(0, 0, -opts.Days-30).Format(constants.DateLayout),
				})
				if err != nil {
					return fmt.Errorf("employee of %s: %w", company, err)
				}
				employees = append(employees, e)
			}

			n, err := seedAttendance(ctx, db, deps, employer, employees, opts.Days)
			records.Add(int64(n))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("seeded %d employers, %d attendance records in %s", opts.Employers, records.Load(), time.Since(start))
	return nil
}

// seedAttendance runs each simulated clock-in and clock-out through the clock state
// machine so lateness is computed exactly as it would be live
func seedAttendance(ctx context.Context, db *gorm.DB, deps routes.Dependencies, employer models.Employer, employees []models.Employee, days int) (int, error) {
	p, err := deps.Policies.Get(ctx, employer.ID)
	if err != nil {
		return 0, err
	}
	cal := p.Calendar(nil)
	today := p.AttendanceDate(time.Now())

	var rows []models.AttendanceRecord
	for i := days; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		if !cal.IsWorkingDay(day) {
			continue
		}
		for _, e := range employees {
			// roughly one absence in ten
			if gofakeit.Number(1, 10) == 1 {
				continue
			}
			in := p.ResumptionAt(day).Add(time.Duration(gofakeit.Number(-20, 40)) * time.Minute)
			rec, err := clock.ClockIn(p, nil, clock.Event{EmployeeID: e.ID, EmployerID: employer.ID, Timestamp: in})
			if err != nil {
				return 0, err
			}
			out := p.ClosingAt(day).Add(time.Duration(gofakeit.Number(-30, 60)) * time.Minute)
			rec, err = clock.ClockOut(p, &rec, clock.Event{EmployeeID: e.ID, EmployerID: employer.ID, Timestamp: out})
			if err != nil {
				return 0, err
			}
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := db.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

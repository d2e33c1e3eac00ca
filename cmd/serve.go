package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"attendance/config"
	"attendance/jobs"
	"attendance/routes"
	"attendance/services/notification"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the dashboard websocket and the scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	router, m, c := config.InitApp(app.cfg, app.log.With("component", "http"))
	defer m.Close()

	deps := app.services(notification.NewMelodyService(m))
	config.InitWebSocket(router, m, deps.Auth, app.log.With("component", "ws"))
	routes.SetupRoutes(router, deps)

	if app.cfg.IsCronEnabled() {
		runner := jobs.NewRunner(jobs.RunnerOptions{
			DB:          app.db,
			Attendance:  deps.Attendance,
			Payroll:     deps.Payroll,
			Logger:      app.log.With("component", "jobs"),
			Concurrency: app.cfg.PayrollConcurrency,
		})
		if err := jobs.InitCronJobs(c, runner); err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              ":" + app.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("Server starting on port %s...", app.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/interfaces/scheduler"
	"github.com/binti59/finance-app/internal/shared/config"
	"github.com/binti59/finance-app/internal/shared/logger"
	"github.com/binti59/finance-app/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, log.Logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   dailyJobProvider(deps),
		})
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		sched.Start()
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(handler, NewServerConfigFromConfig(cfg))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	GracefulShutdown(srv, redirectSrv, sched, 30*time.Second)
	return nil
}

// dailyJobProvider builds one composite job per user: KPI snapshots
// first, then budget alerts computed from the fresh numbers.
func dailyJobProvider(deps *Dependencies) func(ctx context.Context) ([]scheduler.Job, error) {
	return func(ctx context.Context) ([]scheduler.Job, error) {
		users, err := deps.Users.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		jobs := make([]scheduler.Job, 0, len(users))
		for _, u := range users {
			jobs = append(jobs, scheduler.NewDailyJob(u.ID, deps.KPIService, deps.BudgetService, deps.NotificationService))
		}
		return jobs, nil
	}
}

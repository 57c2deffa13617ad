// Package main - точка входа в приложение.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tokarboss/manager-ya/internal/api/handlers"
	"github.com/tokarboss/manager-ya/internal/api/router"
	"github.com/tokarboss/manager-ya/internal/config"
	"github.com/tokarboss/manager-ya/internal/infra/postgres"
	redisinfra "github.com/tokarboss/manager-ya/internal/infra/redis"
	"github.com/tokarboss/manager-ya/internal/logging"
	"github.com/tokarboss/manager-ya/internal/metrics"
	"github.com/tokarboss/manager-ya/internal/scheduler"
	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/settings"
	"github.com/tokarboss/manager-ya/internal/storage"
	"github.com/tokarboss/manager-ya/internal/storage/memory"
	postgresRepo "github.com/tokarboss/manager-ya/internal/storage/postgres"
	"github.com/tokarboss/manager-ya/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// repositories - выбранные драйвером реализации хранилищ.
type repositories struct {
	managers storage.ManagerRepository
	apps     interface {
		storage.ApplicationRepository
		storage.Assigner
	}
	settings storage.SettingsRepository
	closers  []func()
}

func (r *repositories) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheus(reg, cfg.MetricsNamespace)

	var (
		tgClient *telegram.Client
		notifier service.Notifier = service.NopNotifier{}
	)
	if cfg.Telegram.Token != "" {
		httpClient := &http.Client{Timeout: cfg.Telegram.PollingTimeout + cfg.Telegram.Timeout}
		tgClient = telegram.NewClient(cfg.Telegram.Token, httpClient)
		notifier = telegram.NewNotifier(tgClient, cfg.Telegram.PartnerURL)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is empty, bot and notifications are disabled")
	}

	distributor := service.NewDistributor(repos.apps, repos.apps, repos.settings, notifier, rec, logger)
	managerService := service.NewManagerService(repos.managers, rec, logger)
	applicationService := service.NewApplicationService(repos.apps, distributor, logger)
	settingsService := service.NewSettingsService(repos.settings, logger)

	handler := router.NewRouter(router.Handlers{
		Managers:     handlers.NewManagerHandler(managerService),
		Applications: handlers.NewApplicationHandler(applicationService, cfg.DashboardLimit),
		Stats:        handlers.NewStatsHandler(applicationService, managerService, settingsService, cfg.DashboardLimit),
		Settings:     handlers.NewSettingsHandler(settingsService),
	}, reg, rec, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	runner := scheduler.NewRunner(distributor, cfg.SweepInterval, rec, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Run(ctx)
	}()

	if tgClient != nil {
		bot := telegram.NewBot(tgClient, managerService, applicationService, cfg.Telegram.PartnerURL, logger)
		poller := telegram.NewPoller(tgClient, bot, cfg.Telegram.PollingTimeout, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case err := <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	wg.Wait()

	logger.Info("server exited gracefully")
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repositories, error) {
	repos := &repositories{}

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		repos.managers = store.Managers()
		repos.apps = store.Applications()
		repos.settings = store.Settings()

	default:
		logger.Info("connecting to database",
			slog.String("host", cfg.DB.Host),
			slog.Int("port", cfg.DB.Port),
			slog.String("dbname", cfg.DB.Name),
			slog.String("sslmode", string(cfg.DB.SSLmode)),
		)
		pool, err := postgres.NewPool(ctx, cfg.DB.Port, cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, string(cfg.DB.SSLmode))
		if err != nil {
			return nil, fmt.Errorf("failed to create DB pool: %w", err)
		}
		repos.closers = append(repos.closers, pool.Close)

		if err := postgres.Migrate(ctx, pool); err != nil {
			repos.close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		logger.Info("database connection pool created successfully")

		repos.managers = postgresRepo.NewManagerRepository(pool)
		repos.apps = postgresRepo.NewApplicationRepository(pool)
		repos.settings = postgresRepo.NewSettingsRepository(pool)
	}

	switch cfg.Settings {
	case config.SettingsRedis:
		client, err := redisinfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			repos.close()
			return nil, err
		}
		repos.closers = append(repos.closers, func() { _ = client.Close() })

		store := settings.NewRedisStore(client, "")
		if err := store.EnsureDefaults(ctx); err != nil {
			repos.close()
			return nil, err
		}
		repos.settings = store
		logger.Info("auto-distribution flag stored in redis")

	case config.SettingsFile:
		store := settings.NewFileStore(cfg.SettingsFile)
		if err := store.EnsureDefaults(ctx); err != nil {
			repos.close()
			return nil, err
		}
		repos.settings = store
		logger.Info("auto-distribution flag stored in file", slog.String("path", cfg.SettingsFile))
	}

	return repos, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladimiradmaev/reprocket/internal/bot"
	"github.com/vladimiradmaev/reprocket/internal/bot/handlers"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/config"
	"github.com/vladimiradmaev/reprocket/internal/database"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
	"github.com/vladimiradmaev/reprocket/internal/repository"
	"github.com/vladimiradmaev/reprocket/internal/services"
	"github.com/vladimiradmaev/reprocket/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Starting RepRocket bot")

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
	logger.Info("Bot stopped")
	_ = logger.Close()
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend, stateManager, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	logger.Info("Storage ready", "driver", cfg.StorageDriver, "namespace", cfg.Namespace)

	m := metrics.NewManager("reprocket", "bot", prometheus.NewRegistry())

	providers, closeProviders, err := newAIProviders(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProviders()

	// Initialize services
	defaults := cfg.Defaults.Apply(domain.DefaultSettings())
	tracker := services.NewTrackerService(backend, defaults, m, cfg.Location)
	syncDone, err := tracker.StartSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}

	aiService := services.NewAIService(m, providers...)
	deps := handlers.Dependencies{
		Tracker:   tracker,
		Settings:  services.NewSettingsService(tracker),
		Weights:   services.NewWeightService(tracker),
		Stats:     services.NewStatsService(tracker, m, cfg.ExcusePreferredRestDays),
		AI:        aiService,
		Estimates: services.NewCalorieEstimateService(aiService, tracker),
		Backup:    services.NewBackupService(tracker),
		Metrics:   m,
	}
	logger.Info("Services initialized", "ai_providers", len(providers))

	telegramBot, err := bot.NewBot(cfg.TelegramToken, cfg.OwnerChatID, deps, stateManager)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			wg.Wait()
		}()
	}

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	err = telegramBot.Start(ctx)
	cancel()
	<-syncDone
	return err
}

func metricsMux(m *metrics.Manager) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// openStorage picks the backend named by STORAGE_DRIVER. Conversation
// state lives in Redis when Redis is the backend, in memory otherwise.
func openStorage(cfg *config.Config) (storage.Backend, state.StateManager, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresBackend(db, database.DSN(cfg.DB), cfg.Namespace), state.NewManager(), nil
	case config.StorageRedis:
		client, err := repository.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisBackend(client, cfg.Namespace), state.NewRedisManager(client, cfg.Namespace), nil
	default:
		return storage.NewMemoryBackend(cfg.MemoryQuotaBytes), state.NewManager(), nil
	}
}

// newAIProviders returns Gemini first and OpenAI as its fallback, skipping
// any without a key.
func newAIProviders(ctx context.Context, cfg *config.Config) ([]domain.AIProvider, func(), error) {
	var providers []domain.AIProvider
	closeFn := func() {}

	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, gemini)
		closeFn = func() { _ = gemini.Close() }
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, services.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}
	return providers, closeFn, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/config"
	"github.com/xavierca1/talent-pipeline/internal/entity"
	"github.com/xavierca1/talent-pipeline/internal/infra/cache"
	"github.com/xavierca1/talent-pipeline/internal/infra/database"
	"github.com/xavierca1/talent-pipeline/internal/infra/export"
	"github.com/xavierca1/talent-pipeline/internal/infra/http/handlers"
	"github.com/xavierca1/talent-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/talent-pipeline/internal/infra/mail"
	"github.com/xavierca1/talent-pipeline/internal/infra/queue"
	"github.com/xavierca1/talent-pipeline/internal/infra/worker"
	"github.com/xavierca1/talent-pipeline/internal/logging"
	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	logCloser := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.HealthCheck{}

	// 1. Store
	repo, closeStore := openStore(ctx, cfg)
	defer closeStore()
	checks["store"] = repo.Ping

	// 2. Selections
	var selections usecase.SelectionStore = cache.NewMemorySelectionStore()
	checks["redis"] = nil
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.Fatal("failed to connect to Redis", "error", err)
		}
		defer client.Close()
		redisStore := cache.NewRedisSelectionStore(client, cfg.SelectionTTL)
		selections = redisStore
		checks["redis"] = redisStore.Ping
	}

	// 3. Events and notifications
	var notifier queue.Notifier = mail.LogNotifier{}
	if cfg.Mail.Host != "" {
		notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.NotifyTo)
	}

	var publisher queue.Publisher = queue.NewLogPublisher(slog.Default())
	checks["rabbitmq"] = nil
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logging.Fatal("failed to connect to RabbitMQ", "error", err)
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)
		checks["rabbitmq"] = func(context.Context) error { return rabbitMQ.Ping() }

		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			logging.Fatal("failed to open consumer channel", "error", err)
		}
		w := queue.NewWorker(consumerCh, notifier)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				slog.Error("lead event worker stopped", "error", err)
			}
		}()
	}
	events := queue.ObservedPublisher{Next: publisher, Observe: middleware.RecordLeadEvent}

	go worker.NewFollowUpWorker(repo, events, cfg.FollowUpInterval).Start(ctx)

	// 4. UseCases
	var clock usecase.Clock = time.Now
	leadUCs := handlers.LeadUseCases{
		List:         usecase.NewListLeadsUseCase(repo, clock),
		Get:          usecase.NewGetLeadUseCase(repo),
		Add:          usecase.NewAddLeadUseCase(repo, events, clock),
		ChangeStatus: usecase.NewChangeStatusUseCase(repo, events, clock, cfg.TimelineOnStatusChange),
		BulkStatus:   usecase.NewBulkChangeStatusUseCase(repo, selections, events, clock, cfg.TimelineOnStatusChange),
		BulkDelete:   usecase.NewBulkDeleteUseCase(repo, selections, events, clock),
		LogContact:   usecase.NewLogContactUseCase(repo, events, clock),
		Export:       usecase.NewExportLeadsUseCase(repo, selections, export.Exporters(), events, clock),
	}
	statsUC := usecase.NewLeadStatsUseCase(repo, middleware.LeadStatsRecorder{}, clock)
	selectionUC := usecase.NewSelectionUseCase(repo, selections, clock)

	// 5. Router
	leadHandler := handlers.NewLeadHandler(leadUCs, cfg.RateLimitPerMinute)
	defer leadHandler.Close()

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.CORSOrigins,
		TrustProxy:     cfg.TrustProxy,
		Leads:          leadHandler,
		Stats:          handlers.NewStatsHandler(statsUC),
		Selections:     handlers.NewSelectionHandler(selectionUC),
		Health:         handlers.NewHealthHandler(version, checks),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("talent pipeline API listening", "port", cfg.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

type leadStore interface {
	entity.LeadRepositoryInterface
	Ping(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (leadStore, func()) {
	if cfg.Store == config.StoreMemory {
		var seed []entity.Lead
		if cfg.SeedDemoData {
			seed = database.DemoLeads(time.Now())
		}
		return database.NewMemoryLeadRepository(cfg.SimulatedLatency, seed...), func() {}
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		logging.Fatal("failed to migrate database", "error", err)
	}

	repo := database.NewLeadRepository(db)
	if cfg.SeedDemoData {
		if err := seedStore(ctx, repo); err != nil {
			logging.Fatal("failed to seed demo leads", "error", err)
		}
	}
	return repo, func() { _ = db.Close() }
}

// seedStore inserts the demo pipeline into an empty store, oldest first so the
// newest-first listing matches the memory store.
func seedStore(ctx context.Context, repo entity.LeadRepositoryInterface) error {
	existing, err := repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}

	demo := database.DemoLeads(time.Now())
	for i := len(demo) - 1; i >= 0; i-- {
		lead := demo[i]
		if _, _, err := repo.Create(ctx, &lead, "seed-"+lead.ID); err != nil {
			return err
		}
	}
	slog.Info("demo leads seeded", "count", len(demo))
	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/config"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/handlers"
	"github.com/kodinet/kodibot-engine/pkg/llm"
	"github.com/kodinet/kodibot-engine/pkg/middleware"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
	"github.com/kodinet/kodibot-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database.Host),
		zap.String("model", cfg.OpenAI.Model))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Migrations run over database/sql; the service itself uses the pgx pool.
	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	recorder := llm.NewExchangeRecorder(0)
	llmClient, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.OpenAI.BaseURL,
		Model:    cfg.OpenAI.Model,
		APIKey:   cfg.OpenAI.APIKey,
	}, recorder, logger)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}

	citizenRepo := repositories.NewCitizenRepository(db)
	linkRepo := repositories.NewLinkRepository(db)
	taxRepo := repositories.NewTaxRepository(db)
	parcelRepo := repositories.NewParcelRepository(db)
	procedureRepo := repositories.NewProcedureRepository(db)
	etaxRepo := repositories.NewETaxRepository(db)
	chatLogRepo := repositories.NewChatLogRepository(db)
	kcafRepo := repositories.NewKCAFRepository(db)

	linkingService := services.NewLinkingService(linkRepo, citizenRepo, logger)
	dataService := services.NewCitizenDataService(citizenRepo, taxRepo, parcelRepo, procedureRepo, etaxRepo, logger)
	classifier := services.NewIntentClassifier(llmClient, logger)
	responder := services.NewResponder()
	conversationService := services.NewConversationService(
		chatLogRepo, linkingService, dataService, classifier, llmClient, responder, logger)
	analyticsService := services.NewAnalyticsService(chatLogRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(conversationService, logger).RegisterRoutes(mux)
	handlers.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(mux)
	handlers.NewKCAFHandler(kcafRepo, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting kodibot-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

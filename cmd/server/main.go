package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"pipeline-board/internal/board"
	"pipeline-board/internal/config"
	"pipeline-board/internal/database"
	"pipeline-board/internal/handlers"
	"pipeline-board/internal/logging"
	"pipeline-board/internal/services"
	"pipeline-board/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.Environment, cfg.SentryDSN); err != nil {
		logrus.Warnf("Sentry disabled: %v", err)
	}
	defer logging.Flush()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Migrations and change notifications need a direct Postgres connection.
	realtimeClient := supabase.NewRealtimeClient(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		logrus.Warn("DATABASE_URL not set. Migrations are skipped and boards will not live-update.")
	} else {
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			logrus.Warnf("Failed to initialize migrator: %v", err)
		} else {
			if err := migrator.Run(ctx); err != nil {
				logrus.Warnf("Migration failed: %v", err)
			} else {
				logrus.Info("Migrations completed successfully")
			}
			migrator.Close()
		}

		go func() {
			if err := realtimeClient.Run(ctx); err != nil {
				logging.LogError("realtime_listener", err, nil)
			}
		}()
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		logrus.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	var attachmentService *services.AttachmentService
	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logrus.Warnf("Failed to initialize storage client, photo uploads disabled: %v", err)
	} else {
		attachmentService = services.NewAttachmentService(storageClient)
	}

	boardService := services.NewBoardService(
		supabase.NewLeadStore(supabaseClient),
		realtimeClient,
		supabase.NewPreferenceStore(supabaseClient),
		cfg.PreferenceSaveDelay,
		board.WithRestoreWindow(cfg.RestoreWindow()),
	)

	if cfg.WorkspaceIdleTTL > 0 {
		go boardService.RunEviction(ctx, cfg.WorkspaceIdleTTL, cfg.WorkspaceIdleTTL/4)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	handlers.RegisterRoutes(router, cfg.SupabaseJWTSecret, boardService, attachmentService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Warnf("Server shutdown: %v", err)
	}
	boardService.Close(shutdownCtx)
}

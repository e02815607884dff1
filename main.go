package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/printlabs/api"
	"github.com/raushankrgupta/printlabs/config"
	"github.com/raushankrgupta/printlabs/store"
	"github.com/raushankrgupta/printlabs/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := &api.Handler{Config: cfg, Logger: logger}

	// Initialize MongoDB
	if cfg.MongoURI != "" {
		client, err := store.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		handler.Sessions = store.NewMongoStore(client.Database(cfg.MongoDatabase).Collection(store.SessionsCollection))
		logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	} else {
		handler.Sessions = store.NewMemoryStore()
		logger.Warn("MONGO_URI not set, sessions are kept in memory")
	}

	if cfg.MirrorEnabled() {
		mirror, err := utils.NewDesignMirror(ctx, cfg.AWSRegion, cfg.DesignBucket)
		if err != nil {
			logger.Fatal("Failed to initialize design mirror", zap.Error(err))
		}
		handler.Mirror = mirror
		logger.Info("Design mirror enabled", zap.String("bucket", cfg.DesignBucket))
	}

	if cfg.NotifyEnabled() {
		handler.Notifier = utils.NewNotifier(cfg.SendGridAPIKey, cfg.NotifyEmail)
		logger.Info("Merchant notifications enabled", zap.String("to", cfg.NotifyEmail))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("appUrl", cfg.AppURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}

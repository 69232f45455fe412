package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/app"
	"github.com/Neuralic/Tinder-AI/internal/config"
	apihttp "github.com/Neuralic/Tinder-AI/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build services", zap.Error(err))
	}
	defer components.Close()

	copilotHandler := apihttp.NewCopilotHandler(logger, components.Profiles, components.Advice, cfg.ImageMaxBytes)
	router := apihttp.NewRouter(logger, apihttp.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        components.Metrics,
	}, copilotHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("llm_provider", cfg.LLMProvider),
			zap.String("vision_provider", cfg.VisionProvider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"TravelBlog/internal/ai"
	"TravelBlog/internal/config"
	"TravelBlog/internal/server"
	"TravelBlog/internal/service/blog"
	"TravelBlog/internal/service/tts/google"
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// HTTP API генератора контента для тревел-блога: идеи постов, обложки, озвучка.
func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() { _ = logger.Sync() }()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"Provider", cfg.Provider,
		"Configured", cfg.Configured(),
		"Narration", cfg.Narration.Enabled,
	)

	opts := []blog.Option{blog.WithPlaceholderBaseURL(cfg.PlaceholderBaseURL)}
	if !cfg.KeyRequired() {
		opts = append(opts, blog.WithoutAPIKey())
	}
	if cfg.Narration.Enabled {
		opts = append(opts, blog.WithNarrator(google.New(cfg.Narration, sugar)))
	}
	generator := blog.New(cfg.APIKey, ai.NewFactory(cfg), sugar, opts...)

	// Graceful shutdown on Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg.Server, generator, sugar).Run(ctx); err != nil {
		sugar.Errorw("server error", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

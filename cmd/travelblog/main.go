package main

import (
	"TravelBlog/internal/ai"
	"TravelBlog/internal/config"
	"TravelBlog/internal/service/blog"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Утилита для проверки генерации из консоли.
// Пример запуска:
//
//	go run ./cmd/travelblog -topic "Lisbon trams" -out cover.jpg
func main() {
	var (
		topic   string
		prompt  string
		out     string
		timeout time.Duration
	)
	flag.StringVar(&topic, "topic", "Paris", "тема поста для генерации идеи")
	flag.StringVar(&prompt, "prompt", "", "промпт для обложки (по умолчанию совпадает с -topic)")
	flag.StringVar(&out, "out", "", "куда сохранить сгенерированную обложку (JPEG)")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "общий таймаут запросов")

	// Базовая конфигурация приложения (подтягивает .env и ENV), флаги разбираются там же
	cfg := config.NewConfig()
	if prompt == "" {
		prompt = topic
	}

	zl, _ := zap.NewDevelopment()
	logger := zl.Sugar()
	defer zl.Sync() // flush

	opts := []blog.Option{blog.WithPlaceholderBaseURL(cfg.PlaceholderBaseURL)}
	if !cfg.KeyRequired() {
		opts = append(opts, blog.WithoutAPIKey())
	}
	generator := blog.New(cfg.APIKey, ai.NewFactory(cfg), logger, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	idea := generator.IdeaOutcome(ctx, topic)
	image := generator.ImageOutcome(ctx, prompt)

	fmt.Printf("Idea (%s):\n%s\n\n", label(idea), idea.Value)
	if strings.HasPrefix(image.Value, "data:") {
		fmt.Printf("Image (%s): data URI, %d bytes\n", label(image), len(image.Value))
	} else {
		fmt.Printf("Image (%s): %s\n", label(image), image.Value)
	}

	if out == "" || image.Fallback() {
		return
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(image.Value, "data:image/jpeg;base64,"))
	if err != nil {
		logger.Errorw("failed to decode image", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Errorw("failed to write image", "path", out, "error", err)
		os.Exit(1)
	}
	logger.Infow("Image saved", "path", out, "bytes", len(data))
}

func label(o blog.Outcome) string {
	if o.Fallback() {
		return "fallback: " + o.Reason.String()
	}
	return "generated"
}

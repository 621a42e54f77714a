package ai

import (
	"TravelBlog/internal/config"
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoImage — бэкенд ответил успешно, но не вернул ни одной картинки.
	ErrNoImage = errors.New("no image generated")
	// ErrEmptyText — бэкенд ответил успешно, но текст пустой.
	ErrEmptyText = errors.New("empty text generated")
)

// Backend интерфейс генеративного AI. Все реализации должны быть взаимозаменяемыми.
type Backend interface {
	// GenerateText выполняет один запрос генерации текста и возвращает текст ответа как есть.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateImage выполняет один запрос генерации картинки и возвращает байты первой картинки.
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, error)
}

// ImageOptions параметры генерации картинки.
type ImageOptions struct {
	Count       int
	MimeType    string
	AspectRatio string
}

// DefaultImageOptions — одна JPEG-картинка 16:9, обложка поста.
var DefaultImageOptions = ImageOptions{Count: 1, MimeType: "image/jpeg", AspectRatio: "16:9"}

// Factory создаёт бэкенд по ключу. Вызывается лениво, при первой генерации.
type Factory func(ctx context.Context, apiKey string) (Backend, error)

// NewFactory возвращает фабрику для провайдера из конфигурации.
func NewFactory(cfg *config.Config) Factory {
	return func(ctx context.Context, apiKey string) (Backend, error) {
		switch cfg.Provider {
		case config.ProviderGemini, "":
			return NewGeminiClient(ctx, apiKey, cfg)
		case config.ProviderOpenAI:
			return NewOpenAIClient(apiKey, cfg), nil
		case config.ProviderStub:
			return NewStubClient(), nil
		default:
			return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
		}
	}
}

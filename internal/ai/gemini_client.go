package ai

import (
	"TravelBlog/internal/config"
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient отправляет запросы в Gemini API: текст через Gemini, картинки через Imagen.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// GeminiOption меняет конфигурацию SDK-клиента, напр. адрес API.
type GeminiOption func(*genai.ClientConfig)

// WithGeminiHTTPOptions задаёт HTTP-настройки SDK (BaseURL, версия API, заголовки).
func WithGeminiHTTPOptions(opts genai.HTTPOptions) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPOptions = opts }
}

func NewGeminiClient(ctx context.Context, apiKey string, cfg *config.Config, opts ...GeminiOption) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}, nil
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content with model %s: %w", c.textModel, err)
	}
	return resp.Text(), nil
}

func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(opts.Count),
		OutputMIMEType: opts.MimeType,
		AspectRatio:    opts.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("generate images with model %s: %w", c.imageModel, err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrNoImage
	}
	img := resp.GeneratedImages[0]
	if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
		return nil, ErrNoImage
	}
	return img.Image.ImageBytes, nil
}

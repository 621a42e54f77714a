package ai

import (
	"TravelBlog/internal/config"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// OpenAIClient альтернативный провайдер: текст через Responses API, картинки через Images API.
type OpenAIClient struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

func NewOpenAIClient(apiKey string, cfg *config.Config, opts ...option.RequestOption) *OpenAIClient {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(all...)
	return &OpenAIClient{
		client:     &client,
		textModel:  cfg.OpenAITextModel,
		imageModel: cfg.OpenAIImageModel,
	}
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: openai.ChatModel(c.textModel),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai responses with model %s: %w", c.textModel, err)
	}
	return resp.OutputText(), nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, error) {
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:       prompt,
		Model:        openai.ImageModel(c.imageModel),
		N:            openai.Int(int64(opts.Count)),
		Size:         openai.ImageGenerateParamsSize(openAISize(opts.AspectRatio)),
		OutputFormat: openai.ImageGenerateParamsOutputFormat(openAIFormat(opts.MimeType)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai images with model %s: %w", c.imageModel, err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai images: base64 decode: %w", err)
	}
	return data, nil
}

// openAISize подбирает ближайший поддерживаемый размер: у OpenAI нет соотношения сторон, только фиксированные размеры.
func openAISize(aspectRatio string) string {
	switch aspectRatio {
	case "16:9", "4:3", "3:2":
		return "1536x1024"
	case "9:16", "3:4", "2:3":
		return "1024x1536"
	default:
		return "1024x1024"
	}
}

func openAIFormat(mimeType string) string {
	switch f := strings.TrimPrefix(strings.ToLower(mimeType), "image/"); f {
	case "png", "webp":
		return f
	default:
		return "jpeg"
	}
}

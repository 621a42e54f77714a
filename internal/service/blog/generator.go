package blog

import (
	"TravelBlog/internal/ai"
	"TravelBlog/internal/service/tts"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
)

const (
	// IdeaNotConfigured возвращается, когда ключ не задан.
	IdeaNotConfigured = "API Key not configured. Please set up your API_KEY."
	// IdeaFailed возвращается при любой ошибке генерации идеи.
	IdeaFailed = "Could not generate an idea at this time. Please try again later."

	defaultPlaceholderBaseURL = "https://picsum.photos"
	placeholderWidth          = 1200
	placeholderHeight         = 675
)

// Generator генерирует идеи постов и обложки через генеративный AI.
// Клиент бэкенда создаётся лениво при первом запросе и дальше переиспользуется.
// Все методы безопасны для конкурентного вызова и никогда не возвращают ошибку:
// при отсутствии ключа или сбое возвращается заглушка.
type Generator struct {
	apiKey          string
	keyless         bool
	factory         ai.Factory
	narrator        tts.Synthesizer
	placeholderBase string
	logger          *zap.SugaredLogger

	mu      sync.Mutex
	backend ai.Backend
}

type Option func(*Generator)

// WithNarrator включает озвучку идей.
func WithNarrator(s tts.Synthesizer) Option {
	return func(g *Generator) { g.narrator = s }
}

// WithoutAPIKey разрешает создавать бэкенд без ключа (stub-провайдер).
func WithoutAPIKey() Option {
	return func(g *Generator) { g.keyless = true }
}

// WithPlaceholderBaseURL переопределяет сервис картинок-заглушек (по умолчанию picsum.photos).
func WithPlaceholderBaseURL(u string) Option {
	return func(g *Generator) {
		if u = strings.TrimSpace(u); u != "" {
			g.placeholderBase = u
		}
	}
}

// New создаёт генератор. apiKey может быть пустым: тогда генерация отключена.
func New(apiKey string, factory ai.Factory, logger *zap.SugaredLogger, opts ...Option) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	g := &Generator{
		apiKey:          strings.TrimSpace(apiKey),
		factory:         factory,
		placeholderBase: defaultPlaceholderBaseURL,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configured сообщает, доступна ли генерация: задан ключ или он не нужен.
func (g *Generator) Configured() bool { return g.apiKey != "" || g.keyless }

var errNotConfigured = errors.New("api key is not configured")

// client возвращает закешированный клиент либо создаёт его. Без ключа — errNotConfigured.
// Неудачное создание не кешируется, следующий вызов попробует снова.
func (g *Generator) client(ctx context.Context) (ai.Backend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.backend != nil {
		return g.backend, nil
	}
	if !g.Configured() {
		g.logger.Warnw("API_KEY is not available in this environment. AI features will be disabled.")
		return nil, errNotConfigured
	}
	b, err := g.factory(ctx, g.apiKey)
	if err != nil {
		return nil, fmt.Errorf("create ai client: %w", err)
	}
	g.backend = b
	return b, nil
}

// GenerateIdea возвращает идею поста о topic или текстовую заглушку.
func (g *Generator) GenerateIdea(ctx context.Context, topic string) string {
	return g.IdeaOutcome(ctx, topic).Value
}

// IdeaOutcome то же, что GenerateIdea, но с причиной заглушки.
func (g *Generator) IdeaOutcome(ctx context.Context, topic string) Outcome {
	backend, err := g.client(ctx)
	if errors.Is(err, errNotConfigured) {
		return fallback(IdeaNotConfigured, ReasonNotConfigured, nil)
	}
	if err != nil {
		g.logger.Errorw("Error generating post idea", "topic", topic, "error", err)
		return fallback(IdeaFailed, ReasonRequestFailed, err)
	}

	started := time.Now()
	text, err := backend.GenerateText(ctx, IdeaPrompt(topic))
	if err != nil {
		g.logger.Errorw("Error generating post idea", "topic", topic, "duration", time.Since(started).String(), "error", err)
		return fallback(IdeaFailed, ReasonRequestFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Errorw("Error generating post idea", "topic", topic, "error", ai.ErrEmptyText)
		return fallback(IdeaFailed, ReasonEmptyResult, ai.ErrEmptyText)
	}
	g.logger.Infow("Post idea generated", "topic", topic, "duration", time.Since(started).String())
	return ok(text)
}

// GenerateImage возвращает обложку как data URI (data:image/jpeg;base64,...) или URL картинки-заглушки.
func (g *Generator) GenerateImage(ctx context.Context, prompt string) string {
	return g.ImageOutcome(ctx, prompt).Value
}

// ImageOutcome то же, что GenerateImage, но с причиной заглушки.
func (g *Generator) ImageOutcome(ctx context.Context, prompt string) Outcome {
	fallbackURL := PlaceholderURL(g.placeholderBase, prompt)

	backend, err := g.client(ctx)
	if errors.Is(err, errNotConfigured) {
		return fallback(fallbackURL, ReasonNotConfigured, nil)
	}
	if err != nil {
		g.logger.Errorw("Error generating image", "prompt", prompt, "error", err)
		return fallback(fallbackURL, ReasonRequestFailed, err)
	}

	started := time.Now()
	data, err := backend.GenerateImage(ctx, ImagePrompt(prompt), ai.DefaultImageOptions)
	if err == nil && len(data) == 0 {
		err = ai.ErrNoImage
	}
	if err != nil {
		g.logger.Errorw("Error generating image", "prompt", prompt, "duration", time.Since(started).String(), "error", err)
		if errors.Is(err, ai.ErrNoImage) {
			return fallback(fallbackURL, ReasonEmptyResult, err)
		}
		return fallback(fallbackURL, ReasonRequestFailed, err)
	}
	g.logger.Infow("Image generated", "prompt", prompt, "bytes", len(data), "duration", time.Since(started).String())
	return ok(dataURI(ai.DefaultImageOptions.MimeType, data))
}

// Narrate озвучивает текст и возвращает data:audio/mpeg;base64,... или пустую строку, если озвучка недоступна.
func (g *Generator) Narrate(ctx context.Context, text string) string {
	return g.NarrationOutcome(ctx, text).Value
}

// NarrationOutcome то же, что Narrate, но с причиной заглушки.
func (g *Generator) NarrationOutcome(ctx context.Context, text string) Outcome {
	if g.narrator == nil {
		return fallback("", ReasonNotConfigured, nil)
	}
	if strings.TrimSpace(text) == "" {
		return fallback("", ReasonEmptyResult, nil)
	}
	audio, err := g.narrator.Synthesize(ctx, text)
	if err != nil {
		g.logger.Errorw("Error narrating text", "error", err)
		return fallback("", ReasonRequestFailed, err)
	}
	if len(audio) == 0 {
		return fallback("", ReasonEmptyResult, nil)
	}
	return ok(dataURI("audio/mpeg", audio))
}

// IdeaPrompt формирует промпт генерации идеи поста.
func IdeaPrompt(topic string) string {
	return fmt.Sprintf("Generate a short, engaging travel blog post idea about \"%s\". Make it sound like a personal anecdote or a helpful tip. Focus on a single paragraph.", topic)
}

// ImagePrompt формирует промпт генерации обложки.
func ImagePrompt(prompt string) string {
	return fmt.Sprintf("A beautiful, vibrant, high-quality photograph of %s. Travel photography style, cinematic lighting.", prompt)
}

// PlaceholderURL детерминированный URL картинки-заглушки: промпт без пробельных символов как seed.
func PlaceholderURL(baseURL, prompt string) string {
	if baseURL == "" {
		baseURL = defaultPlaceholderBaseURL
	}
	seed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, prompt)
	return fmt.Sprintf("%s/seed/%s/%d/%d", strings.TrimRight(baseURL, "/"), seed, placeholderWidth, placeholderHeight)
}

func dataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

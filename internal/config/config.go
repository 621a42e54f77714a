package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderStub   = "stub" // без сетевых запросов и без ключа, для локальной разработки фронтенда
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"`  // Режим дебага (development-логгер)
	APIKey    string `env:"API_KEY"`     // Ключ генеративного AI. Пустой — генерация отключена, работают заглушки
	Provider  string `env:"AI_PROVIDER"` // gemini|openai|stub, по умолчанию gemini

	TextModel        string `env:"AI_TEXT_MODEL"`      // Модель Gemini для текста
	ImageModel       string `env:"AI_IMAGE_MODEL"`     // Модель Imagen для картинок
	OpenAITextModel  string `env:"OPENAI_TEXT_MODEL"`  // Модель OpenAI для текста
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL"` // Модель OpenAI для картинок

	// Сервис картинок-заглушек, в него подставляется seed из промпта
	PlaceholderBaseURL string `env:"PLACEHOLDER_BASE_URL"`

	Server    ServerConfig
	Narration NarrationConfig
}

// ServerConfig конфигурация HTTP API для фронтенда блога.
type ServerConfig struct {
	BindAddr       string        `env:"SERVER_BIND_ADDR"`                        // Адрес слушателя, напр. 127.0.0.1:8080
	AllowedOrigins []string      `env:"SERVER_ALLOWED_ORIGINS" envSeparator:";"` // Разрешённые CORS origins
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT"`                  // Таймаут одного запроса к AI
}

// NarrationConfig конфигурация озвучки идеи поста через Google Cloud Text-to-Speech.
// Авторизация через ADC (GOOGLE_APPLICATION_CREDENTIALS), API_KEY здесь не используется.
type NarrationConfig struct {
	Enabled      bool    `env:"NARRATION_ENABLED"`
	Language     string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice        string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:          false,
		Provider:           ProviderGemini,
		TextModel:          "gemini-2.5-flash",
		ImageModel:         "imagen-4.0-generate-001",
		OpenAITextModel:    "gpt-4o",
		OpenAIImageModel:   "gpt-image-1",
		PlaceholderBaseURL: "https://picsum.photos",
		Server: ServerConfig{
			BindAddr:       "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:5173"},
			RequestTimeout: 60 * time.Second,
		},
		Narration: NarrationConfig{
			Enabled:      false,
			Language:     "en-US",
			Voice:        "en-US-Standard-C",
			SpeakingRate: 1.0,
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и флагов командной строки.
// Дополнительные флаги утилиты нужно зарегистрировать в flag.CommandLine до вызова.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load стартует с дефолтов, перекрывает их окружением, затем флагами из args.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.Provider, "ai-provider", cfg.Provider, "провайдер генерации: gemini|openai|stub")
	fs.StringVar(&cfg.TextModel, "ai-text-model", cfg.TextModel, "модель Gemini для генерации идей")
	fs.StringVar(&cfg.ImageModel, "ai-image-model", cfg.ImageModel, "модель Imagen для генерации картинок")
	fs.StringVar(&cfg.OpenAITextModel, "openai-text-model", cfg.OpenAITextModel, "модель OpenAI для генерации идей")
	fs.StringVar(&cfg.OpenAIImageModel, "openai-image-model", cfg.OpenAIImageModel, "модель OpenAI для генерации картинок")
	fs.StringVar(&cfg.PlaceholderBaseURL, "placeholder-base-url", cfg.PlaceholderBaseURL, "базовый URL сервиса картинок-заглушек")
	// Сервер
	fs.StringVar(&cfg.Server.BindAddr, "server-bind-addr", cfg.Server.BindAddr, "адрес для прослушивания HTTP API (напр. 127.0.0.1:8080)")
	originsFlag := strings.Join(cfg.Server.AllowedOrigins, ";")
	fs.StringVar(&originsFlag, "server-allowed-origins", originsFlag, "разрешённые CORS origins, разделённые ';'")
	fs.DurationVar(&cfg.Server.RequestTimeout, "server-request-timeout", cfg.Server.RequestTimeout, "таймаут одного запроса к AI, напр. 60s")
	// Озвучка
	fs.BoolVar(&cfg.Narration.Enabled, "narration-enabled", cfg.Narration.Enabled, "включить озвучку идей через Google TTS")
	fs.StringVar(&cfg.Narration.Language, "google-tts-language", cfg.Narration.Language, "язык синтеза, напр. en-US")
	fs.StringVar(&cfg.Narration.Voice, "google-tts-voice", cfg.Narration.Voice, "имя голоса, напр. en-US-Standard-C")
	fs.Float64Var(&cfg.Narration.SpeakingRate, "google-tts-speaking-rate", cfg.Narration.SpeakingRate, "скорость речи (1.0 по умолчанию)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.AllowedOrigins = parseListFlag(originsFlag, nil)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	switch cfg.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderStub:
	default:
		return nil, fmt.Errorf("unknown ai provider %q: expected gemini, openai or stub", cfg.Provider)
	}

	return cfg, nil
}

// Configured сообщает, доступна ли генерация. Отсутствие ключа не ошибка: генерация уходит в заглушки.
func (c *Config) Configured() bool { return c.APIKey != "" || !c.KeyRequired() }

// KeyRequired сообщает, нужен ли провайдеру API_KEY. Stub работает без ключа.
func (c *Config) KeyRequired() bool { return c.Provider != ProviderStub }

// parseListFlag разбирает значение флага со списком, разделённым ';'
func parseListFlag(v string, def []string) []string {
	if v == "" {
		return def
	}
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}

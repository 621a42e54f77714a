package server

import (
	"TravelBlog/internal/config"
	"TravelBlog/internal/service/blog"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server HTTP API для фронтенда блога. Ошибки генерации не превращаются в 5xx:
// клиент всегда получает контент или заглушку.
type Server struct {
	cfg       config.ServerConfig
	generator *blog.Generator
	logger    *zap.SugaredLogger
	srv       *http.Server
}

type topicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type promptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

type outcomeResponse struct {
	Value    string `json:"value"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

func New(cfg config.ServerConfig, generator *blog.Generator, logger *zap.SugaredLogger) *Server {
	return &Server{cfg: cfg, generator: generator, logger: logger}
}

// Handler собирает роутер gin со всеми маршрутами.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api")
	{
		api.POST("/idea", s.handleIdea)
		api.POST("/image", s.handleImage)
		api.POST("/draft", s.handleDraft)
		api.POST("/narration", s.handleNarration)
	}
	return r
}

// Run слушает адрес из конфигурации до отмены ctx, затем корректно останавливается.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.BindAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// картинка может генерироваться дольше таймаута запроса к AI
		WriteTimeout: s.timeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("HTTP API listening", "addr", s.cfg.BindAddr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), 5*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		_ = s.srv.Close()
		return err
	}
	s.logger.Infow("HTTP API stopped")
	return nil
}

func (s *Server) timeout() time.Duration {
	if s.cfg.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return s.cfg.RequestTimeout
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "configured": s.generator.Configured()})
}

func (s *Server) handleIdea(c *gin.Context) {
	var req topicRequest
	if !bindJSON(c, &req, func() string { return req.Topic }) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	out := s.generator.IdeaOutcome(ctx, req.Topic)
	c.JSON(http.StatusOK, gin.H{"idea": out.Value, "fallback": out.Fallback(), "reason": reasonOf(out)})
}

func (s *Server) handleImage(c *gin.Context) {
	var req promptRequest
	if !bindJSON(c, &req, func() string { return req.Prompt }) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	out := s.generator.ImageOutcome(ctx, req.Prompt)
	c.JSON(http.StatusOK, gin.H{"image": out.Value, "fallback": out.Fallback(), "reason": reasonOf(out)})
}

func (s *Server) handleDraft(c *gin.Context) {
	var req topicRequest
	if !bindJSON(c, &req, func() string { return req.Topic }) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	d := s.generator.GenerateDraft(ctx, req.Topic)
	c.JSON(http.StatusOK, gin.H{
		"topic": d.Topic,
		"idea":  toResponse(d.Idea),
		"image": toResponse(d.Image),
	})
}

func (s *Server) handleNarration(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req, func() string { return req.Text }) {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	out := s.generator.NarrationOutcome(ctx, req.Text)
	c.JSON(http.StatusOK, gin.H{"audio": out.Value, "fallback": out.Fallback(), "reason": reasonOf(out)})
}

// bindJSON разбирает тело запроса и проверяет, что обязательное поле не пустое. При ошибке отвечает 400.
func bindJSON(c *gin.Context, req any, field func() string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if strings.TrimSpace(field()) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "empty input"})
		return false
	}
	return true
}

func toResponse(o blog.Outcome) outcomeResponse {
	return outcomeResponse{Value: o.Value, Fallback: o.Fallback(), Reason: reasonOf(o)}
}

func reasonOf(o blog.Outcome) string {
	if !o.Fallback() {
		return ""
	}
	return o.Reason.String()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Infow("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(started).String(),
		)
	}
}

package ai

import (
	"TravelBlog/internal/config"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

func TestNewFactory(t *testing.T) {
	cfg := config.Defaults()
	ctx := context.Background()

	cfg.Provider = config.ProviderStub
	b, err := NewFactory(cfg)(ctx, "key")
	if err != nil {
		t.Fatalf("stub factory: %v", err)
	}
	if _, ok := b.(*StubClient); !ok {
		t.Errorf("stub provider built %T", b)
	}

	cfg.Provider = config.ProviderOpenAI
	b, err = NewFactory(cfg)(ctx, "key")
	if err != nil {
		t.Fatalf("openai factory: %v", err)
	}
	if _, ok := b.(*OpenAIClient); !ok {
		t.Errorf("openai provider built %T", b)
	}

	cfg.Provider = config.ProviderGemini
	b, err = NewFactory(cfg)(ctx, "key")
	if err != nil {
		t.Fatalf("gemini factory: %v", err)
	}
	if _, ok := b.(*GeminiClient); !ok {
		t.Errorf("gemini provider built %T", b)
	}

	cfg.Provider = "palm"
	if _, err := NewFactory(cfg)(ctx, "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestStubClient(t *testing.T) {
	c := NewStubClient()
	text, err := c.GenerateText(context.Background(), "anything")
	if err != nil || text == "" {
		t.Fatalf("GenerateText() = %q, %v", text, err)
	}
	data, err := c.GenerateImage(context.Background(), "anything", DefaultImageOptions)
	if err != nil {
		t.Fatalf("GenerateImage() error: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stub image is not a jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Errorf("stub image size = %dx%d", b.Dx(), b.Dy())
	}
}

func newOpenAITestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("test-key", config.Defaults(), option.WithBaseURL(srv.URL+"/v1/"), option.WithMaxRetries(0))
}

func TestOpenAIGenerateImage(t *testing.T) {
	payload := []byte("jpeg-bytes")
	var got map[string]any
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(payload) + `"}]}`))
	})

	data, err := c.GenerateImage(context.Background(), "Kyoto temples", DefaultImageOptions)
	if err != nil {
		t.Fatalf("GenerateImage() error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("GenerateImage() = %q, want %q", data, payload)
	}
	if got["prompt"] != "Kyoto temples" || got["model"] != "gpt-image-1" || got["size"] != "1536x1024" || got["output_format"] != "jpeg" {
		t.Errorf("request body = %v", got)
	}
}

func TestOpenAIGenerateImageEmpty(t *testing.T) {
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
	})

	if _, err := c.GenerateImage(context.Background(), "Kyoto", DefaultImageOptions); !errors.Is(err, ErrNoImage) {
		t.Errorf("GenerateImage() error = %v, want ErrNoImage", err)
	}
}

func TestOpenAIGenerateTextError(t *testing.T) {
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	if _, err := c.GenerateText(context.Background(), "hello"); err == nil {
		t.Error("expected error on 401")
	}
}

func TestOpenAIMapping(t *testing.T) {
	sizes := map[string]string{"16:9": "1536x1024", "9:16": "1024x1536", "1:1": "1024x1024", "": "1024x1024"}
	for in, want := range sizes {
		if got := openAISize(in); got != want {
			t.Errorf("openAISize(%q) = %q, want %q", in, got, want)
		}
	}
	formats := map[string]string{"image/jpeg": "jpeg", "image/png": "png", "IMAGE/WEBP": "webp", "": "jpeg"}
	for in, want := range formats {
		if got := openAIFormat(in); got != want {
			t.Errorf("openAIFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

type geminiRequest struct {
	path   string
	apiKey string
	body   map[string]any
}

type geminiRecorder struct {
	mu       sync.Mutex
	requests []geminiRequest
}

func (r *geminiRecorder) all() []geminiRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]geminiRequest(nil), r.requests...)
}

func newGeminiTestClient(t *testing.T, response string) (*GeminiClient, *geminiRecorder) {
	t.Helper()
	rec := &geminiRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := geminiRequest{path: r.URL.Path, apiKey: r.Header.Get("x-goog-api-key")}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req.body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, req)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	c, err := NewGeminiClient(context.Background(), "test-key", config.Defaults(),
		WithGeminiHTTPOptions(genai.HTTPOptions{BaseURL: srv.URL}))
	if err != nil {
		t.Fatalf("NewGeminiClient() error: %v", err)
	}
	return c, rec
}

func TestGeminiGenerateText(t *testing.T) {
	c, rec := newGeminiTestClient(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Once in Porto..."}]}}]}`)

	text, err := c.GenerateText(context.Background(), "idea about Porto")
	if err != nil {
		t.Fatalf("GenerateText() error: %v", err)
	}
	if text != "Once in Porto..." {
		t.Errorf("GenerateText() = %q", text)
	}
	requests := rec.all()
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	req := requests[0]
	if !strings.HasSuffix(req.path, "/models/gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", req.path)
	}
	if req.apiKey != "test-key" {
		t.Errorf("x-goog-api-key = %q", req.apiKey)
	}
	if !strings.Contains(mustJSON(t, req.body["contents"]), "idea about Porto") {
		t.Errorf("contents = %v", req.body["contents"])
	}
}

func TestGeminiGenerateImage(t *testing.T) {
	c, rec := newGeminiTestClient(t, `{"predictions":[{"bytesBase64Encoded":"/9j/AQI=","mimeType":"image/jpeg"}]}`)

	data, err := c.GenerateImage(context.Background(), "Porto at dusk", DefaultImageOptions)
	if err != nil {
		t.Fatalf("GenerateImage() error: %v", err)
	}
	if want := []byte{0xff, 0xd8, 0xff, 0x01, 0x02}; !bytes.Equal(data, want) {
		t.Errorf("GenerateImage() = % x, want % x", data, want)
	}

	requests := rec.all()
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	req := requests[0]
	if !strings.HasSuffix(req.path, "/models/imagen-4.0-generate-001:predict") {
		t.Errorf("path = %q", req.path)
	}
	params, _ := req.body["parameters"].(map[string]any)
	if params["sampleCount"] != float64(1) || params["aspectRatio"] != "16:9" {
		t.Errorf("parameters = %v", params)
	}
	output, _ := params["outputOptions"].(map[string]any)
	if output["mimeType"] != "image/jpeg" {
		t.Errorf("outputOptions = %v", output)
	}
	if !strings.Contains(mustJSON(t, req.body["instances"]), "Porto at dusk") {
		t.Errorf("instances = %v", req.body["instances"])
	}
}

func TestGeminiGenerateImageEmpty(t *testing.T) {
	c, _ := newGeminiTestClient(t, `{"predictions":[]}`)

	if _, err := c.GenerateImage(context.Background(), "Porto", DefaultImageOptions); !errors.Is(err, ErrNoImage) {
		t.Errorf("GenerateImage() error = %v, want ErrNoImage", err)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/internal/telemetry"
)

// DefaultOllamaModel is used when the caller does not name a model and
// the daemon reports none.
const DefaultOllamaModel = "llama3.2"

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	// URL is the base URL of the Ollama daemon. Default: http://localhost:11434
	URL string `mapstructure:"url" yaml:"url"`

	// DefaultModel is used when a generation request names no model.
	DefaultModel string `mapstructure:"default_model" yaml:"default_model"`

	// Timeout bounds a single upstream call. Generation can take minutes
	// on CPU-only hosts. Default: 180s
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *OllamaConfig) ApplyDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:11434"
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultOllamaModel
	}
	if c.Timeout == 0 {
		c.Timeout = 180 * time.Second
	}
}

// OllamaClient talks to a local Ollama daemon.
type OllamaClient struct {
	client
	defaultModel string
}

// NewOllamaClient creates a client for the Ollama daemon.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	cfg.ApplyDefaults()
	return &OllamaClient{
		client:       newClient(cfg.URL, cfg.Timeout),
		defaultModel: cfg.DefaultModel,
	}
}

// DefaultModel returns the configured fallback model name.
func (c *OllamaClient) DefaultModel() string {
	return c.defaultModel
}

// tagsResponse is the shape of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of the locally available models.
// When the daemon is unreachable or reports no models, the default model
// is returned so the frontend always has something to offer.
func (c *OllamaClient) ListModels(ctx context.Context) []string {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanOllamaModels)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("ollama"))

	var resp tagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "failed to fetch local models",
			logger.KeyUpstream, "ollama", logger.KeyError, err)
		return []string{c.defaultModel}
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}

	if len(names) == 0 {
		logger.WarnCtx(ctx, "no local models found", logger.KeyUpstream, "ollama")
		return []string{c.defaultModel}
	}

	logger.InfoCtx(ctx, "fetched local models",
		logger.KeyUpstream, "ollama", logger.KeyCount, len(names))
	return names
}

// chatMessage is a single message in an Ollama chat exchange.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions tunes the sampling parameters of a chat request.
type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

// chatResponse is the body of a non-streaming chat reply.
type chatResponse struct {
	Message *chatMessage `json:"message"`
}

// Generate runs a single non-streaming chat completion against the daemon.
// The system prompt carries the pedagogy instructions; the user prompt the
// concrete material request. Returns the raw generated HTML.
func (c *OllamaClient) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(model) == "" {
		model = c.defaultModel
		logger.InfoCtx(ctx, "no model specified, using default", logger.KeyModel, model)
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanOllamaGenerate)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("ollama"), telemetry.Model(model))

	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: 0.7,
			NumPredict:  2048,
			TopP:        0.9,
		},
	}

	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		telemetry.RecordError(ctx, err)
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	if resp.Message == nil || resp.Message.Content == "" {
		err := errors.New("no content returned from Ollama API")
		telemetry.RecordError(ctx, err)
		return "", err
	}

	logger.InfoCtx(ctx, "generated material", logger.KeyModel, model)
	return resp.Message.Content, nil
}

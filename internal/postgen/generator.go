package postgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/MrSnakeDoc/telemanager/internal/logger"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
)

// ContentGenerator is the part of the genai client the generator needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator writes channel posts with Gemini.
type Generator struct {
	models  ContentGenerator
	model   string
	timeout time.Duration
	log     logger.Logger
}

// New wraps an existing content generator. Empty model and non-positive
// timeout select the defaults.
func New(models ContentGenerator, model string, timeout time.Duration, log logger.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{models: models, model: model, timeout: timeout, log: log}
}

// NewGemini builds a generator backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, log logger.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return New(client.Models, model, timeout, log), nil
}

// Model returns the model name used for generation.
func (g *Generator) Model() string {
	return g.model
}

// Generate writes a post for cfg. Every model failure, and an empty
// answer, is reported as ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, cfg Config) (string, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	temperature, _ := cfg.Creativity.Temperature()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(cfg)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
	})
	if err != nil {
		g.log.Error("gemini request failed",
			logger.String("model", g.model),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		g.log.Warn("gemini returned no text", logger.String("model", g.model))
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	g.log.Info("post generated",
		logger.String("model", g.model),
		logger.String("creativity", string(cfg.Creativity)),
		logger.Int("chars", len(text)),
		logger.Duration("elapsed", time.Since(start)))
	return text, nil
}

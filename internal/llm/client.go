// Package llm wraps an OpenAI-compatible chat endpoint (OpenRouter in
// production) for question answering, case analysis, comparison commentary,
// drafting, and translation, plus the embedding endpoint used by the index.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/muscatlabs/qanun/internal/index"
)

// Config carries the endpoint settings for chat and embeddings.
type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	EmbeddingBaseURL string
	EmbeddingModel   string
	Temperature      float64
	MaxTokens        int
}

// Client talks to the chat and embedding endpoints.
type Client struct {
	chat     llms.Model
	embedder embeddings.Embedder
	cfg      Config
	stats    *Stats
	log      *slog.Logger
}

// New builds a client. Both endpoints speak the OpenAI wire protocol, so a
// local TEI server works for embeddings with a placeholder token.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("chat model required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2500
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for keyless local endpoints.
		apiKey = "placeholder"
	}

	chatOpts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		chatOpts = append(chatOpts, openai.WithBaseURL(cfg.BaseURL))
	}
	chat, err := openai.New(chatOpts...)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}

	embedOpts := []openai.Option{
		openai.WithModel(cfg.EmbeddingModel),
		openai.WithToken(apiKey),
	}
	if cfg.EmbeddingBaseURL != "" {
		embedOpts = append(embedOpts, openai.WithBaseURL(cfg.EmbeddingBaseURL))
	}
	embedLLM, err := openai.New(embedOpts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Client{
		chat:     chat,
		embedder: embedder,
		cfg:      cfg,
		stats:    NewStats(time.Hour),
		log:      log,
	}, nil
}

// EmbeddingFunc adapts the embedder for the vector index.
func (c *Client) EmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return c.embedder.EmbedQuery(ctx, text)
	}
}

// Stats exposes the latency tracker for the stats endpoint.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Model reports the configured chat model.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate sends one prompt and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, c.chat, prompt,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	elapsed := time.Since(start).Milliseconds()
	c.stats.Record(elapsed)

	if err != nil {
		c.log.Error("llm call failed", "model", c.cfg.Model, "duration_ms", elapsed, "error", err)
		if IsTransient(err) {
			return "", &RetryableError{Message: err.Error()}
		}
		return "", fmt.Errorf("llm call: %w", err)
	}

	c.log.Debug("llm call", "model", c.cfg.Model, "duration_ms", elapsed)
	return strings.TrimSpace(out), nil
}

// Answer answers a question over retrieved provisions, citing sources.
func (c *Client) Answer(ctx context.Context, question string, hits []index.Result) (string, error) {
	return c.Generate(ctx, buildAnswerPrompt(question, hits))
}

// AnalyzeCase runs the structured case analysis over a fact pattern.
func (c *Client) AnalyzeCase(ctx context.Context, facts string, questions []string, hits []index.Result) (string, error) {
	return c.Generate(ctx, buildCasePrompt(facts, questions, hits))
}

// CompareCommentary generates a narrative comparison of two provisions.
func (c *Client) CompareCommentary(ctx context.Context, provision1, provision2 string) (string, error) {
	return c.Generate(ctx, buildComparePrompt(provision1, provision2))
}

// Draft generates a formal legal document of the given kind.
func (c *Client) Draft(ctx context.Context, kind string, params map[string]string) (string, error) {
	prompt, err := buildDraftPrompt(kind, params)
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, prompt)
}

// Translate translates legal text between Arabic and English. Source is
// detected from the text when empty.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	prompt, err := buildTranslatePrompt(text, source, target)
	if err != nil {
		return "", err
	}
	out, err := c.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return stripCodeBlock(out), nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```[a-z]*\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	Message string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable llm error: %s", truncate(e.Message, 200))
}

var transientMarkers = []string{
	"429", "500", "502", "503",
	"rate limit", "overloaded", "timeout",
	"connection refused", "connection reset",
}

// IsTransient reports whether an error looks like a passing upstream
// condition worth retrying.
func IsTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

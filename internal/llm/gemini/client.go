// Package gemini implements the llm interfaces on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/mcatarino/order-extractor/internal/llm"
)

// Config carries everything the client needs. Zero values fall back to
// sensible defaults in New.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	Logger      *slog.Logger
}

// Client talks to Gemini. It implements llm.Oracle.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	maxRetries  int
	log         *slog.Logger
}

// New builds a Gemini client for the public API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		log:         cfg.Logger,
	}, nil
}

// generate sends one request with a small fixed retry on transport failure.
// Responses are returned as raw text; parsing belongs to the callers.
func (c *Client) generate(ctx context.Context, op string, parts []*genai.Part) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()
	c.log.Info(op+".start", "req_id", reqID, "model", c.model, "parts", len(parts))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			c.log.Warn(op+".retry", "req_id", reqID, "attempt", attempt, "err", lastErr)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.Models.GenerateContent(callCtx, c.model, contents, config)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("gemini: empty response")
			continue
		}
		c.log.Info(op+".ok", "req_id", reqID, "elapsed_ms", time.Since(start).Milliseconds(), "chars", len(text))
		return text, nil
	}

	c.log.Error(op+".fail", "req_id", reqID, "elapsed_ms", time.Since(start).Milliseconds(), "err", lastErr)
	return "", fmt.Errorf("gemini: %s after %d attempts: %w", op, c.maxRetries+1, lastErr)
}

// ExtractPage implements llm.PageExtractor.
func (c *Client) ExtractPage(ctx context.Context, req llm.PageRequest) (string, error) {
	var prompt string
	if req.Page == 1 {
		prompt = llm.BuildFirstPagePrompt(req.Context, req.Page, req.TotalPages)
	} else {
		prompt = llm.BuildAdditionalPagePrompt(req.Context, req.Page, req.TotalPages, req.PreviousProducts)
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image}},
	}
	return c.generate(ctx, "gemini.extract.page", parts)
}

// ClassifyColor implements llm.ColorClassifier.
func (c *Client) ClassifyColor(ctx context.Context, colorName string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(llm.BuildColorPrompt(colorName))}
	return c.generate(ctx, "gemini.classify.color", parts)
}

// AnalyzeContext implements llm.ContextAnalyzer.
func (c *Client) AnalyzeContext(ctx context.Context, req llm.ContextRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(llm.BuildContextPrompt(req))}
	if len(req.Image) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image}})
	}
	return c.generate(ctx, "gemini.analyze.context", parts)
}

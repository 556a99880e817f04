package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quillworks/quill/internal/config"
	"github.com/quillworks/quill/pkg/formatting"
	"github.com/quillworks/quill/pkg/metrics"
)

// maxResponseSize caps provider response bodies at 10MB.
const maxResponseSize = 10 * 1024 * 1024

const refinementContract = `You are a prompt engineering assistant. You receive a compiled prompt and
refinement instructions. Improve the prompt according to the instructions while
preserving its intent and structure.

Respond with a JSON object matching this exact structure:

{
  "analysis": "<what you changed and why>",
  "refined_prompt": "<the full improved prompt>",
  "error": ""
}

Field constraints:
- analysis: Brief explanation of the weaknesses found and the changes made.
- refined_prompt: The complete refined prompt text, ready to use as-is.
- error: Empty string on success. If the prompt cannot be refined as
  instructed, explain why here and leave refined_prompt empty.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent requirements the original prompt does not state`

// Request carries a compiled prompt and refinement parameters. Zero-value
// fields fall back to configured defaults.
type Request struct {
	Prompt       string  `json:"prompt"`
	Instructions string  `json:"instructions"`
	Provider     string  `json:"provider,omitempty"`
	Model        string  `json:"model,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	APIKey       string  `json:"api_key,omitempty"`
}

// Result holds a successful refinement.
type Result struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Analysis      string `json:"analysis"`
	RefinedPrompt string `json:"refined_prompt"`
}

type refinePayload struct {
	Analysis      string `json:"analysis"`
	RefinedPrompt string `json:"refined_prompt"`
	Error         string `json:"error"`
}

// System defines the public contract for refinement operations.
type System interface {
	Handler() *Handler
	Refine(ctx context.Context, req Request) (*Result, error)
}

type client struct {
	cfg    *config.RefineConfig
	http   *http.Client
	logger *slog.Logger
}

// New creates a refinement system backed by the configured providers.
func New(cfg *config.RefineConfig, logger *slog.Logger) System {
	return &client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "refine"),
	}
}

func (c *client) Handler() *Handler {
	return NewHandler(c, c.logger)
}

func (c *client) Refine(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	c.applyDefaults(&req)

	provider, err := LookupProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := c.send(ctx, provider, req)
	if err != nil {
		metrics.RecordRefinement(req.Provider, "error", time.Since(start).Seconds())
		return nil, err
	}

	payload, err := formatting.Parse[refinePayload](content)
	if err != nil {
		metrics.RecordRefinement(req.Provider, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	if payload.Error != "" {
		metrics.RecordRefinement(req.Provider, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", ErrRefusal, payload.Error)
	}

	metrics.RecordRefinement(req.Provider, "success", time.Since(start).Seconds())
	c.logger.Info("prompt refined", "provider", req.Provider, "model", req.Model)

	return &Result{
		Provider:      req.Provider,
		Model:         req.Model,
		Analysis:      payload.Analysis,
		RefinedPrompt: payload.RefinedPrompt,
	}, nil
}

func (c *client) applyDefaults(req *Request) {
	if req.Provider == "" {
		req.Provider = c.cfg.Provider
	}
	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Temperature
	}
	if req.APIKey == "" {
		req.APIKey = c.cfg.APIKey
	}
}

// send issues the provider request with exponential backoff, retrying on
// transport errors and 5xx / 429 responses.
func (c *client) send(ctx context.Context, provider Provider, req Request) (string, error) {
	user := req.Prompt
	if strings.TrimSpace(req.Instructions) != "" {
		user = fmt.Sprintf("Refinement instructions:\n%s\n\nPrompt to refine:\n%s", req.Instructions, req.Prompt)
	}

	body, err := json.Marshal(provider.RequestBody(req.Model, req.Temperature, refinementContract, user))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	backoff := c.cfg.BackoffBaseDuration()
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * c.cfg.BackoffFactor)
			if backoff > c.cfg.BackoffMaxDuration() {
				backoff = c.cfg.BackoffMaxDuration()
			}
		}

		content, retryable, err := c.attempt(ctx, provider, req, body)
		if err == nil {
			return content, nil
		}

		lastErr = err
		if !retryable {
			return "", err
		}

		c.logger.Warn("refinement attempt failed",
			"provider", req.Provider,
			"attempt", attempt,
			"error", err,
		)
	}

	return "", fmt.Errorf("%w: %v", ErrProviderFailure, lastErr)
}

func (c *client) attempt(ctx context.Context, provider Provider, req Request, body []byte) (string, bool, error) {
	url := provider.RequestURL(c.baseURL(req.Provider))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	provider.SetHeaders(httpReq, req.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("%w: status %d: %s", ErrProviderFailure, resp.StatusCode, truncate(string(data), 512))
	}

	content, err := provider.ParseContent(data)
	if err != nil {
		return "", false, err
	}

	return content, false, nil
}

func (c *client) baseURL(provider string) string {
	switch provider {
	case "ollama":
		return c.cfg.OllamaBaseURL
	default:
		return c.cfg.OpenAIBaseURL
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package refine

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func init() {
	RegisterProvider(&ollamaProvider{})
}

// ollamaProvider targets a local or remote Ollama instance.
type ollamaProvider struct{}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
	Messages []ollamaMessage `json:"messages"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

func (p *ollamaProvider) Name() string {
	return "ollama"
}

func (p *ollamaProvider) RequestURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/api/chat"
}

func (p *ollamaProvider) SetHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

func (p *ollamaProvider) RequestBody(model string, temperature float64, system, user string) any {
	return ollamaRequest{
		Model:  model,
		Stream: false,
		Options: map[string]any{
			"temperature": temperature,
		},
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
}

func (p *ollamaProvider) ParseContent(body []byte) (string, error) {
	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse ollama response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrProviderFailure, resp.Error)
	}
	return resp.Message.Content, nil
}

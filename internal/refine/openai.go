package refine

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func init() {
	RegisterProvider(&openaiProvider{})
}

// openaiProvider targets the OpenAI chat completions API and any
// OpenAI-compatible endpoint.
type openaiProvider struct{}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	Messages    []openaiMessage `json:"messages"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) RequestURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/chat/completions"
}

func (p *openaiProvider) SetHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

func (p *openaiProvider) RequestBody(model string, temperature float64, system, user string) any {
	return openaiRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
}

func (p *openaiProvider) ParseContent(body []byte) (string, error) {
	var resp openaiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse openai response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrProviderFailure, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrProviderFailure)
	}
	return resp.Choices[0].Message.Content, nil
}

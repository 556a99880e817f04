package refine_test

import (
	"errors"
	"net/http"
	"slices"
	"testing"

	"github.com/quillworks/quill/internal/refine"
)

func TestLookupProviderRegistered(t *testing.T) {
	for _, name := range []string{"openai", "ollama"} {
		t.Run(name, func(t *testing.T) {
			p, err := refine.LookupProvider(name)
			if err != nil {
				t.Fatalf("LookupProvider(%q): %v", name, err)
			}
			if p.Name() != name {
				t.Errorf("Name() = %q, want %q", p.Name(), name)
			}
		})
	}
}

func TestLookupProviderUnknown(t *testing.T) {
	_, err := refine.LookupProvider("bedrock")
	if !errors.Is(err, refine.ErrUnknownProvider) {
		t.Errorf("error = %v, want ErrUnknownProvider", err)
	}
}

func TestProviderNames(t *testing.T) {
	names := refine.ProviderNames()

	for _, want := range []string{"openai", "ollama"} {
		if !slices.Contains(names, want) {
			t.Errorf("ProviderNames() = %v, missing %q", names, want)
		}
	}
}

func TestOpenAIRequestURL(t *testing.T) {
	p, err := refine.LookupProvider("openai")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"no trailing slash", "https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"trailing slash", "https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.RequestURL(tt.baseURL); got != tt.want {
				t.Errorf("RequestURL(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestOllamaRequestURL(t *testing.T) {
	p, err := refine.LookupProvider("ollama")
	if err != nil {
		t.Fatal(err)
	}

	if got := p.RequestURL("http://localhost:11434"); got != "http://localhost:11434/api/chat" {
		t.Errorf("RequestURL = %q", got)
	}
}

func TestOpenAISetHeaders(t *testing.T) {
	p, err := refine.LookupProvider("openai")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("with api key", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "http://example.com", nil)
		p.SetHeaders(req, "sk-test")

		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
	})

	t.Run("without api key", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "http://example.com", nil)
		p.SetHeaders(req, "")

		if got := req.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
	})
}

func TestOpenAIParseContent(t *testing.T) {
	p, err := refine.LookupProvider("openai")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "valid response",
			body: `{"choices":[{"message":{"role":"assistant","content":"refined"}}]}`,
			want: "refined",
		},
		{
			name:    "api error",
			body:    `{"error":{"message":"invalid model"}}`,
			wantErr: true,
		},
		{
			name:    "empty choices",
			body:    `{"choices":[]}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseContent([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContent: %v", err)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOllamaParseContent(t *testing.T) {
	p, err := refine.LookupProvider("ollama")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "valid response",
			body: `{"message":{"role":"assistant","content":"refined"}}`,
			want: "refined",
		},
		{
			name:    "error field set",
			body:    `{"error":"model not found"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseContent([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContent: %v", err)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

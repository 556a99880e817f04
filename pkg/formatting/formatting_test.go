package formatting_test

import (
	"errors"
	"testing"

	"github.com/quillworks/quill/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 0, "2 KB"},
		{"megabytes with precision", 1572864, 1, "1.5 MB"},
		{"gigabytes", 1073741824, 0, "1 GB"},
		{"negative precision clamped", 2048, -1, "2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"plain number", "1024", 1024, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "2KB", 2048, false},
		{"megabytes", "50MB", 52428800, false},
		{"lowercase unit", "2kb", 2048, false},
		{"space before unit", "2 KB", 2048, false},
		{"fractional", "1.5KB", 1536, false},
		{"surrounding whitespace", "  2KB  ", 2048, false},
		{"empty string", "", 0, true},
		{"unknown unit", "5XB", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBytes(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	sizes := []int64{512, 2048, 52428800, 1073741824}

	for _, size := range sizes {
		formatted := formatting.FormatBytes(size, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q): %v", formatted, err)
		}
		if parsed != size {
			t.Errorf("round trip %d -> %q -> %d", size, formatted, parsed)
		}
	}
}

type payload struct {
	Analysis string `json:"analysis"`
	Refined  string `json:"refined_prompt"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    payload
		wantErr bool
	}{
		{
			name:    "direct JSON",
			content: `{"analysis": "weak objective", "refined_prompt": "better"}`,
			want:    payload{Analysis: "weak objective", Refined: "better"},
		},
		{
			name:    "json code fence",
			content: "Here you go:\n```json\n{\"analysis\": \"ok\", \"refined_prompt\": \"done\"}\n```",
			want:    payload{Analysis: "ok", Refined: "done"},
		},
		{
			name:    "bare code fence",
			content: "```\n{\"analysis\": \"ok\", \"refined_prompt\": \"done\"}\n```",
			want:    payload{Analysis: "ok", Refined: "done"},
		},
		{
			name:    "surrounding whitespace",
			content: "  \n{\"analysis\": \"ok\", \"refined_prompt\": \"x\"}\n  ",
			want:    payload{Analysis: "ok", Refined: "x"},
		},
		{
			name:    "plain prose",
			content: "I cannot produce JSON for this.",
			wantErr: true,
		},
		{
			name:    "fence with invalid JSON",
			content: "```json\nnot json at all\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[payload](tt.content)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Errorf("error = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse = %+v, want %+v", got, tt.want)
			}
		})
	}
}

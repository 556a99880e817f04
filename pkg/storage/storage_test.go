package storage

import (
	"errors"
	"net/http"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid key", "specs/abc/export-prompt.md", nil},
		{"empty key", "", ErrEmptyKey},
		{"traversal segment", "specs/../secrets", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKey(tt.key)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateKey(%q) = %v, want nil", tt.key, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &Config{ConnectionString: "UseDevelopmentStorage=true"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.ContainerName != "exports" {
		t.Errorf("ContainerName = %q, want exports", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("MaxListSize = %d, want 50", cfg.MaxListSize)
	}
}

func TestConfigFinalizeCapsListSize(t *testing.T) {
	cfg := &Config{
		ConnectionString: "UseDevelopmentStorage=true",
		MaxListSize:      5000,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.MaxListSize != MaxListCap {
		t.Errorf("MaxListSize = %d, want cap %d", cfg.MaxListSize, MaxListCap)
	}
}

func TestConfigFinalizeRequiresConnectionString(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for missing connection string")
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONTAINER", "reports")
	t.Setenv("TEST_STORAGE_MAX_LIST", "75")

	cfg := &Config{ConnectionString: "UseDevelopmentStorage=true"}
	env := &Env{
		ContainerName: "TEST_STORAGE_CONTAINER",
		MaxListSize:   "TEST_STORAGE_MAX_LIST",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.ContainerName != "reports" {
		t.Errorf("ContainerName = %q, want reports", cfg.ContainerName)
	}
	if cfg.MaxListSize != 75 {
		t.Errorf("MaxListSize = %d, want 75", cfg.MaxListSize)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"empty key", ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", ErrInvalidKey, http.StatusBadRequest},
		{"unmapped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

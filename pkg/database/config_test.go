package database_test

import (
	"testing"

	"github.com/quillworks/quill/pkg/database"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &database.Config{Name: "quill", User: "quill"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want disable", cfg.SSLMode)
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want 25", cfg.MaxOpenConns)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"missing name", database.Config{User: "quill"}},
		{"missing user", database.Config{Name: "quill"}},
		{"bad lifetime", database.Config{Name: "quill", User: "quill", ConnMaxLifetime: "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")

	cfg := &database.Config{Name: "quill", User: "quill"}
	env := &database.Env{Host: "TEST_DB_HOST", Port: "TEST_DB_PORT"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Host != "db.internal" {
		t.Errorf("Host = %q, want db.internal", cfg.Host)
	}
	if cfg.Port != 5433 {
		t.Errorf("Port = %d, want 5433", cfg.Port)
	}
}

func TestConfigDsn(t *testing.T) {
	cfg := &database.Config{
		Host:     "localhost",
		Port:     5432,
		Name:     "quill",
		User:     "quill",
		Password: "secret",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 dbname=quill user=quill password=secret sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

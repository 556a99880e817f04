package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quillworks/quill/pkg/repository"
)

var (
	errNotFound  = errors.New("record not found")
	errDuplicate = errors.New("record already exists")
)

func TestMapError(t *testing.T) {
	passthrough := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error", &pgconn.PgError{Code: "23503"}, nil},
		{"passthrough", passthrough, passthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)

			switch tt.name {
			case "nil":
				if got != nil {
					t.Errorf("MapError(nil) = %v, want nil", got)
				}
			case "other pg error":
				if !errors.Is(got, tt.err) {
					t.Errorf("MapError = %v, want original error", got)
				}
			default:
				if !errors.Is(got, tt.want) {
					t.Errorf("MapError = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

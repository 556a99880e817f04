package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/quillworks/quill/pkg/query"
	"github.com/quillworks/quill/pkg/repository"
	"github.com/quillworks/quill/prompt"
)

const templateColumns = "id, slug, name, description, state, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	builtins   map[string]Template
	normalizer *prompt.Normalizer
}

// New creates a template repository implementing the System interface. It
// fails if the embedded builtin library cannot be parsed.
func New(db *sql.DB, logger *slog.Logger) (System, error) {
	builtins, err := loadBuiltins()
	if err != nil {
		return nil, fmt.Errorf("load builtin templates: %w", err)
	}

	return &repo{
		db:         db,
		logger:     logger.With("system", "templates"),
		builtins:   builtins,
		normalizer: prompt.NewNormalizer(nil),
	}, nil
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context) ([]Template, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	stored, err := repository.QueryMany(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}

	merged := make(map[string]Template, len(r.builtins)+len(stored))
	for slug, t := range r.builtins {
		merged[slug] = t
	}
	for _, t := range stored {
		merged[t.Slug] = t
	}

	list := make([]Template, 0, len(merged))
	for _, t := range merged {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Slug < list[j].Slug })

	return list, nil
}

func (r *repo) Find(ctx context.Context, slug string) (*Template, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Slug", slug)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err == nil {
		return &t, nil
	}

	mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
	if !errors.Is(mapped, ErrNotFound) {
		return nil, mapped
	}

	if bt, ok := r.builtins[slug]; ok {
		return &bt, nil
	}

	return nil, ErrNotFound
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Template, error) {
	if err := validateSlug(cmd.Slug); err != nil {
		return nil, err
	}

	encoded, err := encodeFragment(cmd.State)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO templates(slug, name, description, state)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, templateColumns)

	args := []any{cmd.Slug, cmd.Name, cmd.Description, encoded}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTemplate)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template created", "id", t.ID, "slug", t.Slug)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Template, error) {
	if err := validateSlug(cmd.Slug); err != nil {
		return nil, err
	}

	encoded, err := encodeFragment(cmd.State)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE templates
		SET slug = $1, name = $2, description = $3, state = $4, updated_at = now()
		WHERE id = $5
		RETURNING %s`, templateColumns)

	args := []any{cmd.Slug, cmd.Name, cmd.Description, encoded, id}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTemplate)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template updated", "id", t.ID, "slug", t.Slug)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM templates WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template deleted", "id", id)
	return nil
}

func (r *repo) Apply(ctx context.Context, slug string) (*ApplyResult, error) {
	t, err := r.Find(ctx, slug)
	if err != nil {
		return nil, err
	}

	return &ApplyResult{
		Slug:  t.Slug,
		State: r.normalizer.Merge(r.normalizer.Default(), t.State),
	}, nil
}

package specs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/quillworks/quill/internal/refine"
	"github.com/quillworks/quill/pkg/pagination"
	"github.com/quillworks/quill/pkg/query"
	"github.com/quillworks/quill/pkg/repository"
	"github.com/quillworks/quill/pkg/storage"
	"github.com/quillworks/quill/prompt"
)

const specColumns = "id, name, description, state, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	store      storage.System
	refiner    refine.System
	normalizer *prompt.Normalizer
}

// New creates a spec repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	store storage.System,
	refiner refine.System,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "specs"),
		pagination: pagination,
		store:      store,
		refiner:    refiner,
		normalizer: prompt.NewNormalizer(nil),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Spec], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count specs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSpec)
	if err != nil {
		return nil, fmt.Errorf("query specs: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Spec, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSpec)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Spec, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrEmptyName
	}

	state := r.normalizer.Default()
	if cmd.State != nil {
		state = r.normalizer.Merge(state, *cmd.State)
	}

	encoded, err := encodeState(state)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO prompt_specs(name, description, state)
		VALUES ($1, $2, $3)
		RETURNING %s`, specColumns)

	args := []any{cmd.Name, cmd.Description, encoded}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Spec, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSpec)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("spec created", "id", s.ID, "name", s.Name)
	return &s, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Spec, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrEmptyName
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Spec, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanSpec)
		if err != nil {
			return Spec{}, err
		}

		state := current.State
		if cmd.State != nil {
			state = r.normalizer.Merge(state, *cmd.State)
		}

		encoded, err := encodeState(state)
		if err != nil {
			return Spec{}, err
		}

		q := fmt.Sprintf(`
			UPDATE prompt_specs
			SET name = $1, description = $2, state = $3, updated_at = now()
			WHERE id = $4
			RETURNING %s`, specColumns)

		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.Description, encoded, id}, scanSpec)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("spec updated", "id", s.ID, "name", s.Name)
	return &s, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM prompt_specs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("spec deleted", "id", id)
	return nil
}

func (r *repo) ApplyCommands(ctx context.Context, id uuid.UUID, cmds []prompt.Command) (*Spec, error) {
	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Spec, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanSpec)
		if err != nil {
			return Spec{}, err
		}

		next := prompt.Apply(current.State, cmds...)

		encoded, err := encodeState(next)
		if err != nil {
			return Spec{}, err
		}

		q := fmt.Sprintf(`
			UPDATE prompt_specs
			SET state = $1, updated_at = now()
			WHERE id = $2
			RETURNING %s`, specColumns)

		return repository.QueryOne(ctx, tx, q, []any{encoded, id}, scanSpec)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("spec commands applied", "id", s.ID, "commands", len(cmds))
	return &s, nil
}

func (r *repo) Compile(ctx context.Context, id uuid.UUID) (*CompileResult, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CompileResult{
		SpecID:   &s.ID,
		Markdown: prompt.Compile(s.State),
	}, nil
}

func (r *repo) Evaluate(ctx context.Context, id uuid.UUID) (*EvaluateResult, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EvaluateResult{
		SpecID: &s.ID,
		Report: prompt.Evaluate(s.State),
	}, nil
}

func (r *repo) Refine(ctx context.Context, id uuid.UUID, req refine.Request) (*refine.Result, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Prompt = prompt.Compile(s.State)
	return r.refiner.Refine(ctx, req)
}

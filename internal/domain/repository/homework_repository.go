package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

// HomeworkFilter narrows List. Empty fields match everything.
type HomeworkFilter struct {
	Class   string
	Subject string
	Status  model.HomeworkStatus
}

type HomeworkRepository interface {
	Insert(ctx context.Context, h *model.Homework) error
	FindByID(ctx context.Context, id string) (*model.Homework, error)
	Update(ctx context.Context, h *model.Homework) error
	Delete(ctx context.Context, id string) error
	// List returns matching homework ordered by due date.
	List(ctx context.Context, filter HomeworkFilter) ([]model.Homework, error)
}

var errHomeworkNotFound = common.NewError(common.ErrNotFound, "Homework not found")

type pgHomeworkRepository struct {
	db DBTX
}

func NewPgHomeworkRepository(db DBTX) HomeworkRepository {
	return &pgHomeworkRepository{db: db}
}

const homeworkColumns = `id, slug, title, description, subject, class, due_date::text,
	priority, assigned_date::text, status, COALESCE(created_by, 0), created_at, updated_at`

func (r *pgHomeworkRepository) Insert(ctx context.Context, h *model.Homework) error {
	query := `INSERT INTO homework (id, slug, title, description, subject, class, due_date,
	              priority, assigned_date, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9::date, $10, NULLIF($11, 0))
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		h.ID, h.Slug, h.Title, h.Description, h.Subject, h.Class, h.DueDate,
		string(h.Priority), h.AssignedDate, string(h.Status), h.CreatedBy,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return oops.Code("HOMEWORK_INSERT_FAILED").With("slug", h.Slug).Wrap(err)
	}
	return nil
}

func (r *pgHomeworkRepository) FindByID(ctx context.Context, id string) (*model.Homework, error) {
	h, err := scanHomework(r.db.QueryRow(ctx, `SELECT `+homeworkColumns+` FROM homework WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errHomeworkNotFound
		}
		return nil, oops.Code("HOMEWORK_QUERY_FAILED").With("id", id).Wrap(err)
	}
	return h, nil
}

func (r *pgHomeworkRepository) Update(ctx context.Context, h *model.Homework) error {
	query := `UPDATE homework SET
	              title = $1, description = $2, subject = $3, class = $4, due_date = $5::date,
	              priority = $6, status = $7, updated_at = CURRENT_TIMESTAMP
	          WHERE id::text = $8
	          RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		h.Title, h.Description, h.Subject, h.Class, h.DueDate,
		string(h.Priority), string(h.Status), h.ID,
	).Scan(&h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errHomeworkNotFound
		}
		return oops.Code("HOMEWORK_UPDATE_FAILED").With("id", h.ID).Wrap(err)
	}
	return nil
}

func (r *pgHomeworkRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM homework WHERE id::text = $1`, id)
	if err != nil {
		return oops.Code("HOMEWORK_DELETE_FAILED").With("id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return errHomeworkNotFound
	}
	return nil
}

func (r *pgHomeworkRepository) List(ctx context.Context, filter HomeworkFilter) ([]model.Homework, error) {
	var (
		where []string
		args  []any
	)
	add := func(column, value string) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Class != "" {
		add("class", filter.Class)
	}
	if filter.Subject != "" {
		add("subject", filter.Subject)
	}
	if filter.Status != "" {
		add("status", string(filter.Status))
	}

	query := `SELECT ` + homeworkColumns + ` FROM homework`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY due_date, title`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("HOMEWORK_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	out := []model.Homework{}
	for rows.Next() {
		h, err := scanHomework(rows)
		if err != nil {
			return nil, oops.Code("HOMEWORK_LIST_FAILED").With("operation", "scan homework row").Wrap(err)
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("HOMEWORK_LIST_FAILED").With("operation", "iterate homework").Wrap(err)
	}
	return out, nil
}

func scanHomework(row pgx.Row) (*model.Homework, error) {
	var (
		h                model.Homework
		priority, status string
	)
	err := row.Scan(&h.ID, &h.Slug, &h.Title, &h.Description, &h.Subject, &h.Class, &h.DueDate,
		&priority, &h.AssignedDate, &status, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.Priority = model.HomeworkPriority(priority)
	h.Status = model.HomeworkStatus(status)
	return &h, nil
}

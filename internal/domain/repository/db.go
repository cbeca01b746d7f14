package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the Postgres repositories use.
// pgxmock pools satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Constraint names from the initial migration, used to tell which unique
// value a failed insert collided on.
const (
	usersUsernameKey           = "users_username_key"
	usersEmailKey              = "users_email_key"
	studentsClassRollNumberKey = "students_class_roll_number_key"
)

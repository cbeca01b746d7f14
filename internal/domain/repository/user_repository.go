package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// Insert assigns user.ID and fails with ErrDuplicateUsername or
	// ErrDuplicateEmail if either value is taken, atomically.
	Insert(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error)
}

type pgUserRepository struct {
	db DBTX
}

func NewPgUserRepository(db DBTX) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func (r *pgUserRepository) Insert(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case usersEmailKey:
				return fmt.Errorf("pgUserRepository.Insert: %w", common.ErrDuplicateEmail)
			default:
				return fmt.Errorf("pgUserRepository.Insert: %w", common.ErrDuplicateUsername)
			}
		}
		return oops.Code("USER_INSERT_FAILED").With("username", user.Username).Wrap(err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.findOne(ctx, "username", query, username)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, "email", query, email)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, "id", query, id)
}

func (r *pgUserRepository) UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error) {
	query := `UPDATE users SET role = $1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2
	          RETURNING ` + userColumns
	return r.findOne(ctx, "id", query, string(role), id)
}

func (r *pgUserRepository) findOne(ctx context.Context, by, query string, args ...any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, oops.Code("USER_QUERY_FAILED").With("by", by).Wrap(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user model.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return &user, nil
}

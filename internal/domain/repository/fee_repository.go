package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

// FeeRepository stores fee accounts. Pending amount and status are derived
// by the caller; the store only tracks totals and payments.
type FeeRepository interface {
	Insert(ctx context.Context, f *model.FeeAccount) error
	FindByID(ctx context.Context, id string) (*model.FeeAccount, error)
	// List returns accounts ordered by student name, restricted to class when non-empty.
	List(ctx context.Context, class string) ([]model.FeeAccount, error)
	// AddPayment adds amount to the paid total unless that would exceed the
	// account total. The check and the update happen as one step.
	AddPayment(ctx context.Context, id string, amount int64, paidOn string) (*model.FeeAccount, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

var (
	errFeeNotFound     = common.NewError(common.ErrNotFound, "Fee account not found")
	errPaymentTooLarge = common.NewError(common.ErrValidation, "Payment exceeds pending amount")
)

type pgFeeRepository struct {
	db DBTX
}

func NewPgFeeRepository(db DBTX) FeeRepository {
	return &pgFeeRepository{db: db}
}

const feeColumns = `id, student_id, student_name, roll_number, class, section,
	total_fees, paid_fees, COALESCE(last_payment_date::text, ''), due_date::text,
	created_at, updated_at`

func (r *pgFeeRepository) Insert(ctx context.Context, f *model.FeeAccount) error {
	query := `INSERT INTO fee_accounts (id, student_id, student_name, roll_number, class, section,
	              total_fees, paid_fees, due_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		f.ID, f.StudentID, f.StudentName, f.RollNumber, f.Class, f.Section,
		f.TotalFees, f.PaidFees, f.DueDate,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return oops.Code("FEE_INSERT_FAILED").With("student_id", f.StudentID).Wrap(err)
	}
	return nil
}

func (r *pgFeeRepository) FindByID(ctx context.Context, id string) (*model.FeeAccount, error) {
	f, err := scanFee(r.db.QueryRow(ctx, `SELECT `+feeColumns+` FROM fee_accounts WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errFeeNotFound
		}
		return nil, oops.Code("FEE_QUERY_FAILED").With("id", id).Wrap(err)
	}
	return f, nil
}

func (r *pgFeeRepository) List(ctx context.Context, class string) ([]model.FeeAccount, error) {
	query := `SELECT ` + feeColumns + ` FROM fee_accounts`
	var args []any
	if class != "" {
		query += ` WHERE class = $1`
		args = append(args, class)
	}
	query += ` ORDER BY student_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("FEE_LIST_FAILED").With("class", class).Wrap(err)
	}
	defer rows.Close()

	fees := []model.FeeAccount{}
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, oops.Code("FEE_LIST_FAILED").With("operation", "scan fee row").Wrap(err)
		}
		fees = append(fees, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FEE_LIST_FAILED").With("operation", "iterate fees").Wrap(err)
	}
	return fees, nil
}

func (r *pgFeeRepository) AddPayment(ctx context.Context, id string, amount int64, paidOn string) (*model.FeeAccount, error) {
	query := `UPDATE fee_accounts
	          SET paid_fees = paid_fees + $1, last_payment_date = $2::date, updated_at = CURRENT_TIMESTAMP
	          WHERE id::text = $3 AND paid_fees + $1 <= total_fees
	          RETURNING ` + feeColumns
	f, err := scanFee(r.db.QueryRow(ctx, query, amount, paidOn, id))
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("FEE_PAYMENT_FAILED").With("id", id).With("amount", amount).Wrap(err)
	}

	// Nothing updated: either the account is missing or the payment is too large.
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, errPaymentTooLarge
}

func (r *pgFeeRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM fee_accounts WHERE student_id::text = $1`, studentID); err != nil {
		return oops.Code("FEE_DELETE_FAILED").With("student_id", studentID).Wrap(err)
	}
	return nil
}

func scanFee(row pgx.Row) (*model.FeeAccount, error) {
	var f model.FeeAccount
	err := row.Scan(&f.ID, &f.StudentID, &f.StudentName, &f.RollNumber, &f.Class, &f.Section,
		&f.TotalFees, &f.PaidFees, &f.LastPaymentDate, &f.DueDate, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

type StudentRepository interface {
	Insert(ctx context.Context, s *model.Student) error
	FindByID(ctx context.Context, id string) (*model.Student, error)
	// Search matches q case-insensitively against name, roll number and
	// class, or exactly against id. An empty q returns everyone.
	Search(ctx context.Context, q string) ([]model.Student, error)
	Delete(ctx context.Context, id string) error
	// MaxRollSequence returns the highest n among roll numbers of the form
	// prefix-n in class, or 0 if there are none.
	MaxRollSequence(ctx context.Context, class, prefix string) (int, error)
	Counts(ctx context.Context) (total, active int, err error)
}

var errStudentNotFound = common.NewError(common.ErrNotFound, "Student not found")

type pgStudentRepository struct {
	db DBTX
}

func NewPgStudentRepository(db DBTX) StudentRepository {
	return &pgStudentRepository{db: db}
}

const studentColumns = `id, full_name, class, section, roll_number,
	COALESCE(date_of_birth::text, ''), gender, father_name, mother_name, parent_phone,
	parent_email, address, emergency_contact, admission_date::text, batch_no, note,
	status, COALESCE(created_by, 0), created_at, updated_at`

func (r *pgStudentRepository) Insert(ctx context.Context, s *model.Student) error {
	query := `INSERT INTO students (id, full_name, class, section, roll_number, date_of_birth,
	              gender, father_name, mother_name, parent_phone, parent_email, address,
	              emergency_contact, admission_date, batch_no, note, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, $7, $8, $9, $10, $11, $12,
	              $13, $14::date, $15, $16, $17, NULLIF($18, 0))
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		s.ID, s.FullName, s.Class, s.Section, s.RollNumber, s.DateOfBirth,
		s.Gender, s.FatherName, s.MotherName, s.ParentPhone, s.ParentEmail, s.Address,
		s.EmergencyContact, s.AdmissionDate, s.BatchNo, s.Note, string(s.Status), s.CreatedBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == studentsClassRollNumberKey {
			return fmt.Errorf("pgStudentRepository.Insert: %w", common.ErrDuplicateRollNumber)
		}
		return oops.Code("STUDENT_INSERT_FAILED").With("class", s.Class).Wrap(err)
	}
	return nil
}

func (r *pgStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id::text = $1`
	s, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errStudentNotFound
		}
		return nil, oops.Code("STUDENT_QUERY_FAILED").With("id", id).Wrap(err)
	}
	return s, nil
}

func (r *pgStudentRepository) Search(ctx context.Context, q string) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		query += ` WHERE full_name ILIKE $1 OR roll_number ILIKE $1 OR class ILIKE $1 OR id::text = $2`
		args = append(args, "%"+q+"%", q)
	}
	query += ` ORDER BY full_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("STUDENT_SEARCH_FAILED").With("q", q).Wrap(err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, oops.Code("STUDENT_SEARCH_FAILED").With("operation", "scan student row").Wrap(err)
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STUDENT_SEARCH_FAILED").With("operation", "iterate students").Wrap(err)
	}
	return students, nil
}

func (r *pgStudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id::text = $1`, id)
	if err != nil {
		return oops.Code("STUDENT_DELETE_FAILED").With("id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return errStudentNotFound
	}
	return nil
}

func (r *pgStudentRepository) MaxRollSequence(ctx context.Context, class, prefix string) (int, error) {
	query := `SELECT COALESCE(MAX(substring(roll_number, $2)::bigint), 0)
	          FROM students WHERE class = $1 AND roll_number ~ $2`
	var n int
	if err := r.db.QueryRow(ctx, query, class, rollPattern(prefix)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgStudentRepository.MaxRollSequence: %w", err)
	}
	return n, nil
}

// rollPattern matches prefix-n and captures n.
func rollPattern(prefix string) string {
	return `^` + regexp.QuoteMeta(prefix) + `-([0-9]+)$`
}

func (r *pgStudentRepository) Counts(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'Active') FROM students`,
	).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("pgStudentRepository.Counts: %w", err)
	}
	return total, active, nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var (
		s      model.Student
		status string
	)
	err := row.Scan(&s.ID, &s.FullName, &s.Class, &s.Section, &s.RollNumber,
		&s.DateOfBirth, &s.Gender, &s.FatherName, &s.MotherName, &s.ParentPhone,
		&s.ParentEmail, &s.Address, &s.EmergencyContact, &s.AdmissionDate, &s.BatchNo, &s.Note,
		&status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = model.StudentStatus(status)
	return &s, nil
}

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

var feeRowColumns = []string{"id", "student_id", "student_name", "roll_number", "class", "section",
	"total_fees", "paid_fees", "last_payment_date", "due_date", "created_at", "updated_at"}

func TestPgFeeRepository_AddPayment(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantPaid  int64
		wantErr   error
	}{
		{
			name: "applies payment",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE fee_accounts`).
					WithArgs(int64(300), "2025-03-01", "f1").
					WillReturnRows(pgxmock.NewRows(feeRowColumns).
						AddRow("f1", "s1", "Rahul Kumar", "10-1", "10th", "A", int64(1000), int64(800), "2025-03-01", "2025-04-01", now, now))
			},
			wantPaid: 800,
		},
		{
			name: "payment larger than pending",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE fee_accounts`).
					WithArgs(int64(300), "2025-03-01", "f1").
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(`SELECT (.+) FROM fee_accounts WHERE id`).
					WithArgs("f1").
					WillReturnRows(pgxmock.NewRows(feeRowColumns).
						AddRow("f1", "s1", "Rahul Kumar", "10-1", "10th", "A", int64(1000), int64(900), "", "2025-04-01", now, now))
			},
			wantErr: common.ErrValidation,
		},
		{
			name: "unknown account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE fee_accounts`).
					WithArgs(int64(300), "2025-03-01", "f1").
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(`SELECT (.+) FROM fee_accounts WHERE id`).
					WithArgs("f1").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			f, err := NewPgFeeRepository(mock).AddPayment(context.Background(), "f1", 300, "2025-03-01")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPaid, f.PaidFees)
				assert.Equal(t, "2025-03-01", f.LastPaymentDate)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgStudentRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM students`).WithArgs("s1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM students`).WithArgs("s2").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM students`).WithArgs("s3").WillReturnError(errors.New("connection reset"))

	repo := NewPgStudentRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "s2"), common.ErrNotFound)
	assert.Error(t, repo.Delete(context.Background(), "s3"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStudentRepository_InsertDuplicateRollNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	insertArgs := make([]any, 18)
	for i := range insertArgs {
		insertArgs[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery(`INSERT INTO students`).WithArgs(insertArgs...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: studentsClassRollNumberKey})
	mock.ExpectQuery(`INSERT INTO students`).WithArgs(insertArgs...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "students_pkey"})

	repo := NewPgStudentRepository(mock)
	s := &model.Student{ID: "s1", Class: "10th", RollNumber: "10th-1", AdmissionDate: "2024-04-01"}
	assert.ErrorIs(t, repo.Insert(context.Background(), s), common.ErrDuplicateRollNumber)

	err = repo.Insert(context.Background(), s)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDuplicateRollNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStudentRepository_MaxRollSequence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(substring\(roll_number, \$2\)::bigint\), 0\)`).
		WithArgs("Class 9", `^class-9-([0-9]+)$`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(4))

	n, err := NewPgStudentRepository(mock).MaxRollSequence(context.Background(), "Class 9", "class-9")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStudentRepository_RollNumbers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStudentRepository()
	for _, s := range []model.Student{
		{ID: "a", Class: "10th", RollNumber: "10th-1"},
		{ID: "b", Class: "10th", RollNumber: "10th-9"},
		{ID: "c", Class: "10th", RollNumber: "10th-x3"},
		{ID: "d", Class: "10th", RollNumber: "R-77"},
		{ID: "e", Class: "9th", RollNumber: "10th-40"},
	} {
		s := s
		require.NoError(t, repo.Insert(ctx, &s))
	}

	n, err := repo.MaxRollSequence(ctx, "10th", "10th")
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	n, err = repo.MaxRollSequence(ctx, "8th", "8th")
	require.NoError(t, err)
	assert.Zero(t, n)

	err = repo.Insert(ctx, &model.Student{ID: "f", Class: "10th", RollNumber: "10th-9"})
	assert.ErrorIs(t, err, common.ErrDuplicateRollNumber)
	require.NoError(t, repo.Insert(ctx, &model.Student{ID: "g", Class: "11th", RollNumber: "10th-9"}))

	require.NoError(t, repo.Delete(ctx, "a"))
	n, err = repo.MaxRollSequence(ctx, "10th", "10th")
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestPgStudentRepository_SearchBuildsPattern(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM students WHERE full_name ILIKE \$1`).
		WithArgs("%rahul%", "rahul").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	students, err := NewPgStudentRepository(mock).Search(context.Background(), " rahul ")
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgHomeworkRepository_ListFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM homework WHERE class = \$1 AND status = \$2 ORDER BY due_date`).
		WithArgs("10th", "Active").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err = NewPgHomeworkRepository(mock).List(context.Background(),
		HomeworkFilter{Class: "10th", Status: model.HomeworkActive})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStudentRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStudentRepository()
	for _, s := range []model.Student{
		{ID: "a", FullName: "Zara Ali", Class: "9th", RollNumber: "9th-1", Status: model.StudentActive},
		{ID: "b", FullName: "Rahul Kumar", Class: "10th", RollNumber: "10th-1", Status: model.StudentActive},
		{ID: "c", FullName: "Priya Singh", Class: "10th", RollNumber: "10th-2", Status: model.StudentInactive},
	} {
		s := s
		require.NoError(t, repo.Insert(ctx, &s))
	}

	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Priya Singh", all[0].FullName)

	byName, err := repo.Search(ctx, "rahul")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "b", byName[0].ID)

	byClass, err := repo.Search(ctx, "10TH")
	require.NoError(t, err)
	assert.Len(t, byClass, 2)

	byID, err := repo.Search(ctx, "c")
	require.NoError(t, err)
	require.NotEmpty(t, byID)
	assert.Equal(t, "c", byID[0].ID)

	n, err := repo.MaxRollSequence(ctx, "10th", "10th")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, active, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, active)
}

func TestMemoryFeeRepository_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFeeRepository()
	require.NoError(t, repo.Insert(ctx, &model.FeeAccount{ID: "f1", StudentID: "s1", TotalFees: 1000, DueDate: "2099-01-01"}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AddPayment(ctx, "f1", 100, "2025-03-01")
		}()
	}
	wg.Wait()

	f, err := repo.FindByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), f.PaidFees)

	_, err = repo.AddPayment(ctx, "f1", 1, "2025-03-01")
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, repo.DeleteByStudent(ctx, "s1"))
	_, err = repo.FindByID(ctx, "f1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryHomeworkRepository_ListOrdersByDueDate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHomeworkRepository()
	for _, h := range []model.Homework{
		{ID: "1", Title: "Essay", Subject: "English", Class: "9th", DueDate: "2025-02-01", Status: model.HomeworkActive},
		{ID: "2", Title: "Algebra", Subject: "Mathematics", Class: "10th", DueDate: "2025-01-20", Status: model.HomeworkActive},
		{ID: "3", Title: "Lab", Subject: "Science", Class: "10th", DueDate: "2025-01-25", Status: model.HomeworkCompleted},
	} {
		h := h
		require.NoError(t, repo.Insert(ctx, &h))
	}

	all, err := repo.List(ctx, HomeworkFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	active10, err := repo.List(ctx, HomeworkFilter{Class: "10th", Status: model.HomeworkActive})
	require.NoError(t, err)
	require.Len(t, active10, 1)
	assert.Equal(t, "2", active10[0].ID)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), common.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &model.Homework{ID: "missing"}), common.ErrNotFound)
}

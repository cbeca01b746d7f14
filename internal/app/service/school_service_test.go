package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

type schoolFixture struct {
	students  *StudentService
	fees      *FeeService
	homework  *HomeworkService
	dashboard *DashboardService
}

func newSchoolFixture(now time.Time) schoolFixture {
	studentRepo := repository.NewMemoryStudentRepository()
	feeRepo := repository.NewMemoryFeeRepository()
	homeworkRepo := repository.NewMemoryHomeworkRepository()

	f := schoolFixture{
		students:  NewStudentService(studentRepo, feeRepo),
		fees:      NewFeeService(feeRepo, studentRepo),
		homework:  NewHomeworkService(homeworkRepo),
		dashboard: NewDashboardService(studentRepo, feeRepo, homeworkRepo),
	}
	clock := func() time.Time { return now }
	f.fees.now = clock
	f.homework.now = clock
	f.dashboard.now = clock
	return f
}

func validStudent(name, class string) CreateStudentRequest {
	return CreateStudentRequest{
		FullName: name, Class: class, Gender: "Female", FatherName: "Father",
		ParentPhone: "9876543210", AdmissionDate: "2024-04-01",
	}
}

func TestStudentService_CreateGeneratesRollNumbers(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	first, err := f.students.Create(ctx, 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)
	assert.Equal(t, "10th-1", first.RollNumber)
	assert.Equal(t, model.DefaultBatchNo, first.BatchNo)
	assert.Equal(t, model.StudentActive, first.Status)
	assert.Equal(t, int64(1), first.CreatedBy)

	second, err := f.students.Create(ctx, 1, validStudent("Rahul Kumar", "10th"))
	require.NoError(t, err)
	assert.Equal(t, "10th-2", second.RollNumber)

	req := validStudent("Zara Ali", "Class 9")
	req.RollNumber = "R-77"
	third, err := f.students.Create(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "R-77", third.RollNumber)

	req = validStudent("Amit Shah", "Class 9")
	fourth, err := f.students.Create(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "class-9-1", fourth.RollNumber)
}

func TestStudentService_RollNumbersNotReusedAfterDelete(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	a, err := f.students.Create(ctx, 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)
	b, err := f.students.Create(ctx, 1, validStudent("Rahul Kumar", "10th"))
	require.NoError(t, err)
	require.NoError(t, f.students.Delete(ctx, a.ID))

	c, err := f.students.Create(ctx, 1, validStudent("Zara Ali", "10th"))
	require.NoError(t, err)
	assert.Equal(t, "10th-2", b.RollNumber)
	assert.Equal(t, "10th-3", c.RollNumber)
}

func TestStudentService_DuplicateRollNumberIsConflict(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	_, err := f.students.Create(ctx, 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)

	req := validStudent("Rahul Kumar", "10th")
	req.RollNumber = "10th-1"
	_, err = f.students.Create(ctx, 1, req)
	require.ErrorIs(t, err, common.ErrDuplicateRollNumber)
	assert.Equal(t, http.StatusConflict, common.HTTPStatusFromError(err))
	assert.Equal(t, "Roll number already exists in this class", common.MessageFromError(err))

	req.Class = "9th"
	_, err = f.students.Create(ctx, 1, req)
	assert.NoError(t, err)
}

// claimingStudentRepo inserts a rival student right after the first sequence
// read, so the caller's generated roll number is already taken.
type claimingStudentRepo struct {
	repository.StudentRepository
	claimed bool
}

func (r *claimingStudentRepo) MaxRollSequence(ctx context.Context, class, prefix string) (int, error) {
	n, err := r.StudentRepository.MaxRollSequence(ctx, class, prefix)
	if err != nil || r.claimed {
		return n, err
	}
	r.claimed = true
	rival := &model.Student{ID: "rival", Class: class, RollNumber: fmt.Sprintf("%s-%d", prefix, n+1)}
	return n, r.StudentRepository.Insert(ctx, rival)
}

func TestStudentService_CreateRetriesClaimedRollNumber(t *testing.T) {
	repo := &claimingStudentRepo{StudentRepository: repository.NewMemoryStudentRepository()}
	svc := NewStudentService(repo, repository.NewMemoryFeeRepository())

	s, err := svc.Create(context.Background(), 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)
	assert.True(t, repo.claimed)
	assert.Equal(t, "10th-2", s.RollNumber)
}

func TestStudentService_ConcurrentCreatesGetDistinctRollNumbers(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	const n = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		rolls = map[string]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := f.students.Create(ctx, 1, validStudent(fmt.Sprintf("Student %d", i), "10th"))
			if err != nil {
				assert.ErrorIs(t, err, common.ErrDuplicateRollNumber)
				return
			}
			mu.Lock()
			rolls[s.RollNumber]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, rolls)
	for roll, count := range rolls {
		assert.Equal(t, 1, count, roll)
	}

	stored, err := f.students.Search(ctx, "10th")
	require.NoError(t, err)
	assert.Len(t, stored, len(rolls))
}

func TestStudentService_CreateValidation(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	_, err := f.students.Create(ctx, 1, CreateStudentRequest{FullName: "X"})
	require.ErrorIs(t, err, common.ErrMissingField)
	msg := common.MessageFromError(err)
	assert.True(t, strings.HasPrefix(msg, "Missing required fields: class"), msg)

	req := validStudent("X", "10th")
	req.AdmissionDate = "01/04/2024"
	_, err = f.students.Create(ctx, 1, req)
	assert.ErrorIs(t, err, common.ErrValidation)

	req = validStudent("X", "10th")
	req.DateOfBirth = "2010-13-40"
	_, err = f.students.Create(ctx, 1, req)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestStudentService_DeleteRemovesFees(t *testing.T) {
	f := newSchoolFixture(time.Now())
	ctx := context.Background()

	s, err := f.students.Create(ctx, 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)
	acct, err := f.fees.Create(ctx, CreateFeeRequest{StudentID: s.ID, TotalFees: 1000, DueDate: "2099-01-01"})
	require.NoError(t, err)

	require.NoError(t, f.students.Delete(ctx, s.ID))

	_, err = f.students.Get(ctx, s.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.fees.RecordPayment(ctx, acct.ID, PaymentRequest{Amount: 10})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, f.students.Delete(ctx, s.ID), common.ErrNotFound)
}

func TestFeeService_LifecycleAndFilters(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f := newSchoolFixture(now)
	ctx := context.Background()

	s10, err := f.students.Create(ctx, 1, validStudent("Priya Singh", "10th"))
	require.NoError(t, err)
	s9, err := f.students.Create(ctx, 1, validStudent("Zara Ali", "9th"))
	require.NoError(t, err)

	_, err = f.fees.Create(ctx, CreateFeeRequest{StudentID: "missing", TotalFees: 10, DueDate: "2025-04-01"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.fees.Create(ctx, CreateFeeRequest{StudentID: s10.ID, TotalFees: 0, DueDate: "2025-04-01"})
	assert.ErrorIs(t, err, common.ErrValidation)

	a10, err := f.fees.Create(ctx, CreateFeeRequest{StudentID: s10.ID, TotalFees: 1000, DueDate: "2025-04-01"})
	require.NoError(t, err)
	assert.Equal(t, model.FeePending, a10.Status)
	assert.Equal(t, "Priya Singh", a10.StudentName)
	assert.Equal(t, int64(1000), a10.PendingFees)

	a9, err := f.fees.Create(ctx, CreateFeeRequest{StudentID: s9.ID, TotalFees: 500, PaidFees: 100, DueDate: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, model.FeeOverdue, a9.Status)

	paid, err := f.fees.RecordPayment(ctx, a10.ID, PaymentRequest{Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, model.FeePartial, paid.Status)
	assert.Equal(t, int64(600), paid.PendingFees)
	assert.Equal(t, "2025-03-10", paid.LastPaymentDate)

	_, err = f.fees.RecordPayment(ctx, a10.ID, PaymentRequest{Amount: 601})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.fees.RecordPayment(ctx, a10.ID, PaymentRequest{Amount: -5})
	assert.ErrorIs(t, err, common.ErrValidation)

	paid, err = f.fees.RecordPayment(ctx, a10.ID, PaymentRequest{Amount: 600, PaidOn: "2025-03-09"})
	require.NoError(t, err)
	assert.Equal(t, model.FeePaid, paid.Status)

	all, err := f.fees.List(ctx, "all", "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	overdue, err := f.fees.List(ctx, "Overdue", "")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, a9.ID, overdue[0].ID)

	tenth, err := f.fees.List(ctx, "", "10th")
	require.NoError(t, err)
	require.Len(t, tenth, 1)
	assert.Equal(t, model.FeePaid, tenth[0].Status)

	_, err = f.fees.List(ctx, "Late", "")
	assert.ErrorIs(t, err, common.ErrValidation)

	sum, err := f.dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalStudents)
	assert.Equal(t, 2, sum.ActiveStudents)
	assert.Equal(t, int64(1500), sum.TotalFees)
	assert.Equal(t, int64(1100), sum.CollectedFees)
	assert.Equal(t, int64(400), sum.PendingFees)
	assert.Equal(t, 1, sum.OverdueAccounts)
}

func TestHomeworkService_CRUD(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	f := newSchoolFixture(now)
	ctx := context.Background()

	_, err := f.homework.Create(ctx, 2, CreateHomeworkRequest{Title: "Algebra"})
	assert.ErrorIs(t, err, common.ErrMissingField)

	_, err = f.homework.Create(ctx, 2, CreateHomeworkRequest{Title: "Algebra", Subject: "Mathematics", Class: "10th", DueDate: "2025-01-20", Priority: "Urgent"})
	assert.ErrorIs(t, err, common.ErrValidation)

	hw, err := f.homework.Create(ctx, 2, CreateHomeworkRequest{
		Title: "Algebra Problems", Subject: "Mathematics", Class: "10th", DueDate: "2025-01-20",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, hw.Priority)
	assert.Equal(t, model.HomeworkActive, hw.Status)
	assert.Equal(t, "2025-01-15", hw.AssignedDate)
	assert.True(t, strings.HasPrefix(hw.Slug, "algebra-problems-"), hw.Slug)
	assert.Len(t, hw.Slug, len("algebra-problems-")+8)

	_, err = f.homework.Create(ctx, 2, CreateHomeworkRequest{
		Title: "Essay", Subject: "English", Class: "9th", DueDate: "2025-01-18", Priority: "High",
	})
	require.NoError(t, err)

	done := "Completed"
	updated, err := f.homework.Update(ctx, hw.ID, UpdateHomeworkRequest{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, model.HomeworkCompleted, updated.Status)
	assert.Equal(t, "Algebra Problems", updated.Title)
	assert.Equal(t, hw.Slug, updated.Slug)

	bad := "2025/01/01"
	_, err = f.homework.Update(ctx, hw.ID, UpdateHomeworkRequest{DueDate: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	active, err := f.homework.List(ctx, "all", "all", "Active")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Essay", active[0].Title)

	all, err := f.homework.List(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Essay", all[0].Title)

	sum, err := f.dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.ActiveHomework)

	require.NoError(t, f.homework.Delete(ctx, hw.ID))
	_, err = f.homework.Get(ctx, hw.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

package service

import (
	"context"
	"time"

	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

type DashboardService struct {
	studentRepo  repository.StudentRepository
	feeRepo      repository.FeeRepository
	homeworkRepo repository.HomeworkRepository
	now          func() time.Time
}

func NewDashboardService(studentRepo repository.StudentRepository, feeRepo repository.FeeRepository, homeworkRepo repository.HomeworkRepository) *DashboardService {
	return &DashboardService{studentRepo: studentRepo, feeRepo: feeRepo, homeworkRepo: homeworkRepo, now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	var sum model.DashboardSummary

	total, active, err := s.studentRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	sum.TotalStudents, sum.ActiveStudents = total, active

	accounts, err := s.feeRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, a := range accounts {
		a.Refresh(now)
		sum.TotalFees += a.TotalFees
		sum.CollectedFees += a.PaidFees
		sum.PendingFees += a.PendingFees
		if a.Status == model.FeeOverdue {
			sum.OverdueAccounts++
		}
	}

	hw, err := s.homeworkRepo.List(ctx, repository.HomeworkFilter{Status: model.HomeworkActive})
	if err != nil {
		return nil, err
	}
	sum.ActiveHomework = len(hw)

	return &sum, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

type FeeService struct {
	feeRepo     repository.FeeRepository
	studentRepo repository.StudentRepository
	now         func() time.Time
}

func NewFeeService(feeRepo repository.FeeRepository, studentRepo repository.StudentRepository) *FeeService {
	return &FeeService{feeRepo: feeRepo, studentRepo: studentRepo, now: time.Now}
}

type CreateFeeRequest struct {
	StudentID string `json:"studentId"`
	TotalFees int64  `json:"totalFees"`
	PaidFees  int64  `json:"paidFees"`
	DueDate   string `json:"dueDate"`
}

type PaymentRequest struct {
	Amount int64  `json:"amount"`
	PaidOn string `json:"paidOn"`
}

func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*model.FeeAccount, error) {
	if req.StudentID == "" || req.DueDate == "" {
		return nil, common.NewError(common.ErrMissingField, "studentId and dueDate are required")
	}
	if req.TotalFees <= 0 {
		return nil, common.NewError(common.ErrValidation, "totalFees must be positive")
	}
	if req.PaidFees < 0 || req.PaidFees > req.TotalFees {
		return nil, common.NewError(common.ErrValidation, "paidFees must be between 0 and totalFees")
	}
	if err := validateDate("dueDate", req.DueDate); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	account := &model.FeeAccount{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		StudentName: student.FullName,
		RollNumber:  student.RollNumber,
		Class:       student.Class,
		Section:     student.Section,
		TotalFees:   req.TotalFees,
		PaidFees:    req.PaidFees,
		DueDate:     req.DueDate,
	}
	if err := s.feeRepo.Insert(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create fee account: %w", err)
	}
	account.Refresh(s.now())
	return account, nil
}

func (s *FeeService) RecordPayment(ctx context.Context, id string, req PaymentRequest) (*model.FeeAccount, error) {
	if req.Amount <= 0 {
		return nil, common.NewError(common.ErrValidation, "amount must be positive")
	}
	paidOn := req.PaidOn
	if paidOn == "" {
		paidOn = s.now().Format(model.DateLayout)
	} else if err := validateDate("paidOn", paidOn); err != nil {
		return nil, err
	}

	account, err := s.feeRepo.AddPayment(ctx, id, req.Amount, paidOn)
	if err != nil {
		return nil, err
	}
	account.Refresh(s.now())
	return account, nil
}

// List filters by derived status and class. "all" or "" disables a filter.
func (s *FeeService) List(ctx context.Context, status, class string) ([]model.FeeAccount, error) {
	var want model.FeeStatus
	if status != "" && status != "all" {
		st, ok := model.ParseFeeStatus(status)
		if !ok {
			return nil, common.NewError(common.ErrValidation, "Invalid fee status")
		}
		want = st
	}
	if class == "all" {
		class = ""
	}

	accounts, err := s.feeRepo.List(ctx, class)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := accounts[:0]
	for _, a := range accounts {
		a.Refresh(now)
		if want == "" || a.Status == want {
			out = append(out, a)
		}
	}
	return out, nil
}

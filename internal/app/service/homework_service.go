package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

type HomeworkService struct {
	homeworkRepo repository.HomeworkRepository
	now          func() time.Time
}

func NewHomeworkService(homeworkRepo repository.HomeworkRepository) *HomeworkService {
	return &HomeworkService{homeworkRepo: homeworkRepo, now: time.Now}
}

type CreateHomeworkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Class       string `json:"class"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

type UpdateHomeworkRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Class       *string `json:"class,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (s *HomeworkService) Create(ctx context.Context, createdBy int64, req CreateHomeworkRequest) (*model.Homework, error) {
	if strings.TrimSpace(req.Title) == "" || req.Subject == "" || req.Class == "" || req.DueDate == "" {
		return nil, common.NewError(common.ErrMissingField, "title, subject, class and dueDate are required")
	}
	if err := validateDate("dueDate", req.DueDate); err != nil {
		return nil, err
	}
	priority := model.PriorityMedium
	if req.Priority != "" {
		p, ok := model.ParsePriority(req.Priority)
		if !ok {
			return nil, common.NewError(common.ErrValidation, "Invalid priority")
		}
		priority = p
	}

	id := uuid.NewString()
	hw := &model.Homework{
		ID:           id,
		Slug:         slug.Make(req.Title) + "-" + id[:8],
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Subject:      req.Subject,
		Class:        req.Class,
		DueDate:      req.DueDate,
		Priority:     priority,
		AssignedDate: s.now().Format(model.DateLayout),
		Status:       model.HomeworkActive,
		CreatedBy:    createdBy,
	}
	if err := s.homeworkRepo.Insert(ctx, hw); err != nil {
		return nil, fmt.Errorf("failed to create homework: %w", err)
	}
	return hw, nil
}

func (s *HomeworkService) Get(ctx context.Context, id string) (*model.Homework, error) {
	return s.homeworkRepo.FindByID(ctx, id)
}

// Update applies the fields present in req. The slug stays fixed.
func (s *HomeworkService) Update(ctx context.Context, id string, req UpdateHomeworkRequest) (*model.Homework, error) {
	hw, err := s.homeworkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, common.NewError(common.ErrValidation, "title cannot be empty")
		}
		hw.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		hw.Description = *req.Description
	}
	if req.Subject != nil {
		hw.Subject = *req.Subject
	}
	if req.Class != nil {
		hw.Class = *req.Class
	}
	if req.DueDate != nil {
		if err := validateDate("dueDate", *req.DueDate); err != nil {
			return nil, err
		}
		hw.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		p, ok := model.ParsePriority(*req.Priority)
		if !ok {
			return nil, common.NewError(common.ErrValidation, "Invalid priority")
		}
		hw.Priority = p
	}
	if req.Status != nil {
		st, ok := model.ParseHomeworkStatus(*req.Status)
		if !ok {
			return nil, common.NewError(common.ErrValidation, "Invalid homework status")
		}
		hw.Status = st
	}

	if err := s.homeworkRepo.Update(ctx, hw); err != nil {
		return nil, err
	}
	return hw, nil
}

func (s *HomeworkService) Delete(ctx context.Context, id string) error {
	return s.homeworkRepo.Delete(ctx, id)
}

// List treats "all" and "" alike for each filter.
func (s *HomeworkService) List(ctx context.Context, class, subject, status string) ([]model.Homework, error) {
	filter := repository.HomeworkFilter{Class: allToEmpty(class), Subject: allToEmpty(subject)}
	if st := allToEmpty(status); st != "" {
		parsed, ok := model.ParseHomeworkStatus(st)
		if !ok {
			return nil, common.NewError(common.ErrValidation, "Invalid homework status")
		}
		filter.Status = parsed
	}
	return s.homeworkRepo.List(ctx, filter)
}

func allToEmpty(v string) string {
	if v == "all" {
		return ""
	}
	return v
}

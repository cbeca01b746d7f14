package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

// maxRollAttempts bounds how often Create regenerates a roll number that
// another intake in the same class claimed first.
const maxRollAttempts = 5

type StudentService struct {
	studentRepo repository.StudentRepository
	feeRepo     repository.FeeRepository
}

func NewStudentService(studentRepo repository.StudentRepository, feeRepo repository.FeeRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo, feeRepo: feeRepo}
}

type CreateStudentRequest struct {
	FullName         string `json:"fullName"`
	Class            string `json:"class"`
	Section          string `json:"section"`
	RollNumber       string `json:"rollNumber"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	FatherName       string `json:"fatherName"`
	MotherName       string `json:"motherName"`
	ParentPhone      string `json:"parentPhone"`
	ParentEmail      string `json:"parentEmail"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	AdmissionDate    string `json:"admissionDate"`
	BatchNo          string `json:"batchNo"`
	Note             string `json:"note"`
}

func (req *CreateStudentRequest) missing() []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{"fullName", req.FullName},
		{"class", req.Class},
		{"gender", req.Gender},
		{"fatherName", req.FatherName},
		{"parentPhone", req.ParentPhone},
		{"admissionDate", req.AdmissionDate},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

func (s *StudentService) Create(ctx context.Context, createdBy int64, req CreateStudentRequest) (*model.Student, error) {
	if missing := req.missing(); len(missing) > 0 {
		return nil, common.NewError(common.ErrMissingField, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if err := validateDate("admissionDate", req.AdmissionDate); err != nil {
		return nil, err
	}
	if req.DateOfBirth != "" {
		if err := validateDate("dateOfBirth", req.DateOfBirth); err != nil {
			return nil, err
		}
	}

	student := &model.Student{
		ID:               uuid.NewString(),
		FullName:         strings.TrimSpace(req.FullName),
		Class:            strings.TrimSpace(req.Class),
		Section:          req.Section,
		RollNumber:       strings.TrimSpace(req.RollNumber),
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		FatherName:       req.FatherName,
		MotherName:       req.MotherName,
		ParentPhone:      req.ParentPhone,
		ParentEmail:      req.ParentEmail,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		AdmissionDate:    req.AdmissionDate,
		BatchNo:          req.BatchNo,
		Note:             req.Note,
		Status:           model.StudentActive,
		CreatedBy:        createdBy,
	}
	if student.BatchNo == "" {
		student.BatchNo = model.DefaultBatchNo
	}
	if student.RollNumber != "" {
		if err := s.studentRepo.Insert(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to create student: %w", err)
		}
		return student, nil
	}

	prefix := slug.Make(student.Class)
	for attempt := 1; ; attempt++ {
		n, err := s.studentRepo.MaxRollSequence(ctx, student.Class, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to read roll sequence: %w", err)
		}
		student.RollNumber = fmt.Sprintf("%s-%d", prefix, n+1)

		err = s.studentRepo.Insert(ctx, student)
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, common.ErrDuplicateRollNumber) || attempt == maxRollAttempts {
			return nil, fmt.Errorf("failed to create student: %w", err)
		}
	}
}

func (s *StudentService) Get(ctx context.Context, id string) (*model.Student, error) {
	return s.studentRepo.FindByID(ctx, id)
}

func (s *StudentService) Search(ctx context.Context, q string) ([]model.Student, error) {
	return s.studentRepo.Search(ctx, q)
}

// Delete removes the student and any fee accounts opened for them.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.feeRepo.DeleteByStudent(ctx, id)
}

func validateDate(field, value string) error {
	if _, err := time.Parse(model.DateLayout, value); err != nil {
		return common.NewError(common.ErrValidation, field+" must be a date in YYYY-MM-DD format")
	}
	return nil
}

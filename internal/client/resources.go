package client

import (
	"context"
	"net/http"
	"net/url"

	"baseline_academy/internal/domain/model"
)

type NewStudent struct {
	FullName      string `json:"fullName"`
	Class         string `json:"class"`
	Section       string `json:"section,omitempty"`
	RollNumber    string `json:"rollNumber,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	Gender        string `json:"gender"`
	FatherName    string `json:"fatherName"`
	MotherName    string `json:"motherName,omitempty"`
	ParentPhone   string `json:"parentPhone"`
	ParentEmail   string `json:"parentEmail,omitempty"`
	Address       string `json:"address,omitempty"`
	AdmissionDate string `json:"admissionDate"`
	BatchNo       string `json:"batchNo,omitempty"`
	Note          string `json:"note,omitempty"`
}

type NewHomework struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject"`
	Class       string `json:"class"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority,omitempty"`
}

func (m *Manager) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	var out model.DashboardSummary
	if err := m.Call(ctx, http.MethodGet, "/api/v1/dashboard/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Manager) AddStudent(ctx context.Context, in NewStudent) (*model.Student, error) {
	var out model.Student
	if err := m.Call(ctx, http.MethodPost, "/api/v1/students", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Manager) SearchStudents(ctx context.Context, q string) ([]model.Student, error) {
	var out struct {
		Students []model.Student `json:"students"`
	}
	path := "/api/v1/students"
	if q != "" {
		path += "?" + url.Values{"q": {q}}.Encode()
	}
	if err := m.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

func (m *Manager) Student(ctx context.Context, id string) (*model.Student, error) {
	var out model.Student
	if err := m.Call(ctx, http.MethodGet, "/api/v1/students/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Manager) Fees(ctx context.Context, status, class string) ([]model.FeeAccount, error) {
	var out struct {
		Fees []model.FeeAccount `json:"fees"`
	}
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if class != "" {
		q.Set("class", class)
	}
	path := "/api/v1/fees"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	if err := m.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Fees, nil
}

func (m *Manager) Pay(ctx context.Context, feeID string, amount int64, paidOn string) (*model.FeeAccount, error) {
	in := map[string]interface{}{"amount": amount}
	if paidOn != "" {
		in["paidOn"] = paidOn
	}
	var out model.FeeAccount
	if err := m.Call(ctx, http.MethodPost, "/api/v1/fees/"+url.PathEscape(feeID)+"/payments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Manager) Homework(ctx context.Context, class, subject, status string) ([]model.Homework, error) {
	var out struct {
		Homework []model.Homework `json:"homework"`
	}
	q := url.Values{}
	for k, v := range map[string]string{"class": class, "subject": subject, "status": status} {
		if v != "" {
			q.Set(k, v)
		}
	}
	path := "/api/v1/homework"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	if err := m.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Homework, nil
}

func (m *Manager) AddHomework(ctx context.Context, in NewHomework) (*model.Homework, error) {
	var out model.Homework
	if err := m.Call(ctx, http.MethodPost, "/api/v1/homework", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteHomework marks an assignment Completed.
func (m *Manager) CompleteHomework(ctx context.Context, id string) (*model.Homework, error) {
	var out model.Homework
	in := map[string]string{"status": string(model.HomeworkCompleted)}
	if err := m.Call(ctx, http.MethodPut, "/api/v1/homework/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Manager) DeleteHomework(ctx context.Context, id string) error {
	return m.Call(ctx, http.MethodDelete, "/api/v1/homework/"+url.PathEscape(id), nil, nil)
}

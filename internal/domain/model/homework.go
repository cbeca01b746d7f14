package model

import "time"

type HomeworkPriority string
type HomeworkStatus string

const (
	PriorityLow    HomeworkPriority = "Low"
	PriorityMedium HomeworkPriority = "Medium"
	PriorityHigh   HomeworkPriority = "High"

	HomeworkActive    HomeworkStatus = "Active"
	HomeworkCompleted HomeworkStatus = "Completed"
)

func ParsePriority(s string) (HomeworkPriority, bool) {
	switch p := HomeworkPriority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

func ParseHomeworkStatus(s string) (HomeworkStatus, bool) {
	switch st := HomeworkStatus(s); st {
	case HomeworkActive, HomeworkCompleted:
		return st, true
	}
	return "", false
}

type Homework struct {
	ID           string           `json:"id"`
	Slug         string           `json:"slug"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Subject      string           `json:"subject"`
	Class        string           `json:"class"`
	DueDate      string           `json:"dueDate"`
	Priority     HomeworkPriority `json:"priority"`
	AssignedDate string           `json:"assignedDate"`
	Status       HomeworkStatus   `json:"status"`
	CreatedBy    int64            `json:"createdBy"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// DashboardSummary aggregates the headline numbers shown on the dashboard.
type DashboardSummary struct {
	TotalStudents   int   `json:"totalStudents"`
	ActiveStudents  int   `json:"activeStudents"`
	TotalFees       int64 `json:"totalFees"`
	CollectedFees   int64 `json:"collectedFees"`
	PendingFees     int64 `json:"pendingFees"`
	OverdueAccounts int   `json:"overdueAccounts"`
	ActiveHomework  int   `json:"activeHomework"`
}

package model

import "time"

type FeeStatus string

const (
	FeePaid    FeeStatus = "Paid"
	FeePartial FeeStatus = "Partial"
	FeePending FeeStatus = "Pending"
	FeeOverdue FeeStatus = "Overdue"
)

func ParseFeeStatus(s string) (FeeStatus, bool) {
	switch st := FeeStatus(s); st {
	case FeePaid, FeePartial, FeePending, FeeOverdue:
		return st, true
	}
	return "", false
}

// FeeAccount tracks what a student owes. Amounts are whole currency units.
type FeeAccount struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName"`
	RollNumber      string    `json:"rollNumber"`
	Class           string    `json:"class"`
	Section         string    `json:"section"`
	TotalFees       int64     `json:"totalFees"`
	PaidFees        int64     `json:"paidFees"`
	PendingFees     int64     `json:"pendingFees"`
	Status          FeeStatus `json:"status"`
	LastPaymentDate string    `json:"lastPaymentDate,omitempty"`
	DueDate         string    `json:"dueDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Refresh recomputes the derived pending amount and status as of now.
func (f *FeeAccount) Refresh(now time.Time) {
	f.PendingFees = f.TotalFees - f.PaidFees
	if f.PendingFees < 0 {
		f.PendingFees = 0
	}
	f.Status = DeriveFeeStatus(f.TotalFees, f.PaidFees, f.DueDate, now)
}

// DeriveFeeStatus classifies an account. An unparseable due date never counts as overdue.
func DeriveFeeStatus(total, paid int64, dueDate string, now time.Time) FeeStatus {
	if paid >= total {
		return FeePaid
	}
	if due, err := time.Parse(DateLayout, dueDate); err == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if due.Before(today) {
			return FeeOverdue
		}
	}
	if paid > 0 {
		return FeePartial
	}
	return FeePending
}

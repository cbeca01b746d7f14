package model

import "time"

type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
)

// DefaultBatchNo is used when an admission form leaves the batch empty.
const DefaultBatchNo = "25"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

type Student struct {
	ID               string        `json:"id"`
	FullName         string        `json:"fullName"`
	Class            string        `json:"class"`
	Section          string        `json:"section"`
	RollNumber       string        `json:"rollNumber"`
	DateOfBirth      string        `json:"dateOfBirth,omitempty"`
	Gender           string        `json:"gender"`
	FatherName       string        `json:"fatherName"`
	MotherName       string        `json:"motherName,omitempty"`
	ParentPhone      string        `json:"parentPhone"`
	ParentEmail      string        `json:"parentEmail,omitempty"`
	Address          string        `json:"address,omitempty"`
	EmergencyContact string        `json:"emergencyContact,omitempty"`
	AdmissionDate    string        `json:"admissionDate"`
	BatchNo          string        `json:"batchNo"`
	Note             string        `json:"note,omitempty"`
	Status           StudentStatus `json:"status"`
	CreatedBy        int64         `json:"createdBy"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

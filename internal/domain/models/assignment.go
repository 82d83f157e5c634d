// internal/domain/models/assignment.go
package models

import "time"

// Provider modes recorded on assignment history.
const (
	ProviderModeDirectedCRNA = "Directed CRNA"
	ProviderModeDirectedAA   = "Directed AA"
)

// AssignmentDateLayout is the calendar-date format of AssignmentHistoryRecord.Date.
const AssignmentDateLayout = "2006-01-02"

// CaseRecord is a single case within an assignment. No cases are recorded yet.
type CaseRecord struct {
	CaseID    string `bson:"case_id" dynamodbav:"case_id" json:"case_id"`
	Procedure string `bson:"procedure,omitempty" dynamodbav:"procedure,omitempty" json:"procedure,omitempty"`
}

// AssignmentHistoryRecord is the append-only audit entry written for every
// board create or update.
type AssignmentHistoryRecord struct {
	AssignmentID       string       `bson:"_id" dynamodbav:"assignment_id" json:"assignment_id"`
	Room               string       `bson:"room" dynamodbav:"room" json:"room"`
	HospitalID         string       `bson:"hospital_id" dynamodbav:"hospital_id" json:"hospital_id"`
	SurgeonID          string       `bson:"surgeon_id" dynamodbav:"surgeon_id" json:"surgeon_id"`
	AnesthesiologistID string       `bson:"anesthesiologist_id" dynamodbav:"anesthesiologist_id" json:"anesthesiologist_id"`
	AppID              string       `bson:"app_id" dynamodbav:"app_id" json:"app_id"`
	StudentID          string       `bson:"student_id,omitempty" dynamodbav:"student_id,omitempty" json:"student_id,omitempty"`
	Date               string       `bson:"date" dynamodbav:"date" json:"date"`
	Cases              []CaseRecord `bson:"cases" dynamodbav:"cases" json:"cases"`
	ProviderMode       string       `bson:"provider_mode" dynamodbav:"provider_mode" json:"provider_mode"`
	RecordedAt         time.Time    `bson:"recorded_at" dynamodbav:"recorded_at" json:"recorded_at"`
}

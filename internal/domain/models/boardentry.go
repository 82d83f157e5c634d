// internal/domain/models/boardentry.go
package models

// BoardEntry is one operating room on the whiteboard. Room is the store key
// and is unique across hospitals.
//
// StaffID is not checked against the staff directory when written.
type BoardEntry struct {
	Room       string
	Provider   string
	Surgeon    string
	StaffID    string
	HospitalID string
}

package whiteboard

import (
	"context"
	"errors"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Store-level sentinel errors. Backends wrap driver errors and return these
// for the conditions the Board Service distinguishes.
var (
	ErrNotFound      = errors.New("whiteboard: not found")
	ErrAlreadyExists = errors.New("whiteboard: already exists")
)

// StaffRepository reads the staff directory.
type StaffRepository interface {
	// ListStaff returns every staff record in one full scan.
	ListStaff(ctx context.Context) ([]models.StaffRecord, error)
	// GetStaff returns ErrNotFound when no record has staffID.
	GetStaff(ctx context.Context, staffID string) (models.StaffRecord, error)
}

// StaffWriter is implemented by backends that can be seeded.
type StaffWriter interface {
	PutStaff(ctx context.Context, s models.StaffRecord) error
}

// BoardRepository stores board entries keyed by room. Implementations resolve
// historical field-name aliases before returning entries.
type BoardRepository interface {
	ListEntries(ctx context.Context) ([]models.BoardEntry, error)
	// GetEntry returns ErrNotFound when the room is absent.
	GetEntry(ctx context.Context, room string) (models.BoardEntry, error)
	// InsertEntry returns ErrAlreadyExists when the room key is taken.
	InsertEntry(ctx context.Context, e models.BoardEntry) error
	// UpdateEntry overwrites provider, surgeon, staff and hospital of an
	// existing room. It returns ErrNotFound when the room is absent.
	UpdateEntry(ctx context.Context, e models.BoardEntry) error
}

// HistoryLog is the append-only assignment audit trail.
type HistoryLog interface {
	AppendAssignment(ctx context.Context, rec models.AssignmentHistoryRecord) error
}

// HistoryReader is implemented by history backends that can list recent
// records, newest first.
type HistoryReader interface {
	RecentAssignments(ctx context.Context, limit int) ([]models.AssignmentHistoryRecord, error)
}

// Backend bundles the three collections a deployment stores board data in.
type Backend struct {
	Staff   StaffRepository
	Board   BoardRepository
	History HistoryLog
}

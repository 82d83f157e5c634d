// Package whiteboard assembles the operating-room board for a hospital and
// applies room create/update mutations.
//
// Every mutation writes the board entry first and then appends one
// assignment history record. The two writes are not atomic: when the append
// fails after the board write succeeded the operation reports Failed, the
// board keeps the new entry, and the failure is logged and counted.
package whiteboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/metrics"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.uber.org/zap"
)

// Config carries the Service dependencies. Staff, Board and History are required.
type Config struct {
	Staff   StaffRepository
	Board   BoardRepository
	History HistoryLog
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Service is the Board Service.
type Service struct {
	staff   StaffRepository
	board   BoardRepository
	history HistoryLog
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

// New builds a Service from cfg.
func New(cfg Config) *Service {
	s := &Service{
		staff:   cfg.Staff,
		board:   cfg.Board,
		history: cfg.History,
		metrics: cfg.Metrics,
		log:     cfg.Logger,
		now:     cfg.Now,
		newID:   cfg.NewID,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// EntryInput is the form payload for add and edit. All ids travel as strings.
type EntryInput struct {
	Room       string
	Provider   string
	Surgeon    string
	StaffID    string
	HospitalID string
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reads                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Snapshot is one read of the board together with the state of the staff
// directory it was joined against.
type Snapshot struct {
	Board Board
	// Loaded is false when the board store could not be read.
	Loaded bool
	// StaffDegraded is set when the staff scan came back empty; names then
	// show as UnknownStaffName placeholders.
	StaffDegraded bool
}

// FetchBoard returns every entry on the board regardless of hospital.
// ok is false when the board store could not be read.
func (s *Service) FetchBoard(ctx context.Context) (Board, bool) {
	snap := s.fetch(ctx, "", false)
	return snap.Board, snap.Loaded
}

// FetchHospitalBoard returns only entries whose hospital id equals hospitalID.
// Entries with another or no hospital id are excluded.
func (s *Service) FetchHospitalBoard(ctx context.Context, hospitalID string) (Board, bool) {
	snap := s.fetch(ctx, hospitalID, true)
	return snap.Board, snap.Loaded
}

// HospitalSnapshot is FetchHospitalBoard that also reports a degraded staff
// directory, for pages that must warn about it.
func (s *Service) HospitalSnapshot(ctx context.Context, hospitalID string) Snapshot {
	return s.fetch(ctx, hospitalID, true)
}

func (s *Service) fetch(ctx context.Context, hospitalID string, scoped bool) Snapshot {
	// A failed staff scan degrades names to placeholders; it does not fail the board.
	staff := s.FetchStaff(ctx)
	index := indexStaff(staff)

	entries, err := s.board.ListEntries(ctx)
	if err != nil {
		s.log.Warn("board fetch failed", zap.Error(err), zap.String("hospital_id", hospitalID))
		s.metrics.BoardFetch(false)
		return Snapshot{StaffDegraded: len(staff) == 0}
	}

	board := make(Board, len(entries))
	for _, e := range entries {
		if e.Room == "" {
			s.log.Warn("dropping board entry without room key", zap.String("hospital_id", e.HospitalID))
			continue
		}
		if scoped && e.HospitalID != hospitalID {
			continue
		}
		board[e.Room] = display(e, index)
	}
	s.metrics.BoardFetch(true)
	return Snapshot{Board: board, Loaded: true, StaffDegraded: len(staff) == 0}
}

// FetchStaff returns the whole staff directory. On failure it returns an
// empty slice; callers should warn that the directory is degraded.
func (s *Service) FetchStaff(ctx context.Context) []models.StaffRecord {
	staff, err := s.staff.ListStaff(ctx)
	if err != nil {
		s.log.Warn("staff directory fetch failed", zap.Error(err))
		s.metrics.StaffFetchFailed()
		return []models.StaffRecord{}
	}
	if staff == nil {
		return []models.StaffRecord{}
	}
	return staff
}

// Entry returns one room for the edit form. NotFound when the room is absent
// or belongs to a hospital other than hospitalID.
func (s *Service) Entry(ctx context.Context, room, hospitalID string) (DisplayEntry, Outcome) {
	e, err := s.board.GetEntry(ctx, room)
	switch {
	case errors.Is(err, ErrNotFound):
		return DisplayEntry{}, NotFound
	case err != nil:
		s.log.Warn("board entry fetch failed", zap.Error(err), zap.String("room", room))
		return DisplayEntry{}, Failed
	}
	if e.HospitalID != hospitalID {
		return DisplayEntry{}, NotFound
	}

	staff, found, err := s.lookupStaff(ctx, e.StaffID)
	if err != nil {
		s.log.Warn("staff lookup failed", zap.Error(err), zap.String("staff_id", e.StaffID))
	}
	index := map[string]models.StaffRecord{}
	if found {
		index[staff.StaffID] = staff
	}
	return display(e, index), Succeeded
}

/*─────────────────────────────────────────────────────────────────────────────*
| Mutations                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// AddEntry creates a room. AlreadyExists when the room key is taken by any
// hospital; room names are global keys.
func (s *Service) AddEntry(ctx context.Context, in EntryInput) Outcome {
	out := s.add(ctx, in)
	s.metrics.Mutation("add", out.String())
	return out
}

func (s *Service) add(ctx context.Context, in EntryInput) Outcome {
	log := s.log.With(zap.String("op", "add"), zap.String("room", in.Room), zap.String("hospital_id", in.HospitalID))

	_, err := s.board.GetEntry(ctx, in.Room)
	switch {
	case err == nil:
		return AlreadyExists
	case !errors.Is(err, ErrNotFound):
		log.Error("board lookup failed", zap.Error(err))
		return Failed
	}

	staff, found, err := s.lookupStaff(ctx, in.StaffID)
	if err != nil {
		log.Error("staff lookup failed", zap.Error(err), zap.String("staff_id", in.StaffID))
		return Failed
	}

	err = s.board.InsertEntry(ctx, entryFrom(in))
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return AlreadyExists
	case err != nil:
		log.Error("board insert failed", zap.Error(err))
		return Failed
	}

	return s.appendHistory(ctx, log, in, staff, found)
}

// EditEntry overwrites an existing room. NotFound when the room is absent or
// belongs to a hospital other than in.HospitalID.
func (s *Service) EditEntry(ctx context.Context, in EntryInput) Outcome {
	out := s.edit(ctx, in)
	s.metrics.Mutation("edit", out.String())
	return out
}

func (s *Service) edit(ctx context.Context, in EntryInput) Outcome {
	log := s.log.With(zap.String("op", "edit"), zap.String("room", in.Room), zap.String("hospital_id", in.HospitalID))

	existing, err := s.board.GetEntry(ctx, in.Room)
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case err != nil:
		log.Error("board lookup failed", zap.Error(err))
		return Failed
	}
	if existing.HospitalID != in.HospitalID {
		return NotFound
	}

	staff, found, err := s.lookupStaff(ctx, in.StaffID)
	if err != nil {
		log.Error("staff lookup failed", zap.Error(err), zap.String("staff_id", in.StaffID))
		return Failed
	}

	err = s.board.UpdateEntry(ctx, entryFrom(in))
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case err != nil:
		log.Error("board update failed", zap.Error(err))
		return Failed
	}

	return s.appendHistory(ctx, log, in, staff, found)
}

func (s *Service) appendHistory(ctx context.Context, log *zap.Logger, in EntryInput, staff models.StaffRecord, found bool) Outcome {
	rec := s.historyRecord(in, staff, found)
	if err := s.history.AppendAssignment(ctx, rec); err != nil {
		log.Error("board written but history append failed",
			zap.Error(err),
			zap.String("assignment_id", rec.AssignmentID))
		s.metrics.HistoryAppendFailed()
		return Failed
	}
	return Succeeded
}

// historyRecord derives the audit record for a mutation. Provider mode is
// Directed CRNA only for a resolved CRNA; every other case, unresolved staff
// included, is Directed AA.
func (s *Service) historyRecord(in EntryInput, staff models.StaffRecord, found bool) models.AssignmentHistoryRecord {
	now := s.now().UTC()
	rec := models.AssignmentHistoryRecord{
		AssignmentID:       s.newID(),
		Room:               in.Room,
		HospitalID:         in.HospitalID,
		SurgeonID:          in.Surgeon,
		AnesthesiologistID: in.Provider,
		AppID:              in.StaffID,
		Date:               now.Format(models.AssignmentDateLayout),
		Cases:              []models.CaseRecord{},
		ProviderMode:       models.ProviderModeDirectedAA,
		RecordedAt:         now,
	}
	if found && staff.IsStudent() {
		rec.StudentID = in.StaffID
	}
	if found && staff.Role == models.StaffRoleCRNA {
		rec.ProviderMode = models.ProviderModeDirectedCRNA
	}
	return rec
}

// lookupStaff resolves staffID. A missing record is reported as found=false,
// not as an error.
func (s *Service) lookupStaff(ctx context.Context, staffID string) (models.StaffRecord, bool, error) {
	if staffID == "" {
		return models.StaffRecord{}, false, nil
	}
	rec, err := s.staff.GetStaff(ctx, staffID)
	switch {
	case errors.Is(err, ErrNotFound):
		return models.StaffRecord{}, false, nil
	case err != nil:
		return models.StaffRecord{}, false, err
	}
	return rec, true, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// indexStaff keys staff by id; the first record wins on duplicate ids.
func indexStaff(staff []models.StaffRecord) map[string]models.StaffRecord {
	index := make(map[string]models.StaffRecord, len(staff))
	for _, s := range staff {
		if _, dup := index[s.StaffID]; dup {
			continue
		}
		index[s.StaffID] = s
	}
	return index
}

func display(e models.BoardEntry, index map[string]models.StaffRecord) DisplayEntry {
	d := DisplayEntry{
		Provider: e.Provider,
		Surgeon:  e.Surgeon,
		StaffID:  e.StaffID,
	}
	if staff, ok := index[e.StaffID]; ok {
		d.StaffName = staff.Name
		d.StaffRole = staff.Role
	} else {
		d.StaffName = UnknownStaffName(e.StaffID)
	}
	return d
}

func entryFrom(in EntryInput) models.BoardEntry {
	return models.BoardEntry{
		Room:       in.Room,
		Provider:   in.Provider,
		Surgeon:    in.Surgeon,
		StaffID:    in.StaffID,
		HospitalID: in.HospitalID,
	}
}

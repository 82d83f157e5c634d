// internal/app/store/memory/memory.go
//
// Package memory is an in-process board backend. Documents are kept
// schema-less so entries seeded under legacy field names resolve the same way
// they do in the persistent backends.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/boardfields"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

var (
	_ whiteboard.StaffRepository = (*Store)(nil)
	_ whiteboard.StaffWriter     = (*Store)(nil)
	_ whiteboard.BoardRepository = (*Store)(nil)
	_ whiteboard.HistoryLog      = (*Store)(nil)
	_ whiteboard.HistoryReader   = (*Store)(nil)
)

// Store holds staff, board and history in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	staff   []models.StaffRecord
	board   []map[string]any
	history []models.AssignmentHistoryRecord
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Backend returns s wired into all three repository roles.
func (s *Store) Backend() whiteboard.Backend {
	return whiteboard.Backend{Staff: s, Board: s, History: s}
}

// ─── staff ──────────────────────────────────────────────────────────────────

func (s *Store) ListStaff(ctx context.Context) ([]models.StaffRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StaffRecord, len(s.staff))
	copy(out, s.staff)
	return out, nil
}

func (s *Store) GetStaff(ctx context.Context, staffID string) (models.StaffRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.staff {
		if rec.StaffID == staffID {
			return rec, nil
		}
	}
	return models.StaffRecord{}, whiteboard.ErrNotFound
}

// PutStaff appends rec. Duplicate ids are kept; readers take the first.
func (s *Store) PutStaff(ctx context.Context, rec models.StaffRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = append(s.staff, rec)
	return nil
}

// ─── board ──────────────────────────────────────────────────────────────────

// PutRaw stores doc as-is. Tests use it to seed legacy-shaped entries.
func (s *Store) PutRaw(doc map[string]any) {
	cp := make(map[string]any, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = append(s.board, cp)
}

func (s *Store) ListEntries(ctx context.Context) ([]models.BoardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BoardEntry, 0, len(s.board))
	for _, doc := range s.board {
		out = append(out, boardfields.Resolve(doc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out, nil
}

func (s *Store) GetEntry(ctx context.Context, room string) (models.BoardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(room); i >= 0 {
		return boardfields.Resolve(s.board[i]), nil
	}
	return models.BoardEntry{}, whiteboard.ErrNotFound
}

func (s *Store) InsertEntry(ctx context.Context, e models.BoardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.Room) >= 0 {
		return whiteboard.ErrAlreadyExists
	}
	s.board = append(s.board, boardfields.Doc(e))
	return nil
}

// UpdateEntry rewrites the document under canonical names, dropping any
// legacy aliases it carried.
func (s *Store) UpdateEntry(ctx context.Context, e models.BoardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(e.Room)
	if i < 0 {
		return whiteboard.ErrNotFound
	}
	doc := s.board[i]
	for _, k := range boardfields.Legacy() {
		delete(doc, k)
	}
	// The room key is the identity and keeps whatever name it was stored under.
	for k, v := range boardfields.Doc(e) {
		if k == boardfields.Room[0] {
			continue
		}
		doc[k] = v
	}
	return nil
}

// RawEntry returns a copy of the stored document for room.
func (s *Store) RawEntry(room string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(room)
	if i < 0 {
		return nil, false
	}
	cp := make(map[string]any, len(s.board[i]))
	for k, v := range s.board[i] {
		cp[k] = v
	}
	return cp, true
}

func (s *Store) indexOf(room string) int {
	for i, doc := range s.board {
		if boardfields.First(doc, boardfields.Room) == room {
			return i
		}
	}
	return -1
}

// ─── history ────────────────────────────────────────────────────────────────

func (s *Store) AppendAssignment(ctx context.Context, rec models.AssignmentHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, rec)
	return nil
}

// History returns every appended record in append order.
func (s *Store) History() []models.AssignmentHistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AssignmentHistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// RecentAssignments returns up to limit records, newest first.
func (s *Store) RecentAssignments(ctx context.Context, limit int) ([]models.AssignmentHistoryRecord, error) {
	if limit < 0 {
		limit = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AssignmentHistoryRecord, 0, limit)
	for i := len(s.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}

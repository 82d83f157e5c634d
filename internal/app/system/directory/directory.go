// Package directory answers which divisions a user may pick and which
// hospitals belong to a division.
package directory

import (
	"context"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

type DivisionReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.Division, error)
	List(ctx context.Context) ([]models.Division, error)
}

type HospitalReader interface {
	ListByDivision(ctx context.Context, divisionID string) ([]models.Hospital, error)
}

type Service struct {
	divisions DivisionReader
	hospitals HospitalReader
}

func New(divisions DivisionReader, hospitals HospitalReader) *Service {
	return &Service{divisions: divisions, hospitals: hospitals}
}

// DivisionsFor returns the user's assigned divisions as wizard options.
// Administrators may pick any division. Assignments that name a missing
// division are dropped.
func (s *Service) DivisionsFor(ctx context.Context, u *auth.SessionUser) ([]selection.Option, error) {
	var (
		divs []models.Division
		err  error
	)
	switch {
	case u == nil:
		return nil, nil
	case u.IsAdmin():
		divs, err = s.divisions.List(ctx)
	case len(u.DivisionIDs) == 0:
		return nil, nil
	default:
		divs, err = s.divisions.GetByIDs(ctx, u.DivisionIDs)
	}
	if err != nil {
		return nil, err
	}
	out := make([]selection.Option, 0, len(divs))
	for _, d := range divs {
		out = append(out, selection.Option{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

// HospitalsFor returns a division's hospitals as wizard options.
func (s *Service) HospitalsFor(ctx context.Context, divisionID string) ([]selection.Option, error) {
	hs, err := s.hospitals.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	out := make([]selection.Option, 0, len(hs))
	for _, h := range hs {
		out = append(out, selection.Option{ID: h.ID, Name: h.Name})
	}
	return out, nil
}

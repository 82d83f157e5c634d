// internal/app/bootstrap/seed.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	divisions "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/divisions"
	hospitals "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/hospitals"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.uber.org/zap"
)

var sampleDivisions = []models.Division{
	{ID: "1", Name: "Richmond Metro"},
	{ID: "2", Name: "VCU Health"},
}

var sampleHospitals = []models.Hospital{
	{ID: "1", Name: "Chippenham", DivisionID: "1"},
	{ID: "2", Name: "Johnston-Willis", DivisionID: "1"},
	{ID: "3", Name: "VCU Main", DivisionID: "2"},
}

var sampleStaff = []models.StaffRecord{
	{StaffID: "1", Name: "CRNA Johnson", Role: models.StaffRoleCRNA, LocationID: "1"},
	{StaffID: "2", Name: "AA Davis", Role: models.StaffRoleAA, LocationID: "1"},
	{StaffID: "3", Name: "Student Miller", Role: models.StaffRoleStudent, SubRole: models.SubRoleStudent, LocationID: "2"},
	{StaffID: "4", Name: "CRNA Thompson", Role: models.StaffRoleCRNA, LocationID: "3"},
}

var sampleRooms = []models.BoardEntry{
	{Room: "Room 1", Provider: "Dr. Smith", Surgeon: "Dr. Jones", StaffID: "1", HospitalID: "1"},
	{Room: "Room 2", Provider: "Dr. Lee", Surgeon: "Dr. Patel", StaffID: "2", HospitalID: "1"},
	{Room: "Room 3", Provider: "Dr. Wilson", Surgeon: "Dr. Taylor", StaffID: "3", HospitalID: "2"},
	{Room: "Room 4", Provider: "Dr. Brown", Surgeon: "Dr. Clark", StaffID: "4", HospitalID: "3"},
}

type divisionUpserter interface {
	Upsert(ctx context.Context, d models.Division) error
}

type hospitalUpserter interface {
	Upsert(ctx context.Context, h models.Hospital) error
}

// sampleTargets are the writers seeding touches.
type sampleTargets struct {
	Divisions divisionUpserter
	Hospitals hospitalUpserter
	Staff     whiteboard.StaffWriter
	Board     whiteboard.BoardRepository
}

func seedSampleData(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	return seed(ctx, sampleTargets{
		Divisions: divisions.New(deps.MongoDatabase),
		Hospitals: hospitals.New(deps.MongoDatabase),
		Staff:     deps.StaffWriter,
		Board:     deps.Board.Board,
	}, logger)
}

// seed writes the sample directory, staff and rooms. It is idempotent:
// directory and staff rows are upserted and existing rooms are left as
// they are, so edits made on the board survive a restart.
func seed(ctx context.Context, t sampleTargets, logger *zap.Logger) error {
	for _, d := range sampleDivisions {
		if err := t.Divisions.Upsert(ctx, d); err != nil {
			return fmt.Errorf("seed division %s: %w", d.ID, err)
		}
	}
	for _, h := range sampleHospitals {
		if err := t.Hospitals.Upsert(ctx, h); err != nil {
			return fmt.Errorf("seed hospital %s: %w", h.ID, err)
		}
	}
	for _, s := range sampleStaff {
		if err := t.Staff.PutStaff(ctx, s); err != nil {
			return fmt.Errorf("seed staff %s: %w", s.StaffID, err)
		}
	}

	added := 0
	for _, e := range sampleRooms {
		err := t.Board.InsertEntry(ctx, e)
		switch {
		case err == nil:
			added++
		case errors.Is(err, whiteboard.ErrAlreadyExists):
		default:
			return fmt.Errorf("seed room %s: %w", e.Room, err)
		}
	}

	logger.Info("sample data seeded",
		zap.Int("divisions", len(sampleDivisions)),
		zap.Int("hospitals", len(sampleHospitals)),
		zap.Int("staff", len(sampleStaff)),
		zap.Int("rooms_added", added))
	return nil
}

package boardstore_test

import (
	"errors"
	"testing"

	boardstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/board"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := boardstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e := models.BoardEntry{Room: "Room 1", Provider: "Dr. Smith", Surgeon: "Dr. Jones", StaffID: "1", HospitalID: "1"}
	if err := store.InsertEntry(ctx, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	if err := store.InsertEntry(ctx, e); !errors.Is(err, whiteboard.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := store.GetEntry(ctx, "Room 1")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got != e {
		t.Errorf("GetEntry = %+v, want %+v", got, e)
	}

	if _, err := store.GetEntry(ctx, "Room 404"); !errors.Is(err, whiteboard.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_LegacyDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := boardstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(boardstore.Collection).InsertOne(ctx, bson.M{
		"_id":        primitive.NewObjectID(),
		"Room":       "Room 3",
		"Provider":   "Dr. Wilson",
		"Surgeon":    "Dr. Taylor",
		"Staff":      int32(3),
		"HospitalID": int32(2),
	})
	if err != nil {
		t.Fatalf("seed legacy doc: %v", err)
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].StaffID != "3" || entries[0].HospitalID != "2" {
		t.Fatalf("ListEntries = %+v", entries)
	}

	if err := store.InsertEntry(ctx, models.BoardEntry{Room: "Room 3"}); !errors.Is(err, whiteboard.ErrAlreadyExists) {
		t.Errorf("legacy room should block insert, got %v", err)
	}

	if err := store.UpdateEntry(ctx, models.BoardEntry{Room: "Room 3", Provider: "Dr. New", Surgeon: "Dr. Taylor", StaffID: "4", HospitalID: "2"}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	var raw bson.M
	if err := db.Collection(boardstore.Collection).FindOne(ctx, bson.M{"Room": "Room 3"}).Decode(&raw); err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, k := range []string{"Provider", "Staff", "HospitalID", "Surgeon"} {
		if _, ok := raw[k]; ok {
			t.Errorf("legacy key %q survived update", k)
		}
	}
	if raw["provider"] != "Dr. New" || raw["staff_id"] != "4" {
		t.Errorf("canonical fields not written: %v", raw)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := boardstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.UpdateEntry(ctx, models.BoardEntry{Room: "Nowhere"})
	if !errors.Is(err, whiteboard.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/users"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Dana   Admin ",
		Email:    "Dana@Example.COM",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "dana@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.FullName != "Dana Admin" {
		t.Errorf("expected normalized name, got %q", created.FullName)
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "x@example.com", Role: "superuser"}); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if _, err := store.Create(ctx, models.User{Email: "dup@example.com", Role: "staff"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com", Role: "staff"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "staff@example.com", FullName: "Sam Staff", Role: "staff"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.GetByEmail(ctx, "STAFF@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u.FullName != "Sam Staff" {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_EnsureAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.EnsureAdmin(ctx, "root@example.com", "Root", "hash")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin = %v, %v", created, err)
	}
	created, err = store.EnsureAdmin(ctx, "root@example.com", "Root", "hash")
	if err != nil || created {
		t.Errorf("second EnsureAdmin = %v, %v; want false, nil", created, err)
	}
}

func TestStore_EnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Email: "lead@example.com", Role: "staff", Status: "disabled"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	created, err := store.EnsureAdmin(ctx, "lead@example.com", "Lead", "hash")
	if err != nil || created {
		t.Fatalf("EnsureAdmin = %v, %v; want false, nil", created, err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != models.RoleAdmin || got.Status != models.StatusActive {
		t.Errorf("role/status = %q/%q, want admin/active", got.Role, got.Status)
	}
	if got.PasswordHash != nil {
		t.Error("promotion should not set a password")
	}
}

func TestStore_AssignDivisions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Email: "div@example.com", Role: "staff"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.AssignDivisions(ctx, u.ID, []string{"1", "2"}); err != nil {
		t.Fatalf("AssignDivisions failed: %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if len(got.AssignedDivisionIDs) != 2 {
		t.Errorf("expected 2 divisions, got %v", got.AssignedDivisionIDs)
	}
	if err := store.AssignDivisions(ctx, "missing", nil); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active, _ := store.Create(ctx, models.User{Email: "a@example.com", FullName: "Active", Role: "staff", AssignedDivisionIDs: []string{"1"}})
	disabled, _ := store.Create(ctx, models.User{Email: "d@example.com", Role: "staff", Status: "disabled"})

	su := fetcher.FetchUser(ctx, active.ID)
	if su == nil {
		t.Fatal("expected active user")
	}
	if su.Name != "Active" || su.Role != "staff" || len(su.DivisionIDs) != 1 {
		t.Errorf("unexpected session user %+v", su)
	}
	if fetcher.FetchUser(ctx, disabled.ID) != nil {
		t.Error("expected nil for disabled user")
	}
	if fetcher.FetchUser(ctx, "missing") != nil {
		t.Error("expected nil for missing user")
	}
}

// internal/app/store/staff/staffstore.go
package staffstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/boardfields"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds the staff directory.
const Collection = "staff"

var (
	_ whiteboard.StaffRepository = (*Store)(nil)
	_ whiteboard.StaffWriter     = (*Store)(nil)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "staff_id", Value: 1}},
	})
	return err
}

// byInsertion orders reads by _id so that, for duplicate staff ids, ListStaff
// and GetStaff agree on which record comes first.
var byInsertion = bson.D{{Key: "_id", Value: 1}}

// ListStaff returns every staff record oldest first. Numeric staff ids
// written by older tooling come back as strings.
func (s *Store) ListStaff(ctx context.Context) ([]models.StaffRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(byInsertion))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StaffRecord
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, boardfields.Staff(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetStaff(ctx context.Context, staffID string) (models.StaffRecord, error) {
	var doc bson.M
	filter := bson.M{"staff_id": bson.M{"$in": idForms(staffID)}}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetSort(byInsertion)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StaffRecord{}, whiteboard.ErrNotFound
	}
	if err != nil {
		return models.StaffRecord{}, err
	}
	return boardfields.Staff(doc), nil
}

func (s *Store) PutStaff(ctx context.Context, rec models.StaffRecord) error {
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// Count reports the number of staff records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// idForms returns staffID plus its integer encodings when it parses as one.
func idForms(staffID string) bson.A {
	forms := bson.A{staffID}
	if n, err := strconv.ParseInt(staffID, 10, 64); err == nil {
		forms = append(forms, n, int32(n), float64(n))
	}
	return forms
}

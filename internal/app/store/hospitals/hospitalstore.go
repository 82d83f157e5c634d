// internal/app/store/hospitals/hospitalstore.go
package hospitalstore

import (
	"context"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hospitals")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "division_id", Value: 1}, {Key: "name", Value: 1}},
	})
	return err
}

func (s *Store) Upsert(ctx context.Context, h models.Hospital) error {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": h.ID}, h, options.Replace().SetUpsert(true))
	return err
}

// ListByDivision returns a division's hospitals ordered by name.
func (s *Store) ListByDivision(ctx context.Context, divisionID string) ([]models.Hospital, error) {
	cur, err := s.c.Find(ctx, bson.M{"division_id": divisionID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Hospital
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count reports the number of hospitals.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// List returns every hospital ordered by division then name.
func (s *Store) List(ctx context.Context) ([]models.Hospital, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "division_id", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Hospital
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

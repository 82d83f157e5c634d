// internal/app/store/divisions/divisionstore.go
package divisionstore

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
	return &Store{c: db.Collection("divisions")}
}

// Upsert writes d keyed by its ID.
func (s *Store) Upsert(ctx context.Context, d models.Division) error {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, options.Replace().SetUpsert(true))
	return err
}

// GetByIDs returns the divisions with the given ids, ordered by name.
// Unknown ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]models.Division, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// List returns every division ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Division, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Division, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Division
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

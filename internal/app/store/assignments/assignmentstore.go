// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds the append-only assignment history.
const Collection = "room_assignments"

var (
	_ whiteboard.HistoryLog    = (*Store)(nil)
	_ whiteboard.HistoryReader = (*Store)(nil)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "hospital_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "room", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "recorded_at", Value: -1}}},
	})
	return err
}

// AppendAssignment inserts rec. Records are never updated.
func (s *Store) AppendAssignment(ctx context.Context, rec models.AssignmentHistoryRecord) error {
	if rec.Cases == nil {
		rec.Cases = []models.CaseRecord{}
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

func (s *Store) RecentAssignments(ctx context.Context, limit int) ([]models.AssignmentHistoryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.AssignmentHistoryRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForRoom returns a room's history on one calendar date (YYYY-MM-DD).
func (s *Store) ListForRoom(ctx context.Context, room, date string) ([]models.AssignmentHistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"room": room, "date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.AssignmentHistoryRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

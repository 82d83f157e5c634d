// internal/app/store/board/boardstore.go
package boardstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/boardfields"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds one document per operating room.
const Collection = "whiteboard"

var _ whiteboard.BoardRepository = (*Store)(nil)

// Store reads and writes board entries in MongoDB. New entries are keyed by
// room in _id; older documents may carry an ObjectID and the room under a
// legacy field name, so lookups match any of them.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// EnsureIndexes indexes the canonical room field. _id is indexed already.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "room", Value: 1}}},
		{Keys: bson.D{{Key: "hospital_id", Value: 1}}},
	})
	return err
}

func (s *Store) ListEntries(ctx context.Context) ([]models.BoardEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BoardEntry
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, boardfields.Resolve(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetEntry(ctx context.Context, room string) (models.BoardEntry, error) {
	var doc bson.M
	err := s.c.FindOne(ctx, byRoom(room)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.BoardEntry{}, whiteboard.ErrNotFound
	}
	if err != nil {
		return models.BoardEntry{}, err
	}
	return boardfields.Resolve(doc), nil
}

// InsertEntry refuses a room present under any key convention, then relies
// on the _id unique index for concurrent inserts.
func (s *Store) InsertEntry(ctx context.Context, e models.BoardEntry) error {
	err := s.c.FindOne(ctx, byRoom(e.Room)).Err()
	switch {
	case err == nil:
		return whiteboard.ErrAlreadyExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	doc := bson.M{"_id": e.Room}
	for k, v := range boardfields.Doc(e) {
		doc[k] = v
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return whiteboard.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateEntry writes canonical field names and unsets legacy aliases.
func (s *Store) UpdateEntry(ctx context.Context, e models.BoardEntry) error {
	set := bson.M{}
	for k, v := range boardfields.Doc(e) {
		if k == boardfields.Room[0] {
			continue
		}
		set[k] = v
	}
	unset := bson.M{}
	for _, k := range boardfields.Legacy() {
		unset[k] = ""
	}

	res, err := s.c.UpdateOne(ctx, byRoom(e.Room), bson.M{"$set": set, "$unset": unset})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return whiteboard.ErrNotFound
	}
	return nil
}

func byRoom(room string) bson.M {
	or := bson.A{bson.M{"_id": room}}
	for _, alias := range boardfields.Room {
		or = append(or, bson.M{alias: room})
	}
	return bson.M{"$or": or}
}

// internal/app/store/teacher/teacherstore.go
package teacherstore

import (
	"context"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the teachers collection.
// Teacher documents are keyed by username (_id).
type Store struct {
	c *mongo.Collection
}

// New creates a new teacher store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teachers")}
}

// Exists reports whether a teacher with the given username is known.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": username}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByUsername loads a teacher by username. Returns mongo.ErrNoDocuments
// if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.c.FindOne(ctx, bson.M{"_id": username}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert creates the teacher if missing or refreshes its display name.
// Used by startup seeding; idempotent.
func (s *Store) Upsert(ctx context.Context, t models.Teacher) error {
	update := bson.M{
		"$set": bson.M{
			"display_name": t.DisplayName,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": t.Username}, update, opts)
	return err
}

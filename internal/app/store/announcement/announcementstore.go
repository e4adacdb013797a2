// internal/app/store/announcement/announcementstore.go
package announcement

import (
	"context"
	"errors"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrInvalidID is returned when an announcement id is not a valid
	// object id in hex form.
	ErrInvalidID = errors.New("invalid announcement id")

	// ErrNotFound is returned when no announcement matches the given id.
	ErrNotFound = errors.New("announcement not found")
)

// Store provides access to the announcements collection.
//
// Announcement ids cross this boundary as hex strings; parsing and
// validation happen here so ObjectID construction never leaks into the
// service layer.
type Store struct {
	c *mongo.Collection
}

// New creates a new announcement store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// UpdateFields holds the mutable fields overwritten by Update.
type UpdateFields struct {
	Message        string
	StartDate      *string
	ExpirationDate string
	UpdatedBy      string
	UpdatedAt      string
}

// Active returns announcements whose window contains the given stamp:
// no start date (or start date at/before the stamp) and an expiration
// date at/after it. Dates are stored and compared as ISO-8601 strings.
func (s *Store) Active(ctx context.Context, nowStamp string) ([]models.Announcement, error) {
	filter := bson.M{"$and": bson.A{
		bson.M{"$or": bson.A{
			bson.M{"start_date": nil},
			bson.M{"start_date": bson.M{"$lte": nowStamp}},
		}},
		bson.M{"expiration_date": bson.M{"$gte": nowStamp}},
	}}
	return s.find(ctx, filter)
}

// All returns every announcement regardless of active window.
func (s *Store) All(ctx context.Context) ([]models.Announcement, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Announcement, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.Announcement, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one announcement by its hex id.
func (s *Store) GetByID(ctx context.Context, id string) (models.Announcement, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Announcement{}, err
	}
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Announcement{}, ErrNotFound
		}
		return models.Announcement{}, err
	}
	return a, nil
}

// Insert persists a new announcement and returns it with its assigned id.
func (s *Store) Insert(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	a.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Update overwrites the mutable fields of the announcement with the given
// hex id and returns the post-update document read back from the store.
// Returns ErrInvalidID for a malformed id and ErrNotFound when nothing
// matched.
func (s *Store) Update(ctx context.Context, id string, f UpdateFields) (models.Announcement, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Announcement{}, err
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"message":         f.Message,
		"start_date":      f.StartDate,
		"expiration_date": f.ExpirationDate,
		"updated_by":      f.UpdatedBy,
		"updated_at":      f.UpdatedAt,
	}})
	if err != nil {
		return models.Announcement{}, err
	}
	if res.MatchedCount == 0 {
		return models.Announcement{}, ErrNotFound
	}

	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Delete removes the announcement with the given hex id. Returns
// ErrInvalidID for a malformed id and ErrNotFound when nothing was
// deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

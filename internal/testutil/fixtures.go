package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/isodate"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateTeacher inserts a teacher document keyed by username.
func (f *Fixtures) CreateTeacher(ctx context.Context, username, displayName string) models.Teacher {
	f.t.Helper()

	teacher := models.Teacher{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("teachers").InsertOne(ctx, teacher); err != nil {
		f.t.Fatalf("failed to create teacher fixture: %v", err)
	}
	return teacher
}

// CreateAnnouncement inserts an announcement document directly,
// bypassing service validation so tests can stage past or malformed
// windows. Pass nil for startDate to store an explicit null.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, message string, startDate *string, expirationDate, createdBy string) models.Announcement {
	f.t.Helper()

	a := models.Announcement{
		ID:             primitive.NewObjectID(),
		Message:        message,
		StartDate:      startDate,
		ExpirationDate: expirationDate,
		CreatedBy:      createdBy,
		CreatedAt:      isodate.FormatStamp(time.Now()),
	}
	if _, err := f.db.Collection("announcements").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create announcement fixture: %v", err)
	}
	return a
}

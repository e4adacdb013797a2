// internal/domain/models/announcement.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a time-windowed notice shown to students and staff.
//
// Date fields are stored as the caller's original ISO-8601 strings, not as
// BSON dates. The active-window query compares them lexicographically
// against a "now" stamp in the same form, so they must never be
// re-serialized on the way in. Only CreatedAt/UpdatedAt are generated
// server-side.
//
// StartDate is a pointer so an absent start date persists as an explicit
// null, which the active-window $or clause relies on.
type Announcement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Message        string             `bson:"message" json:"message"`
	StartDate      *string            `bson:"start_date" json:"start_date"`
	ExpirationDate string             `bson:"expiration_date" json:"expiration_date"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      string             `bson:"created_at" json:"created_at"`
	UpdatedBy      string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	UpdatedAt      string             `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

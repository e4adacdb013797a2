// internal/domain/models/teacher.go
package models

import "time"

// Teacher represents a staff account allowed to manage announcements.
//
// The username is the document _id; its existence in the teachers
// collection is the sole authorization signal used by the API.
type Teacher struct {
	Username    string    `bson:"_id" json:"username"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

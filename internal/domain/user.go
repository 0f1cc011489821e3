package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a clinician account. It exists only for authentication;
// clinical data hangs off Client and Program.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash   string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus is the lifecycle state of a health program.
type ProgramStatus string

const (
	ProgramStatusPlanned   ProgramStatus = "planned"
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusCompleted ProgramStatus = "completed"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s ProgramStatus) IsValid() bool {
	switch s {
	case ProgramStatusPlanned, ProgramStatusActive, ProgramStatusCompleted:
		return true
	}
	return false
}

// Common program types. Type is deliberately an open string: clinics create
// programs beyond this list (the UI offers these as suggestions only).
const (
	ProgramTypeTB       = "TB"
	ProgramTypeMalaria  = "Malaria"
	ProgramTypeHIV      = "HIV"
	ProgramTypeDiabetes = "Diabetes"
	ProgramTypeMaternal = "Maternal"
	ProgramTypeOther    = "Other"
)

// Program represents a named health initiative clients can be enrolled in.
// No back-reference to enrolled clients is stored; the relationship is held
// one-directionally on Client.EnrolledPrograms.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Goals       string             `bson:"goals" json:"goals"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status      ProgramStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgramUpdate carries the fields of a partial program update. Nil fields
// are left untouched.
type ProgramUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Type        *string        `json:"type,omitempty"`
	Description *string        `json:"description,omitempty"`
	Goals       *string        `json:"goals,omitempty"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Status      *ProgramStatus `json:"status,omitempty"`
}

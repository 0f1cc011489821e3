package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the postal address embedded in a client record.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// MedicalHistory captures free-form clinical background for a client.
type MedicalHistory struct {
	Conditions  []string `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Allergies   []string `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Medications []string `bson:"medications,omitempty" json:"medications,omitempty"`
	Notes       string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// EmergencyContact is the person to reach when a client cannot be.
type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Client represents a patient registered with the clinic.
//
// EnrolledPrograms holds Program ids as hex strings. It is semantically a
// set: membership only, no duplicates, order irrelevant. It is mutated only
// through the enrollment operation or a full profile update.
type Client struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"` // Unique, stored lowercased
	Phone            string             `bson:"phone" json:"phone"`
	DateOfBirth      *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Address          *Address           `bson:"address,omitempty" json:"address,omitempty"`
	MedicalHistory   *MedicalHistory    `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	EmergencyContact *EmergencyContact  `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	EnrolledPrograms []string           `bson:"enrolledPrograms,omitempty" json:"enrolledPrograms"`
	RegistrationDate time.Time          `bson:"registrationDate" json:"registrationDate"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ClientUpdate carries the fields of a partial client update. Nil fields are
// left untouched; non-nil fields are merged into the stored document.
type ClientUpdate struct {
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	DateOfBirth      *time.Time        `json:"dateOfBirth,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	MedicalHistory   *MedicalHistory   `json:"medicalHistory,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

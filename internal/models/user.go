package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient   = "patient"
	RoleCaregiver = "caregiver"
)

// Contact of the person who cares about the patient
type Caregiver struct {
	Name  string
	Email string
	Phone string
}

// Optional user profile. Patients fill it on signup or later with patient details
type Profile struct {
	Phone       string
	Nickname    string
	DateOfBirth *time.Time // nil if not provided
	Address     string
	Interests   []string
	Caregiver   Caregiver
}

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	Profile        Profile
}

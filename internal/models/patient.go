package models

import (
	"errors"
	"time"
)

// Patient is a chronic kidney disease patient record.
type Patient struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	MedicalHistory   []string  `json:"medicalHistory"`
	CKDStage         int       `json:"ckdStage"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

var (
	ErrEmptyFirstName  = errors.New("first name is required")
	ErrEmptyLastName   = errors.New("last name is required")
	ErrZeroDateOfBirth = errors.New("date of birth is required")
	ErrEmptyGender     = errors.New("gender is required")
	ErrInvalidCKDStage = errors.New("ckd stage must be between 1 and 5")
)

// Validate checks that the patient has all required fields.
func (p *Patient) Validate() error {
	if p.FirstName == "" {
		return ErrEmptyFirstName
	}

	if p.LastName == "" {
		return ErrEmptyLastName
	}

	if p.DateOfBirth.IsZero() {
		return ErrZeroDateOfBirth
	}

	if p.Gender == "" {
		return ErrEmptyGender
	}

	if p.CKDStage < 1 || p.CKDStage > 5 {
		return ErrInvalidCKDStage
	}

	return nil
}

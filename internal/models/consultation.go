package models

import (
	"errors"
	"strconv"
	"time"
)

// Consultation records one clinical visit. Creatinine (mg/dL) and
// weight (kg) are carried as decimal strings, matching their exact
// database representation; any vital may be absent.
type Consultation struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	Date        time.Time `json:"date"`
	Creatinine  *string   `json:"creatinine"`
	Weight      *string   `json:"weight"`
	SystolicBP  *int      `json:"systolicBP"`
	DiastolicBP *int      `json:"diastolicBP"`
	Notes       string    `json:"notes,omitempty"`
	DoctorName  string    `json:"doctorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	ErrEmptyPatientID    = errors.New("patient id is required")
	ErrInvalidCreatinine = errors.New("creatinine must be a positive decimal")
	ErrInvalidWeight     = errors.New("weight must be a positive decimal")
	ErrInvalidBP         = errors.New("blood pressure values must be positive")
)

// Validate checks required fields and that the optional vitals parse.
func (c *Consultation) Validate() error {
	if c.PatientID == "" {
		return ErrEmptyPatientID
	}

	if c.Creatinine != nil {
		v, err := strconv.ParseFloat(*c.Creatinine, 64)
		if err != nil || v <= 0 {
			return ErrInvalidCreatinine
		}
	}

	if c.Weight != nil {
		v, err := strconv.ParseFloat(*c.Weight, 64)
		if err != nil || v <= 0 {
			return ErrInvalidWeight
		}
	}

	if c.SystolicBP != nil && *c.SystolicBP <= 0 {
		return ErrInvalidBP
	}
	if c.DiastolicBP != nil && *c.DiastolicBP <= 0 {
		return ErrInvalidBP
	}

	return nil
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"renalert/internal/logger"
	"renalert/internal/models"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

// SeedDemoData loads a small set of demo patients and consultations for
// local development. It is a no-op when patients already exist.
func SeedDemoData(ctx context.Context, store Store) error {
	log := logger.WithComponent("seed")

	existing, err := store.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("check existing patients: %w", err)
	}
	if len(existing) > 0 {
		log.Debug().Msg("patients already present, skipping demo seed")
		return nil
	}

	now := time.Now().UTC()

	patients := []models.Patient{
		{
			ID:               uuid.New().String(),
			FirstName:        "Marie",
			LastName:         "Kouadio",
			DateOfBirth:      time.Date(1965, 3, 15, 0, 0, 0, 0, time.UTC),
			Gender:           "Féminin",
			Phone:            "+225 07 12 34 56 78",
			Email:            "marie.kouadio@email.com",
			Address:          "Abidjan, Cocody",
			EmergencyContact: "Jean Kouadio - 07 23 45 67 89",
			MedicalHistory:   []string{"Diabète type 2", "Hypertension artérielle", "Néphropathie diabétique"},
			CKDStage:         3,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			FirstName:        "Kofi",
			LastName:         "Asante",
			DateOfBirth:      time.Date(1958, 11, 22, 0, 0, 0, 0, time.UTC),
			Gender:           "Masculin",
			Phone:            "+225 05 98 76 54 32",
			Email:            "kofi.asante@email.com",
			Address:          "Abidjan, Treichville",
			EmergencyContact: "Ama Asante - 05 87 65 43 21",
			MedicalHistory:   []string{"Glomérulonéphrite chronique", "Anémie"},
			CKDStage:         4,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			FirstName:        "Fatou",
			LastName:         "Diallo",
			DateOfBirth:      time.Date(1972, 7, 8, 0, 0, 0, 0, time.UTC),
			Gender:           "Féminin",
			Phone:            "+225 01 23 45 67 89",
			Email:            "fatou.diallo@email.com",
			Address:          "Abidjan, Marcory",
			EmergencyContact: "Ibrahim Diallo - 01 34 56 78 90",
			MedicalHistory:   []string{"Polykystose rénale", "Hypertension"},
			CKDStage:         2,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	for i := range patients {
		if err := store.CreatePatient(ctx, &patients[i]); err != nil {
			return fmt.Errorf("seed patient: %w", err)
		}
	}

	consultations := []models.Consultation{
		{
			ID:          uuid.New().String(),
			PatientID:   patients[0].ID,
			Date:        now,
			Creatinine:  strptr("2.8"),
			Weight:      strptr("68.5"),
			SystolicBP:  intptr(165),
			DiastolicBP: intptr(95),
			Notes:       "Patient présente une aggravation de la fonction rénale. Créatinine en hausse significative.",
			DoctorName:  "Dr. Kouakou",
			CreatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			PatientID:   patients[1].ID,
			Date:        now,
			Creatinine:  strptr("3.2"),
			Weight:      strptr("72.1"),
			SystolicBP:  intptr(185),
			DiastolicBP: intptr(110),
			Notes:       "Tension artérielle critique. Ajustement du traitement antihypertenseur recommandé.",
			DoctorName:  "Dr. Kouakou",
			CreatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			PatientID:   patients[2].ID,
			Date:        now,
			Creatinine:  strptr("1.8"),
			Weight:      strptr("65.2"),
			SystolicBP:  intptr(140),
			DiastolicBP: intptr(85),
			Notes:       "Évolution stable. Continuer le traitement actuel et surveillance rapprochée.",
			DoctorName:  "Dr. Kouakou",
			CreatedAt:   now,
		},
	}

	for i := range consultations {
		if err := store.CreateConsultation(ctx, &consultations[i]); err != nil {
			return fmt.Errorf("seed consultation: %w", err)
		}
	}

	log.Info().
		Int("patients", len(patients)).
		Int("consultations", len(consultations)).
		Msg("demo data seeded")
	return nil
}

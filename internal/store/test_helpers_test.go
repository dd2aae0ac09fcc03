package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/citas/internal/domain"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// savedPatient persists a patient with minimal required fields.
func savedPatient(t *testing.T, s *Store, name, nationalID string) *domain.Patient {
	t.Helper()
	p := domain.NewPatient(name, nationalID, 30, "")
	if err := s.SavePatient(context.Background(), p); err != nil {
		t.Fatalf("SavePatient(%s) failed: %v", name, err)
	}
	return p
}

// savedDoctor persists a doctor.
func savedDoctor(t *testing.T, s *Store, name, specialty string) *domain.Doctor {
	t.Helper()
	d := domain.NewDoctor(name, specialty)
	if err := s.SaveDoctor(context.Background(), d); err != nil {
		t.Fatalf("SaveDoctor(%s) failed: %v", name, err)
	}
	return d
}

// savedAppointment persists a scheduled appointment on date.
func savedAppointment(t *testing.T, s *Store, p *domain.Patient, d *domain.Doctor, date string) *domain.Appointment {
	t.Helper()
	a := domain.NewAppointment(p, d, date, "09:00", "control")
	if err := s.SaveAppointment(context.Background(), a); err != nil {
		t.Fatalf("SaveAppointment() failed: %v", err)
	}
	return a
}

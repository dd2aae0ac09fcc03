package clinic

import (
	"context"
	"strings"

	"github.com/roach88/citas/internal/domain"
)

// Patients lists every patient with their history.
func (s *Service) Patients(ctx context.Context) ([]*domain.Patient, error) {
	patients, err := s.store.FindAllPatients(ctx)
	if err != nil {
		s.swallow(err, "list patients")
		return []*domain.Patient{}, err
	}
	return patients, nil
}

// Doctors lists every doctor.
func (s *Service) Doctors(ctx context.Context) ([]*domain.Doctor, error) {
	doctors, err := s.store.FindAllDoctors(ctx)
	if err != nil {
		s.swallow(err, "list doctors")
		return []*domain.Doctor{}, err
	}
	return doctors, nil
}

// Appointments lists every appointment.
func (s *Service) Appointments(ctx context.Context) ([]*domain.Appointment, error) {
	appts, err := s.store.FindAllAppointments(ctx)
	if err != nil {
		s.swallow(err, "list appointments")
		return []*domain.Appointment{}, err
	}
	return appts, nil
}

// AppointmentsOn lists the appointments of one YYYY-MM-DD day.
func (s *Service) AppointmentsOn(ctx context.Context, date string) ([]*domain.Appointment, error) {
	appts, err := s.store.FindAppointmentsByDate(ctx, strings.TrimSpace(date))
	if err != nil {
		s.swallow(err, "list appointments by date")
		return []*domain.Appointment{}, err
	}
	return appts, nil
}

// Patient looks up one patient. A miss yields ErrPatientNotFound.
func (s *Service) Patient(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.store.FindPatientByID(ctx, strings.TrimSpace(id))
	if err != nil {
		s.swallow(err, "find patient")
		return nil, err
	}
	if p == nil {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// Doctor looks up one doctor. A miss yields ErrDoctorNotFound.
func (s *Service) Doctor(ctx context.Context, id string) (*domain.Doctor, error) {
	d, err := s.store.FindDoctorByID(ctx, strings.TrimSpace(id))
	if err != nil {
		s.swallow(err, "find doctor")
		return nil, err
	}
	if d == nil {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

// Appointment looks up one appointment. A miss yields ErrAppointmentNotFound.
func (s *Service) Appointment(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.store.FindAppointmentByID(ctx, strings.TrimSpace(id))
	if err != nil {
		s.swallow(err, "find appointment")
		return nil, err
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// PatientHistory renders the history sheet of one patient.
func (s *Service) PatientHistory(ctx context.Context, id string) (string, error) {
	p, err := s.Patient(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderHistory(p), nil
}

// RenderHistory formats a patient's history sheet.
func RenderHistory(p *domain.Patient) string {
	var b strings.Builder
	b.WriteString("Historial de: " + p.Name + "\n")
	b.WriteString("DNI: " + p.NationalID + "\n")
	b.WriteString("Antecedentes Médicos: " + p.Background() + "\n")
	b.WriteString("--- Entradas ---\n")

	if p.History == nil || len(p.History.Entries) == 0 {
		b.WriteString("No hay entradas en el historial.\n")
		return b.String()
	}
	for _, e := range p.History.Entries {
		b.WriteString(e.String() + "\n")
	}
	return b.String()
}

// AttendedReport renders the attended-patients report.
func (s *Service) AttendedReport(ctx context.Context) (string, error) {
	text, err := s.reports.Attended(ctx)
	if err != nil {
		s.swallow(err, "attended report")
	}
	return text, err
}

// TodayReport renders today's agenda.
func (s *Service) TodayReport(ctx context.Context) (string, error) {
	text, err := s.reports.Today(ctx)
	if err != nil {
		s.swallow(err, "today report")
	}
	return text, err
}

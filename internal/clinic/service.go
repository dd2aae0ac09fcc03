package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roach88/citas/internal/clock"
	"github.com/roach88/citas/internal/config"
	"github.com/roach88/citas/internal/domain"
	"github.com/roach88/citas/internal/report"
	"github.com/roach88/citas/internal/seed"
	"github.com/roach88/citas/internal/store"
)

var (
	// ErrPatientNotFound is returned when a patient ID matches no record.
	ErrPatientNotFound = errors.New("clinic: patient not found")

	// ErrDoctorNotFound is returned when a doctor ID matches no record.
	ErrDoctorNotFound = errors.New("clinic: doctor not found")

	// ErrAppointmentNotFound is returned when an appointment ID matches no record.
	ErrAppointmentNotFound = errors.New("clinic: appointment not found")
)

// Service coordinates the store, the clock and the reports.
type Service struct {
	store   *store.Store
	clock   clock.Clock
	log     zerolog.Logger
	reports *report.Reporter
}

// New wraps an already opened store.
func New(st *store.Store, c clock.Clock, log zerolog.Logger) *Service {
	return &Service{
		store:   st,
		clock:   c,
		log:     log,
		reports: report.New(st, c),
	}
}

// Open connects to the configured database, restores the identifier
// counters and seeds the doctor catalog when enabled.
//
// A database that cannot be opened is logged and the service runs against
// a disconnected store; every later operation then degrades. Only an
// invalid seed catalog is returned as an error.
func Open(ctx context.Context, cfg *config.Config, c clock.Clock, log zerolog.Logger) (*Service, error) {
	st, err := store.Open(cfg.Database)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.Database).Msg("database unavailable, continuing without persistence")
		st = store.Disconnected()
	} else {
		log.Debug().Str("db", cfg.Database).Msg("database connected")
	}

	s := New(st, c, log)
	if err := st.LoadCounters(ctx); err != nil {
		s.swallow(err, "load counters")
	}

	if !cfg.SeedDoctors {
		return s, nil
	}
	catalog, err := seed.Load(cfg.SeedFile)
	if err != nil {
		_ = s.Shutdown(ctx)
		return nil, err
	}
	if _, err := s.SeedDoctors(ctx, catalog); err != nil {
		s.swallow(err, "seed doctors")
	}
	return s, nil
}

// Shutdown persists the identifier counters and closes the connection.
func (s *Service) Shutdown(ctx context.Context) error {
	var saveErr error
	if s.store.Connected() {
		if saveErr = s.store.SaveCounters(ctx); saveErr != nil {
			s.swallow(saveErr, "save counters")
		}
	}
	if err := s.store.Close(); err != nil {
		s.swallow(err, "close database")
		return err
	}
	s.log.Debug().Msg("database closed")
	return saveErr
}

// Connected reports whether the service has a working database.
func (s *Service) Connected() bool {
	return s.store.Connected()
}

// Store exposes the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// swallow logs a persistence failure the caller will degrade on.
func (s *Service) swallow(err error, op string) {
	s.log.Warn().Err(err).Str("op", op).Msg("persistence failure")
}

// RegisterPatient validates the form and saves a new patient.
func (s *Service) RegisterPatient(ctx context.Context, in domain.PatientInput) (*domain.Patient, error) {
	p, err := in.Patient()
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePatient(ctx, p); err != nil {
		s.swallow(err, "save patient")
		return nil, err
	}
	s.log.Info().Str("patient", p.ID).Msg("patient registered")
	return p, nil
}

// AddDoctor saves a new doctor.
func (s *Service) AddDoctor(ctx context.Context, name, specialty string) (*domain.Doctor, error) {
	d := domain.NewDoctor(name, specialty)
	if d.Name == "" || d.Specialty == "" {
		field := "name"
		if d.Name != "" {
			field = "specialty"
		}
		return nil, &domain.ValidationError{Field: field, Message: "Por favor, complete todos los campos obligatorios."}
	}
	if err := s.store.SaveDoctor(ctx, d); err != nil {
		s.swallow(err, "save doctor")
		return nil, err
	}
	s.log.Info().Str("doctor", d.ID).Msg("doctor added")
	return d, nil
}

// SeedDoctors saves the catalog doctors when no doctor exists yet and
// returns those saved.
func (s *Service) SeedDoctors(ctx context.Context, catalog *seed.Catalog) ([]*domain.Doctor, error) {
	existing, err := s.store.FindAllDoctors(ctx)
	if err != nil {
		return []*domain.Doctor{}, err
	}
	if len(existing) > 0 {
		return []*domain.Doctor{}, nil
	}

	saved := []*domain.Doctor{}
	for _, d := range catalog.DomainDoctors() {
		if err := s.store.SaveDoctor(ctx, d); err != nil {
			return saved, fmt.Errorf("seed %s: %w", d.Name, err)
		}
		saved = append(saved, d)
	}
	s.log.Info().Int("doctors", len(saved)).Msg("doctor catalog seeded")
	return saved, nil
}

// ScheduleAppointment validates the form, resolves both parties and saves
// the appointment in the Scheduled state.
func (s *Service) ScheduleAppointment(ctx context.Context, in domain.AppointmentInput) (*domain.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.Patient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	d, err := s.Doctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	a := domain.NewAppointment(p, d, in.Date, in.Time, in.Reason)
	if err := s.store.SaveAppointment(ctx, a); err != nil {
		s.swallow(err, "save appointment")
		return nil, err
	}
	s.log.Info().Str("appointment", a.ID).Str("date", a.Date).Msg("appointment scheduled")
	return a, nil
}

// CompleteAppointment marks a scheduled appointment Completed and appends
// "Cita realizada con <doctor> por <reason>" to the patient's history,
// dated today.
//
// An appointment that is already Completed yields domain.ErrAlreadyCompleted
// and the history is left alone.
func (s *Service) CompleteAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.Appointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Complete(); err != nil {
		return a, err
	}
	if err := s.store.SaveAppointment(ctx, a); err != nil {
		s.swallow(err, "save appointment")
		return a, err
	}

	if a.Patient != nil {
		note := fmt.Sprintf("Cita realizada con %s por %s", a.DoctorName("N/D"), a.Reason)
		a.Patient.History.Add(note, s.clock.Now())
		if err := s.store.SavePatient(ctx, a.Patient); err != nil {
			s.swallow(err, "save patient history")
			return a, err
		}
	}
	s.log.Info().Str("appointment", a.ID).Msg("appointment completed")
	return a, nil
}

// CancelAppointment marks a scheduled appointment Cancelled.
//
// An appointment that is already Cancelled yields
// domain.ErrAlreadyCancelled; a Completed one yields a
// *domain.TransitionError.
func (s *Service) CancelAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.Appointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Cancel(); err != nil {
		return a, err
	}
	if err := s.store.SaveAppointment(ctx, a); err != nil {
		s.swallow(err, "save appointment")
		return a, err
	}
	s.log.Info().Str("appointment", a.ID).Msg("appointment cancelled")
	return a, nil
}

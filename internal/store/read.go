package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/citas/internal/domain"
)

// byIDSuffix orders P<n>/M<n>/C<n> identifiers numerically, so P10 sorts
// after P9.
const byIDSuffix = `CAST(SUBSTR(id, 2) AS INTEGER) ASC, id ASC`

// FindAllPatients returns every patient with its history attached.
// Results are ordered by identifier sequence; history entries by date, then ID.
//
// Returns an empty slice (not nil) if there are no patients.
func (s *Store) FindAllPatients(ctx context.Context) ([]*domain.Patient, error) {
	if s.db == nil {
		return []*domain.Patient{}, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, national_id, age, background_text
		FROM patients
		ORDER BY `+byIDSuffix)
	if err != nil {
		return []*domain.Patient{}, fmt.Errorf("query patients: %w", err)
	}

	patients, err := collectPatients(rows)
	if err != nil {
		return []*domain.Patient{}, err
	}

	// Rows are closed before loading history: the pool holds one connection.
	byID := make(map[string]*domain.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}
	if err := s.attachHistory(ctx, byID, ""); err != nil {
		return []*domain.Patient{}, err
	}

	return patients, nil
}

// FindPatientByID retrieves a single patient with its history.
// Returns (nil, nil) if no patient has that identifier.
func (s *Store) FindPatientByID(ctx context.Context, id string) (*domain.Patient, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	p, err := scanPatient(s.db.QueryRowContext(ctx, `
		SELECT id, name, national_id, age, background_text
		FROM patients
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find patient %s: %w", id, err)
	}

	if err := s.attachHistory(ctx, map[string]*domain.Patient{p.ID: p}, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// attachHistory loads history entries and appends them to the matching
// patients. An empty patientID loads entries for every patient.
func (s *Store) attachHistory(ctx context.Context, patients map[string]*domain.Patient, patientID string) error {
	query := `
		SELECT id, patient_id, date, description
		FROM history_entries`
	var args []any
	if patientID != "" {
		query += ` WHERE patient_id = ?`
		args = append(args, patientID)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query history entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		entry := &domain.HistoryEntry{}
		if err := rows.Scan(&entry.ID, &owner, &entry.Date, &entry.Description); err != nil {
			return fmt.Errorf("scan history entry: %w", err)
		}
		if p, ok := patients[owner]; ok {
			p.History.AddLoaded(entry)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate history entries: %w", err)
	}
	return nil
}

// FindAllDoctors returns every doctor ordered by identifier sequence.
//
// Returns an empty slice (not nil) if there are no doctors.
func (s *Store) FindAllDoctors(ctx context.Context) ([]*domain.Doctor, error) {
	if s.db == nil {
		return []*domain.Doctor{}, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, specialty
		FROM doctors
		ORDER BY `+byIDSuffix)
	if err != nil {
		return []*domain.Doctor{}, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	doctors := []*domain.Doctor{}
	for rows.Next() {
		d := &domain.Doctor{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty); err != nil {
			return []*domain.Doctor{}, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	if err := rows.Err(); err != nil {
		return []*domain.Doctor{}, fmt.Errorf("iterate doctors: %w", err)
	}
	return doctors, nil
}

// FindDoctorByID retrieves a single doctor.
// Returns (nil, nil) if no doctor has that identifier.
func (s *Store) FindDoctorByID(ctx context.Context, id string) (*domain.Doctor, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	d := &domain.Doctor{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, specialty
		FROM doctors
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Specialty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor %s: %w", id, err)
	}
	return d, nil
}

// FindAllAppointments returns every appointment with its patient and doctor
// resolved from the current rows. Appointments whose patient or doctor no
// longer resolves are skipped.
func (s *Store) FindAllAppointments(ctx context.Context) ([]*domain.Appointment, error) {
	if s.db == nil {
		return []*domain.Appointment{}, ErrNotConnected
	}
	return s.queryAppointments(ctx, `
		SELECT id, patient_id, doctor_id, date, time, reason, status
		FROM appointments
		ORDER BY `+byIDSuffix)
}

// FindAppointmentsByDate returns the appointments whose date equals date
// exactly, ordered by time and then identifier sequence.
func (s *Store) FindAppointmentsByDate(ctx context.Context, date string) ([]*domain.Appointment, error) {
	if s.db == nil {
		return []*domain.Appointment{}, ErrNotConnected
	}
	return s.queryAppointments(ctx, `
		SELECT id, patient_id, doctor_id, date, time, reason, status
		FROM appointments
		WHERE date = ?
		ORDER BY time ASC, `+byIDSuffix, date)
}

// FindAppointmentByID retrieves a single hydrated appointment.
// Returns (nil, nil) if it does not exist or its references do not resolve.
func (s *Store) FindAppointmentByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}
	appts, err := s.queryAppointments(ctx, `
		SELECT id, patient_id, doctor_id, date, time, reason, status
		FROM appointments
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, nil
	}
	return appts[0], nil
}

// appointmentRow is an appointment as stored, before reference resolution.
type appointmentRow struct {
	id, patientID, doctorID string
	date, time, reason      string
	status                  string
}

func (s *Store) queryAppointments(ctx context.Context, query string, args ...any) ([]*domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return []*domain.Appointment{}, fmt.Errorf("query appointments: %w", err)
	}

	var raw []appointmentRow
	for rows.Next() {
		var r appointmentRow
		if err := rows.Scan(&r.id, &r.patientID, &r.doctorID, &r.date, &r.time, &r.reason, &r.status); err != nil {
			rows.Close()
			return []*domain.Appointment{}, fmt.Errorf("scan appointment: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return []*domain.Appointment{}, fmt.Errorf("iterate appointments: %w", err)
	}
	rows.Close()

	res := newResolver(s)
	appts := []*domain.Appointment{}
	for _, r := range raw {
		status, err := domain.ParseStatus(r.status)
		if err != nil {
			return []*domain.Appointment{}, fmt.Errorf("appointment %s: %w", r.id, err)
		}
		patient, err := res.patient(ctx, r.patientID)
		if err != nil {
			return []*domain.Appointment{}, err
		}
		doctor, err := res.doctor(ctx, r.doctorID)
		if err != nil {
			return []*domain.Appointment{}, err
		}
		if patient == nil || doctor == nil {
			continue
		}
		appts = append(appts, &domain.Appointment{
			ID:      r.id,
			Patient: patient,
			Doctor:  doctor,
			Date:    r.date,
			Time:    r.time,
			Reason:  r.reason,
			Status:  status,
		})
	}
	return appts, nil
}

// resolver looks up patients and doctors by ID for the duration of one
// read. It is never reused across calls, so results always reflect the
// rows as they are now.
type resolver struct {
	s        *Store
	patients map[string]*domain.Patient
	doctors  map[string]*domain.Doctor
}

func newResolver(s *Store) *resolver {
	return &resolver{
		s:        s,
		patients: make(map[string]*domain.Patient),
		doctors:  make(map[string]*domain.Doctor),
	}
}

func (r *resolver) patient(ctx context.Context, id string) (*domain.Patient, error) {
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	p, err := r.s.FindPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.patients[id] = p
	return p, nil
}

func (r *resolver) doctor(ctx context.Context, id string) (*domain.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	d, err := r.s.FindDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.doctors[id] = d
	return d, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPatient scans a patient row and gives it an empty owned History.
func scanPatient(row rowScanner) (*domain.Patient, error) {
	var (
		p          domain.Patient
		background string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.NationalID, &p.Age, &background); err != nil {
		return nil, err
	}
	h := domain.NewHistory(p.ID)
	h.Background = background
	p.SetHistory(h)
	return &p, nil
}

func collectPatients(rows *sql.Rows) ([]*domain.Patient, error) {
	defer rows.Close()

	patients := []*domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}

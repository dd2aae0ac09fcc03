package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/citas/internal/domain"
)

// SavePatient inserts or overwrites a patient row, assigning a P<n>
// identifier first if the patient has none, then inserts every history
// entry that has no ID yet and stamps it with the AUTOINCREMENT value.
//
// Entries that already carry an ID are never rewritten (append-only).
// Another patient with the same national ID yields ErrDuplicateNationalID.
func (s *Store) SavePatient(ctx context.Context, p *domain.Patient) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if p.History == nil {
		p.SetHistory(domain.NewHistory(p.ID))
	}

	assigned := false
	if p.ID == "" {
		p.SetID(s.counters.NextID(KindPatient))
		assigned = true
	}

	if err := s.writePatient(ctx, p); err != nil {
		if assigned {
			p.SetID("")
		}
		return err
	}
	return nil
}

func (s *Store) writePatient(ctx context.Context, p *domain.Patient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save patient: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (id, name, national_id, age, background_text)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			national_id = excluded.national_id,
			age = excluded.age,
			background_text = excluded.background_text
	`,
		p.ID,
		p.Name,
		p.NationalID,
		p.Age,
		p.Background(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save patient %s: %w", p.ID, ErrDuplicateNationalID)
		}
		return fmt.Errorf("save patient %s: %w", p.ID, err)
	}

	// IDs are stamped only after commit so a failed save leaves the
	// entries pending.
	pending := p.History.Pending()
	ids := make([]int64, len(pending))
	for i, entry := range pending {
		id, err := insertHistoryEntry(ctx, tx, p.ID, entry)
		if err != nil {
			return fmt.Errorf("save patient %s: %w", p.ID, err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save patient %s: commit: %w", p.ID, err)
	}

	for i, entry := range pending {
		entry.ID = ids[i]
		s.counters.Restore(KindHistory, ids[i])
	}
	return nil
}

// insertHistoryEntry appends one history row and returns its AUTOINCREMENT ID.
func insertHistoryEntry(ctx context.Context, tx *sql.Tx, patientID string, entry *domain.HistoryEntry) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO history_entries (patient_id, date, description)
		VALUES (?, ?, ?)
	`,
		patientID,
		entry.Date,
		entry.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert history entry: last insert id: %w", err)
	}
	return id, nil
}

// SaveDoctor inserts or overwrites a doctor row, assigning an M<n>
// identifier first if the doctor has none.
func (s *Store) SaveDoctor(ctx context.Context, d *domain.Doctor) error {
	if s.db == nil {
		return ErrNotConnected
	}

	assigned := false
	if d.ID == "" {
		d.ID = s.counters.NextID(KindDoctor)
		assigned = true
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctors (id, name, specialty)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			specialty = excluded.specialty
	`,
		d.ID,
		d.Name,
		d.Specialty,
	)
	if err != nil {
		if assigned {
			d.ID = ""
		}
		return fmt.Errorf("save doctor: %w", err)
	}
	return nil
}

// SaveAppointment inserts or overwrites an appointment row, assigning a C<n>
// identifier first if the appointment has none.
//
// The referenced patient and doctor must already be persisted; otherwise
// ErrUnsavedReference is returned and nothing is written.
func (s *Store) SaveAppointment(ctx context.Context, a *domain.Appointment) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if a.Patient == nil || a.Patient.ID == "" {
		return fmt.Errorf("save appointment: patient: %w", ErrUnsavedReference)
	}
	if a.Doctor == nil || a.Doctor.ID == "" {
		return fmt.Errorf("save appointment: doctor: %w", ErrUnsavedReference)
	}

	assigned := false
	if a.ID == "" {
		a.ID = s.counters.NextID(KindAppointment)
		assigned = true
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, reason, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_id = excluded.patient_id,
			doctor_id = excluded.doctor_id,
			date = excluded.date,
			time = excluded.time,
			reason = excluded.reason,
			status = excluded.status
	`,
		a.ID,
		a.Patient.ID,
		a.Doctor.ID,
		a.Date,
		a.Time,
		a.Reason,
		string(a.Status),
	)
	if err != nil {
		if assigned {
			a.ID = ""
		}
		return fmt.Errorf("save appointment: %w", err)
	}
	return nil
}

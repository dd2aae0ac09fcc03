package clinic

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/citas/internal/config"
	"github.com/roach88/citas/internal/domain"
	"github.com/roach88/citas/internal/seed"
	"github.com/roach88/citas/internal/store"
	"github.com/roach88/citas/internal/testutil"
)

const testDay = "2025-01-10"

func newTestService(t *testing.T) (*Service, *testutil.DeterministicClock) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "citas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clk := testutil.NewDeterministicClockOn(testDay)
	return New(st, clk, zerolog.Nop()), clk
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database:  filepath.Join(t.TempDir(), "citas.db"),
		LogLevel:  "debug",
		LogFormat: "json",
	}
}

func register(t *testing.T, s *Service, name, nationalID, background string) *domain.Patient {
	t.Helper()
	p, err := s.RegisterPatient(context.Background(), domain.PatientInput{
		Name:       name,
		NationalID: nationalID,
		Age:        "40",
		Background: background,
	})
	require.NoError(t, err)
	return p
}

func addDoctor(t *testing.T, s *Service, name, specialty string) *domain.Doctor {
	t.Helper()
	d, err := s.AddDoctor(context.Background(), name, specialty)
	require.NoError(t, err)
	return d
}

func schedule(t *testing.T, s *Service, p *domain.Patient, d *domain.Doctor, date, clock, reason string) *domain.Appointment {
	t.Helper()
	a, err := s.ScheduleAppointment(context.Background(), domain.AppointmentInput{
		PatientID: p.ID,
		DoctorID:  d.ID,
		Date:      date,
		Time:      clock,
		Reason:    reason,
	})
	require.NoError(t, err)
	return a
}

func TestRegisterPatient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	p := register(t, s, "Ana Ruiz", "12345678A", "diabetes")
	assert.Equal(t, "P1", p.ID)

	patients, err := s.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ana Ruiz", patients[0].Name)
	assert.Equal(t, "diabetes", patients[0].Background())

	// Saving again keeps the identifier.
	patients[0].Age = 41
	require.NoError(t, s.Store().SavePatient(ctx, patients[0]))
	assert.Equal(t, "P1", patients[0].ID)

	again, err := s.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, 41, again[0].Age)
}

func TestRegisterPatient_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.RegisterPatient(ctx, domain.PatientInput{Name: "Ana", NationalID: "1", Age: "cuarenta"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Edad debe ser un número válido.", verr.Message)

	_, err = s.RegisterPatient(ctx, domain.PatientInput{Name: " ", NationalID: "1", Age: "3"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Por favor, complete todos los campos obligatorios.", verr.Message)

	patients, err := s.Patients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestRegisterPatient_DuplicateNationalID(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s, "Ana Ruiz", "12345678A", "")

	_, err := s.RegisterPatient(context.Background(), domain.PatientInput{
		Name: "Otra Ana", NationalID: "12345678A", Age: "30",
	})
	assert.ErrorIs(t, err, store.ErrDuplicateNationalID)
}

func TestAddDoctor_RequiresFields(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.AddDoctor(context.Background(), "Dr. X", "  ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "specialty", verr.Field)

	d := addDoctor(t, s, "Dr. X", "General")
	assert.Equal(t, "M1", d.ID)
}

func TestScheduleAppointment_Scheduled(t *testing.T) {
	s, _ := newTestService(t)
	p := register(t, s, "Ana Ruiz", "12345678A", "diabetes")
	d := addDoctor(t, s, "Dr. X", "General")

	a := schedule(t, s, p, d, "2025-01-10", "09:00", "checkup")

	assert.Equal(t, "C1", a.ID)
	assert.Equal(t, domain.StatusScheduled, a.Status)

	stored, err := s.Appointment(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, stored.Status)
	assert.Equal(t, "Ana Ruiz", stored.Patient.Name)
	assert.Equal(t, "Dr. X", stored.Doctor.Name)
	assert.Equal(t, "checkup", stored.Reason)
}

func TestScheduleAppointment_UnknownParties(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	p := register(t, s, "Ana Ruiz", "12345678A", "")
	d := addDoctor(t, s, "Dr. X", "General")

	_, err := s.ScheduleAppointment(ctx, domain.AppointmentInput{
		PatientID: "P99", DoctorID: d.ID, Date: testDay, Time: "09:00", Reason: "x",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = s.ScheduleAppointment(ctx, domain.AppointmentInput{
		PatientID: p.ID, DoctorID: "M99", Date: testDay, Time: "09:00", Reason: "x",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = s.ScheduleAppointment(ctx, domain.AppointmentInput{
		PatientID: p.ID, DoctorID: d.ID, Date: "10/01/2025", Time: "09:00", Reason: "x",
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestCompleteAppointment_AppendsOneHistoryEntry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	p := register(t, s, "Ana Ruiz", "12345678A", "diabetes")
	d := addDoctor(t, s, "Dr. X", "General")
	a := schedule(t, s, p, d, "2025-01-15", "09:00", "checkup")

	done, err := s.CompleteAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	stored, err := s.Patient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.History.Entries, 1)
	assert.Equal(t, testDay, stored.History.Entries[0].Date)
	assert.Equal(t, "Cita realizada con Dr. X por checkup", stored.History.Entries[0].Description)

	// Completing again changes nothing.
	_, err = s.CompleteAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	stored, err = s.Patient(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History.Entries, 1)
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	p := register(t, s, "Ana Ruiz", "12345678A", "")
	d := addDoctor(t, s, "Dr. X", "General")

	t.Run("scheduled is cancelled once", func(t *testing.T) {
		a := schedule(t, s, p, d, testDay, "09:00", "control")

		cancelled, err := s.CancelAppointment(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, cancelled.Status)

		_, err = s.CancelAppointment(ctx, a.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		a := schedule(t, s, p, d, testDay, "10:00", "control")
		_, err := s.CompleteAppointment(ctx, a.ID)
		require.NoError(t, err)

		_, err = s.CancelAppointment(ctx, a.ID)
		var terr *domain.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, domain.StatusCompleted, terr.From)

		stored, err := s.Appointment(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, stored.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.CancelAppointment(ctx, "C404")
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestAttendedReport_Totals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	ana := register(t, s, "Ana Ruiz", "1A", "")
	beto := register(t, s, "Beto Díaz", "2B", "")
	d := addDoctor(t, s, "Dr. X", "General")

	for _, p := range []*domain.Patient{ana, ana, beto} {
		a := schedule(t, s, p, d, testDay, "09:00", "control")
		_, err := s.CompleteAppointment(ctx, a.ID)
		require.NoError(t, err)
	}
	schedule(t, s, beto, d, testDay, "11:00", "control")

	text, err := s.AttendedReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Total de citas realizadas: 3\n")
	assert.Contains(t, text, "Total de pacientes únicos atendidos: 2\n")
	assert.Contains(t, text, " - Ana Ruiz (ID: P1)\n - Beto Díaz (ID: P2)\n")
}

func TestTodayReport_OnlyToday(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestService(t)
	p := register(t, s, "Ana Ruiz", "1A", "")
	d := addDoctor(t, s, "Dr. X", "General")

	today := schedule(t, s, p, d, "2025-01-10", "09:00", "hoy")
	tomorrow := schedule(t, s, p, d, "2025-01-11", "09:00", "mañana")

	text, err := s.TodayReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "(2025-01-10)")
	assert.Contains(t, text, "Total de citas programadas para hoy: 1\n")
	assert.Contains(t, text, "Cita ID: "+today.ID+"\n")
	assert.NotContains(t, text, "Cita ID: "+tomorrow.ID+"\n")

	clk.Advance(24 * time.Hour)
	text, err = s.TodayReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Cita ID: "+tomorrow.ID+"\n")
	assert.NotContains(t, text, "Cita ID: "+today.ID+"\n")
}

func TestPatientHistory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	p := register(t, s, "Ana Ruiz", "1A", "asma")
	d := addDoctor(t, s, "Dr. X", "General")

	text, err := s.PatientHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Historial de: Ana Ruiz\nDNI: 1A\nAntecedentes Médicos: asma\n--- Entradas ---\nNo hay entradas en el historial.\n", text)

	a := schedule(t, s, p, d, testDay, "09:00", "control")
	_, err = s.CompleteAppointment(ctx, a.ID)
	require.NoError(t, err)

	text, err = s.PatientHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(text, "--- Entradas ---\n2025-01-10: Cita realizada con Dr. X por control\n"), text)

	_, err = s.PatientHistory(ctx, "P404")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestOpen_CountersSurviveRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	clk := testutil.NewDeterministicClockOn(testDay)

	s, err := Open(ctx, cfg, clk, zerolog.Nop())
	require.NoError(t, err)
	p := register(t, s, "Ana Ruiz", "1A", "")
	d := addDoctor(t, s, "Dr. X", "General")
	a := schedule(t, s, p, d, testDay, "09:00", "control")
	require.NoError(t, s.Shutdown(ctx))

	s, err = Open(ctx, cfg, clk, zerolog.Nop())
	require.NoError(t, err)
	defer s.Shutdown(ctx)

	p2 := register(t, s, "Beto Díaz", "2B", "")
	d2 := addDoctor(t, s, "Dra. Y", "Pediatría")
	a2 := schedule(t, s, p2, d2, testDay, "10:00", "control")

	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, "P2", p2.ID)
	assert.Equal(t, "M2", d2.ID)
	assert.Equal(t, "C1", a.ID)
	assert.Equal(t, "C2", a2.ID)
}

func TestOpen_SeedsDoctorsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.SeedDoctors = true
	clk := testutil.NewDeterministicClockOn(testDay)

	for i := 0; i < 2; i++ {
		s, err := Open(ctx, cfg, clk, zerolog.Nop())
		require.NoError(t, err)

		doctors, err := s.Doctors(ctx)
		require.NoError(t, err)
		require.Len(t, doctors, 2)
		assert.Equal(t, "Dr. Juan Pérez", doctors[0].Name)
		assert.Equal(t, "Pediatría", doctors[1].Specialty)
		require.NoError(t, s.Shutdown(ctx))
	}
}

func TestOpen_InvalidSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedDoctors = true
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Open(context.Background(), cfg, testutil.NewDeterministicClockOn(testDay), zerolog.Nop())
	assert.Error(t, err)
}

func TestSeedDoctors_SkipsWhenDoctorsExist(t *testing.T) {
	s, _ := newTestService(t)
	addDoctor(t, s, "Dr. X", "General")

	saved, err := s.SeedDoctors(context.Background(), seed.Default())
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestOpen_DegradedWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Database = filepath.Join(t.TempDir(), "missing", "dir", "citas.db")
	cfg.SeedDoctors = true

	var logs bytes.Buffer
	s, err := Open(ctx, cfg, testutil.NewDeterministicClockOn(testDay), zerolog.New(&logs))
	require.NoError(t, err)
	assert.False(t, s.Connected())

	patients, err := s.Patients(ctx)
	assert.ErrorIs(t, err, store.ErrNotConnected)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)

	text, err := s.AttendedReport(ctx)
	assert.True(t, errors.Is(err, store.ErrNotConnected))
	assert.Contains(t, text, "No hay citas marcadas como 'Realizada' todavía.")

	_, err = s.RegisterPatient(ctx, domain.PatientInput{Name: "Ana", NationalID: "1", Age: "3"})
	assert.ErrorIs(t, err, store.ErrNotConnected)

	assert.Contains(t, logs.String(), "database unavailable")
	assert.Contains(t, logs.String(), "persistence failure")
	assert.NoError(t, s.Shutdown(ctx))
}

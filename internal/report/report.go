// Package report renders the two canned reports over appointments.
//
// Both reports are read-only: they fetch appointments from a Source and
// return display text. Nothing is written.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/citas/internal/clock"
	"github.com/roach88/citas/internal/domain"
)

const rule = "---------------------------------------------------\n"

// Source is the read side of the store the reports need.
type Source interface {
	FindAllAppointments(ctx context.Context) ([]*domain.Appointment, error)
	FindAppointmentsByDate(ctx context.Context, date string) ([]*domain.Appointment, error)
}

// Reporter generates report text from a Source.
type Reporter struct {
	src   Source
	clock clock.Clock
}

// New creates a Reporter. clock decides what "today" is.
func New(src Source, c clock.Clock) *Reporter {
	return &Reporter{src: src, clock: c}
}

// Attended renders the attended-patients report. On a read failure the
// report is rendered over no appointments and the error is returned too.
func (r *Reporter) Attended(ctx context.Context) (string, error) {
	appts, err := r.src.FindAllAppointments(ctx)
	if err != nil {
		appts = nil
	}
	return RenderAttended(appts), err
}

// Today renders the agenda of the clock's current day. On a read failure
// the report is rendered over no appointments and the error is returned too.
func (r *Reporter) Today(ctx context.Context) (string, error) {
	date := clock.Today(r.clock)
	appts, err := r.src.FindAppointmentsByDate(ctx, date)
	if err != nil {
		appts = nil
	}
	return RenderToday(date, appts), err
}

// AttendedSummary is the structured content of the attended-patients report.
type AttendedSummary struct {
	Completed int
	Patients  []*domain.Patient
}

// SummarizeAttended counts completed appointments and the distinct patients
// among them, distinct by ID, in order of first appearance.
func SummarizeAttended(appts []*domain.Appointment) AttendedSummary {
	var sum AttendedSummary
	seen := make(map[string]bool)
	for _, a := range appts {
		if a.Status != domain.StatusCompleted {
			continue
		}
		sum.Completed++
		if a.Patient == nil || seen[a.Patient.ID] {
			continue
		}
		seen[a.Patient.ID] = true
		sum.Patients = append(sum.Patients, a.Patient)
	}
	return sum
}

// RenderAttended formats the attended-patients report.
func RenderAttended(appts []*domain.Appointment) string {
	sum := SummarizeAttended(appts)

	var b strings.Builder
	b.WriteString("--- Reporte de Pacientes Atendidos ---\n")
	fmt.Fprintf(&b, "Total de citas realizadas: %d\n", sum.Completed)
	fmt.Fprintf(&b, "Total de pacientes únicos atendidos: %d\n", len(sum.Patients))
	b.WriteString(rule)

	if sum.Completed == 0 {
		b.WriteString("No hay citas marcadas como 'Realizada' todavía.\n")
		return b.String()
	}

	b.WriteString("Lista de pacientes con citas realizadas:\n")
	for _, p := range sum.Patients {
		fmt.Fprintf(&b, " - %s (ID: %s)\n", p.Name, p.ID)
	}
	return b.String()
}

// StatusLabel is the display-only label of a status in the daily agenda.
func StatusLabel(s domain.Status) string {
	switch s {
	case domain.StatusCompleted:
		return "COMPLETED!"
	case domain.StatusCancelled:
		return "CANCELLED"
	default:
		return "Scheduled"
	}
}

// RenderToday formats the agenda of date.
func RenderToday(date string, appts []*domain.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Reporte de Citas Programadas para Hoy (%s) ---\n", date)
	fmt.Fprintf(&b, "Total de citas programadas para hoy: %d\n", len(appts))
	b.WriteString(rule)

	if len(appts) == 0 {
		b.WriteString("No hay citas programadas para hoy.\n")
		return b.String()
	}

	for _, a := range appts {
		fmt.Fprintf(&b, "Cita ID: %s\n", a.ID)
		fmt.Fprintf(&b, "  Paciente: %s\n", a.PatientName("Paciente Desconocido"))
		fmt.Fprintf(&b, "  Médico: %s\n", a.DoctorName("Médico Desconocido"))
		fmt.Fprintf(&b, "  Hora: %s\n", a.Time)
		fmt.Fprintf(&b, "  Motivo: %s\n", a.Reason)
		fmt.Fprintf(&b, "  Estado: %s\n", StatusLabel(a.Status))
		b.WriteString(rule)
	}
	return b.String()
}

package harness

import (
	"context"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// evaluate checks one assertion against the book.
func (h *Harness) evaluate(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertAppointmentStatus:
		appt, err := h.svc.Appointment(ctx, a.ID)
		if err != nil {
			return fail(a, "appointment "+a.ID+" "+a.Status, err.Error())
		}
		if string(appt.Status) != a.Status {
			return fail(a, "appointment "+a.ID+" "+a.Status, string(appt.Status))
		}

	case AssertHistoryCount, AssertHistoryContains:
		p, err := h.svc.Patient(ctx, a.ID)
		if err != nil {
			return fail(a, "patient "+a.ID, err.Error())
		}
		entries := p.History.Entries
		if a.Type == AssertHistoryCount {
			if len(entries) != *a.Count {
				return fail(a, fmt.Sprintf("%d entries", *a.Count), fmt.Sprintf("%d entries", len(entries)))
			}
			return nil
		}
		for _, e := range entries {
			if strings.Contains(e.Description, a.Text) {
				return nil
			}
		}
		return fail(a, fmt.Sprintf("entry containing %q", a.Text), fmt.Sprintf("%d entries without it", len(entries)))

	case AssertReportContains, AssertReportExcludes:
		text, err := h.report(ctx, a.Report)
		if err != nil {
			return fail(a, a.Report+" report", err.Error())
		}
		found := strings.Contains(text, a.Text)
		if a.Type == AssertReportContains && !found {
			return fail(a, fmt.Sprintf("%s report contains %q", a.Report, a.Text), text)
		}
		if a.Type == AssertReportExcludes && found {
			return fail(a, fmt.Sprintf("%s report without %q", a.Report, a.Text), text)
		}

	case AssertPatientCount, AssertDoctorCount, AssertAppointmentCount:
		n, err := h.count(ctx, a.Type)
		if err != nil {
			return fail(a, fmt.Sprintf("%d records", *a.Count), err.Error())
		}
		if n != *a.Count {
			return fail(a, fmt.Sprintf("%d records", *a.Count), fmt.Sprintf("%d records", n))
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func (h *Harness) report(ctx context.Context, name string) (string, error) {
	if name == ReportToday {
		return h.svc.TodayReport(ctx)
	}
	return h.svc.AttendedReport(ctx)
}

func (h *Harness) count(ctx context.Context, kind string) (int, error) {
	switch kind {
	case AssertPatientCount:
		ps, err := h.svc.Patients(ctx)
		return len(ps), err
	case AssertDoctorCount:
		ds, err := h.svc.Doctors(ctx)
		return len(ds), err
	default:
		as, err := h.svc.Appointments(ctx)
		return len(as), err
	}
}

func fail(a Assertion, expected, actual string) error {
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
}

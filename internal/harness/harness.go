package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/citas/internal/clinic"
	"github.com/roach88/citas/internal/config"
	"github.com/roach88/citas/internal/domain"
	"github.com/roach88/citas/internal/store"
	"github.com/roach88/citas/internal/testutil"
)

// Report names used by report assertions and Result.Reports.
const (
	ReportAttended = "attended"
	ReportToday    = "today"
)

// Error kinds a step can be expected to produce.
const (
	ErrKindValidation       = "validation"
	ErrKindNotFound         = "not_found"
	ErrKindAlreadyCompleted = "already_completed"
	ErrKindAlreadyCancelled = "already_cancelled"
	ErrKindTransition       = "transition"
	ErrKindDuplicate        = "duplicate"
	ErrKindStorage          = "storage"
)

func isErrorKind(kind string) bool {
	switch kind {
	case ErrKindValidation, ErrKindNotFound, ErrKindAlreadyCompleted, ErrKindAlreadyCancelled,
		ErrKindTransition, ErrKindDuplicate, ErrKindStorage:
		return true
	}
	return false
}

// ErrorKind classifies a service error.
func ErrorKind(err error) string {
	var verr *domain.ValidationError
	var terr *domain.TransitionError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return ErrKindValidation
	case errors.Is(err, clinic.ErrPatientNotFound),
		errors.Is(err, clinic.ErrDoctorNotFound),
		errors.Is(err, clinic.ErrAppointmentNotFound):
		return ErrKindNotFound
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return ErrKindAlreadyCompleted
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return ErrKindAlreadyCancelled
	case errors.As(err, &terr):
		return ErrKindTransition
	case errors.Is(err, store.ErrDuplicateNationalID):
		return ErrKindDuplicate
	default:
		return ErrKindStorage
	}
}

// Harness is the scenario execution engine. It owns one book for the
// duration of a scenario.
type Harness struct {
	cfg   *config.Config
	clock *testutil.DeterministicClock
	svc   *clinic.Service
}

// Run executes a scenario in a fresh temporary database and returns the
// result. The returned error is reserved for infrastructure failures; step
// and assertion mismatches are reported through Result.
//
// Execution flow:
// 1. Create a temporary database and a clock stopped on scenario.Today
// 2. Execute steps, checking each expect clause
// 3. Evaluate assertions
// 4. Render the final reports
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "citas-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	h := &Harness{
		cfg: &config.Config{
			Database:    filepath.Join(dir, "citas.db"),
			LogLevel:    "disabled",
			LogFormat:   "json",
			SeedDoctors: scenario.SeedDoctors,
		},
		clock: testutil.NewDeterministicClockOn(scenario.Today),
	}

	ctx := context.Background()
	if err := h.open(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = h.svc.Shutdown(ctx) }()

	result := NewResult()
	for i, step := range scenario.Steps {
		event, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
		event.Seq = i + 1
		result.Trace = append(result.Trace, event)
		checkExpect(result, event, step.Expect)
	}

	for _, a := range scenario.Assertions {
		if err := h.evaluate(ctx, a); err != nil {
			result.AddError(err.Error())
		}
	}

	result.Reports[ReportAttended], _ = h.svc.AttendedReport(ctx)
	result.Reports[ReportToday], _ = h.svc.TodayReport(ctx)
	return result, nil
}

func (h *Harness) open(ctx context.Context) error {
	svc, err := clinic.Open(ctx, h.cfg, h.clock, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("failed to open book: %w", err)
	}
	if !svc.Connected() {
		return fmt.Errorf("failed to open book: database %s unavailable", h.cfg.Database)
	}
	h.svc = svc
	return nil
}

// execute runs one step. Service errors become part of the event; only
// harness failures are returned.
func (h *Harness) execute(ctx context.Context, step Step) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op}
	args := step.Args

	switch step.Op {
	case OpRegisterPatient:
		p, err := h.svc.RegisterPatient(ctx, domain.PatientInput{
			Name:       args["name"],
			NationalID: args["dni"],
			Age:        args["age"],
			Background: args["background"],
		})
		if err != nil {
			event.Error = ErrorKind(err)
			break
		}
		event.ID = p.ID

	case OpAddDoctor:
		d, err := h.svc.AddDoctor(ctx, args["name"], args["specialty"])
		if err != nil {
			event.Error = ErrorKind(err)
			break
		}
		event.ID = d.ID

	case OpSchedule:
		a, err := h.svc.ScheduleAppointment(ctx, domain.AppointmentInput{
			PatientID: args["patient"],
			DoctorID:  args["doctor"],
			Date:      args["date"],
			Time:      args["time"],
			Reason:    args["reason"],
		})
		if err != nil {
			event.Error = ErrorKind(err)
			break
		}
		event.ID, event.Status = a.ID, string(a.Status)

	case OpComplete, OpCancel:
		change := h.svc.CompleteAppointment
		if step.Op == OpCancel {
			change = h.svc.CancelAppointment
		}
		a, err := change(ctx, args["id"])
		if err != nil {
			event.Error = ErrorKind(err)
			break
		}
		event.ID, event.Status = a.ID, string(a.Status)

	case OpAdvanceDays:
		days, err := strconv.Atoi(args["days"])
		if err != nil {
			return event, fmt.Errorf("days: %w", err)
		}
		h.clock.Advance(time.Duration(days) * 24 * time.Hour)

	case OpRestart:
		if err := h.svc.Shutdown(ctx); err != nil {
			return event, err
		}
		if err := h.open(ctx); err != nil {
			return event, err
		}

	default:
		return event, fmt.Errorf("unknown op %q", step.Op)
	}
	return event, nil
}

// checkExpect compares a step outcome against its expect clause.
func checkExpect(result *Result, event TraceEvent, expect *Expect) {
	if expect == nil {
		if event.Error != "" {
			result.AddError(fmt.Sprintf("step %d (%s): unexpected error %s", event.Seq, event.Op, event.Error))
		}
		return
	}

	if expect.Error != event.Error {
		want := expect.Error
		if want == "" {
			want = "none"
		}
		result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s", event.Seq, event.Op, want, event.Outcome()))
		return
	}
	if expect.ID != "" && expect.ID != event.ID {
		result.AddError(fmt.Sprintf("step %d (%s): expected id %s, got %q", event.Seq, event.Op, expect.ID, event.ID))
	}
	if expect.Status != "" && expect.Status != event.Status {
		result.AddError(fmt.Sprintf("step %d (%s): expected status %s, got %q", event.Seq, event.Op, expect.Status, event.Status))
	}
}

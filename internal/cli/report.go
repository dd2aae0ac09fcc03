package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/citas/internal/clinic"
	"github.com/roach88/citas/internal/clock"
	"github.com/roach88/citas/internal/domain"
	"github.com/roach88/citas/internal/report"
)

// AttendedData is the JSON payload of the attended report.
type AttendedData struct {
	Completed int               `json:"completed"`
	Patients  []*domain.Patient `json:"patients"`
}

// TodayData is the JSON payload of the daily agenda.
type TodayData struct {
	Date         string                `json:"date"`
	Appointments []*domain.Appointment `json:"appointments"`
}

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the canned reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "attended",
		Short: "Patients with at least one completed appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				return attendedReport(ctx, svc, out)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Appointments scheduled for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				return todayReport(ctx, svc, out, clock.Today(rootOpts.clock()))
			})
		},
	})

	return cmd
}

func attendedReport(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
	if out.Format != "json" {
		text, err := svc.AttendedReport(ctx)
		return respond(out, err, text, nil)
	}

	appts, err := svc.Appointments(ctx)
	sum := report.SummarizeAttended(appts)
	patients := sum.Patients
	if patients == nil {
		patients = []*domain.Patient{}
	}
	return respond(out, err, "", AttendedData{Completed: sum.Completed, Patients: patients})
}

func todayReport(ctx context.Context, svc *clinic.Service, out *OutputFormatter, date string) error {
	if out.Format != "json" {
		text, err := svc.TodayReport(ctx)
		return respond(out, err, text, nil)
	}

	appts, err := svc.AppointmentsOn(ctx, date)
	return respond(out, err, "", TodayData{Date: date, Appointments: appts})
}

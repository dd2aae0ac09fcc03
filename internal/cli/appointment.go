package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/citas/internal/clinic"
	"github.com/roach88/citas/internal/domain"
)

// AppointmentOptions holds flags for the appointment commands.
type AppointmentOptions struct {
	*RootOptions
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Reason    string
}

// NewAppointmentCommand creates the appointment command group.
func NewAppointmentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointment",
		Aliases: []string{"cita"},
		Short:   "Schedule, list, complete and cancel appointments",
	}

	cmd.AddCommand(newAppointmentScheduleCommand(rootOpts))
	cmd.AddCommand(newAppointmentListCommand(rootOpts))
	cmd.AddCommand(newAppointmentStatusCommand(rootOpts, "complete",
		"Mark a scheduled appointment as completed",
		"Cita marcada como realizada: ",
		(*clinic.Service).CompleteAppointment))
	cmd.AddCommand(newAppointmentStatusCommand(rootOpts, "cancel",
		"Cancel a scheduled appointment",
		"Cita cancelada: ",
		(*clinic.Service).CancelAppointment))

	return cmd
}

func newAppointmentScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AppointmentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an appointment",
		Long: `Schedule an appointment between a registered patient and doctor.

Example:
  citas appointment schedule --patient P1 --doctor M1 --date 2025-01-10 --time 09:00 --reason checkup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts.RootOptions, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				a, err := svc.ScheduleAppointment(ctx, domain.AppointmentInput{
					PatientID: opts.PatientID,
					DoctorID:  opts.DoctorID,
					Date:      opts.Date,
					Time:      opts.Time,
					Reason:    opts.Reason,
				})
				if err != nil {
					return reportError(out, err)
				}
				return out.Result("Cita programada: "+a.String(), a)
			})
		},
	}

	cmd.Flags().StringVar(&opts.PatientID, "patient", "", "patient ID (P<n>)")
	cmd.Flags().StringVar(&opts.DoctorID, "doctor", "", "doctor ID (M<n>)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "time (HH:MM)")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "reason for the visit")

	return cmd
}

func newAppointmentListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AppointmentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments, optionally of one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts.RootOptions, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				var appts []*domain.Appointment
				var err error
				if opts.Date != "" {
					appts, err = svc.AppointmentsOn(ctx, opts.Date)
				} else {
					appts, err = svc.Appointments(ctx)
				}
				lines := make([]string, 0, len(appts))
				for _, a := range appts {
					lines = append(lines, a.String())
				}
				return respond(out, err, listText(lines, "No hay citas."), appts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "only appointments on this date (YYYY-MM-DD)")

	return cmd
}

type statusChange func(*clinic.Service, context.Context, string) (*domain.Appointment, error)

func newAppointmentStatusCommand(rootOpts *RootOptions, use, short, done string, change statusChange) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <appointment-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				a, err := change(svc, ctx, args[0])
				if err != nil {
					return reportError(out, err)
				}
				return out.Result(done+a.String(), a)
			})
		},
	}
}

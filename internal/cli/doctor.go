package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/citas/internal/clinic"
)

// DoctorOptions holds flags for the doctor add command.
type DoctorOptions struct {
	*RootOptions
	Name      string
	Specialty string
}

// NewDoctorCommand creates the doctor command group.
func NewDoctorCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Add and list doctors",
	}

	cmd.AddCommand(newDoctorAddCommand(rootOpts))
	cmd.AddCommand(newDoctorListCommand(rootOpts))

	return cmd
}

func newDoctorAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DoctorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a doctor",
		Long: `Add a doctor appointments can be booked with.

Example:
  citas doctor add --name "Dra. Lucía Torres" --specialty Cardiología`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts.RootOptions, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				d, err := svc.AddDoctor(ctx, opts.Name, opts.Specialty)
				if err != nil {
					return reportError(out, err)
				}
				return out.Result("Médico agregado: "+d.String(), d)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Specialty, "specialty", "", "medical specialty")

	return cmd
}

func newDoctorListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				doctors, err := svc.Doctors(ctx)
				lines := make([]string, 0, len(doctors))
				for _, d := range doctors {
					lines = append(lines, d.String())
				}
				return respond(out, err, listText(lines, "No hay médicos registrados."), doctors)
			})
		},
	}
}

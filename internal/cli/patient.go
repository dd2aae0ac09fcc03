package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/citas/internal/clinic"
	"github.com/roach88/citas/internal/domain"
)

// PatientOptions holds flags for the patient commands.
type PatientOptions struct {
	*RootOptions
	Name       string
	NationalID string
	Age        string
	Background string
}

// NewPatientCommand creates the patient command group.
func NewPatientCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Register and inspect patients",
	}

	cmd.AddCommand(newPatientRegisterCommand(rootOpts))
	cmd.AddCommand(newPatientListCommand(rootOpts))
	cmd.AddCommand(newPatientHistoryCommand(rootOpts))

	return cmd
}

func newPatientRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatientOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new patient",
		Long: `Register a new patient with an empty care history.

Example:
  citas patient register --name "Ana Ruiz" --dni 12345678A --age 40 --background diabetes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts.RootOptions, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				p, err := svc.RegisterPatient(ctx, domain.PatientInput{
					Name:       opts.Name,
					NationalID: opts.NationalID,
					Age:        opts.Age,
					Background: opts.Background,
				})
				if err != nil {
					return reportError(out, err)
				}
				return out.Result("Paciente registrado: "+p.String(), p)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.NationalID, "dni", "", "national ID")
	cmd.Flags().StringVar(&opts.Age, "age", "", "age in years")
	cmd.Flags().StringVar(&opts.Background, "background", "", "medical background")

	return cmd
}

func newPatientListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				patients, err := svc.Patients(ctx)
				lines := make([]string, 0, len(patients))
				for _, p := range patients {
					lines = append(lines, p.String())
				}
				return respond(out, err, listText(lines, "No hay pacientes registrados."), patients)
			})
		},
	}
}

func newPatientHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <patient-id>",
		Short: "Show a patient's care history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error {
				p, err := svc.Patient(ctx, args[0])
				if err != nil {
					return reportError(out, err)
				}
				return out.Result(clinic.RenderHistory(p), p)
			})
		},
	}
}

// listText joins one line per record, or returns empty when there are none.
func listText(lines []string, empty string) string {
	if len(lines) == 0 {
		return empty
	}
	return strings.Join(lines, "\n")
}

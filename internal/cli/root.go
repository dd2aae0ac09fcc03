package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/citas/internal/clock"
	"github.com/roach88/citas/internal/config"
	"github.com/roach88/citas/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Database   string

	// Clock overrides the wall clock (for testing).
	// If nil, defaults to clock.System.
	Clock clock.Clock

	// Sessions overrides the log session generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Sessions logging.SessionGenerator

	// LogWriter receives log lines. If nil, logs go to the command's stderr.
	LogWriter io.Writer

	viper *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the citas CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts, letting
// tests inject a clock, a session generator and a log writer.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	opts.viper = config.NewViper()

	cmd := &cobra.Command{
		Use:   "citas",
		Short: "Citas - medical appointment book",
		Long: `A local appointment book for a small practice.

Registers patients and doctors, schedules appointments, keeps each
patient's care history and prints the attended-patients and daily
agenda reports. Everything is stored in one SQLite file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default citas_medicas.db)")
	_ = opts.viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))

	// Add subcommands
	cmd.AddCommand(NewPatientCommand(opts))
	cmd.AddCommand(NewDoctorCommand(opts))
	cmd.AddCommand(NewAppointmentCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

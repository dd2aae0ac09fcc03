package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/citas/internal/clinic"
	"github.com/roach88/citas/internal/clock"
	"github.com/roach88/citas/internal/config"
	"github.com/roach88/citas/internal/domain"
	"github.com/roach88/citas/internal/logging"
	"github.com/roach88/citas/internal/store"
)

// sessionFunc is the body of a command, run against an open service.
type sessionFunc func(ctx context.Context, svc *clinic.Service, out *OutputFormatter) error

// formatter builds the output formatter for cmd.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func (opts *RootOptions) clock() clock.Clock {
	if opts.Clock == nil {
		return clock.System{}
	}
	return opts.Clock
}

// withService runs fn as one application session: load configuration,
// open the book (connect, restore counters, seed), run fn, then save the
// counters and close.
func withService(cmd *cobra.Command, opts *RootOptions, fn sessionFunc) error {
	out := opts.formatter(cmd)

	cfg, err := config.Load(opts.viper, opts.ConfigFile)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "invalid configuration", err)
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	gen := opts.Sessions
	if gen == nil {
		gen = logging.UUIDv7Generator{}
	}
	logWriter := opts.LogWriter
	if logWriter == nil {
		logWriter = cmd.ErrOrStderr()
	}
	logger, err := logging.New(cfg, logWriter, gen)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "invalid configuration", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out.VerboseLog("Opening %s", cfg.Database)
	svc, err := clinic.Open(ctx, cfg, opts.clock(), logger)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "invalid doctor catalog", err)
	}
	defer func() {
		if err := svc.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	return fn(ctx, svc, out)
}

// classify maps a service error onto an exit code, an error code and the
// user-facing message.
func classify(err error) (exitCode int, code, message string) {
	var verr *domain.ValidationError
	var terr *domain.TransitionError

	switch {
	case errors.As(err, &verr):
		return ExitFailure, CodeValidation, verr.Message
	case errors.Is(err, clinic.ErrPatientNotFound),
		errors.Is(err, clinic.ErrDoctorNotFound),
		errors.Is(err, clinic.ErrAppointmentNotFound):
		return ExitFailure, CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.As(err, &terr):
		return ExitFailure, CodeTransition, err.Error()
	case errors.Is(err, store.ErrDuplicateNationalID):
		return ExitFailure, CodeDuplicate, "national ID already registered"
	default:
		return ExitCommandError, CodeStorage, "database operation failed"
	}
}

// reportError prints err in the requested format and returns the matching
// ExitError.
func reportError(out *OutputFormatter, err error) error {
	exitCode, code, message := classify(err)
	return out.Fail(exitCode, code, message, err)
}

// respond finishes a read-only command. A storage failure does not fail the
// command: the degraded result the service returned (an empty listing or
// report) is shown, and the failure travels in the JSON envelope only.
// Any other error is reported through reportError.
func respond(out *OutputFormatter, err error, text string, data interface{}) error {
	if err == nil {
		return out.Result(text, data)
	}
	if _, code, message := classify(err); code == CodeStorage {
		return out.Degraded(text, data, code, message, err)
	}
	return reportError(out, err)
}

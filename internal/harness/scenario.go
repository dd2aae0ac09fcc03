package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/citas/internal/domain"
)

// DefaultToday is the clock day of a scenario that does not set one.
const DefaultToday = "2025-01-10"

// Step operations.
const (
	OpRegisterPatient = "register_patient"
	OpAddDoctor       = "add_doctor"
	OpSchedule        = "schedule"
	OpComplete        = "complete"
	OpCancel          = "cancel"
	OpAdvanceDays     = "advance_days"
	OpRestart         = "restart"
)

// Assertion types.
const (
	AssertAppointmentStatus = "appointment_status"
	AssertHistoryCount      = "history_count"
	AssertHistoryContains   = "history_contains"
	AssertReportContains    = "report_contains"
	AssertReportExcludes    = "report_excludes"
	AssertPatientCount      = "patient_count"
	AssertDoctorCount       = "doctor_count"
	AssertAppointmentCount  = "appointment_count"
)

// requiredArgs lists the arguments each operation needs.
var requiredArgs = map[string][]string{
	OpRegisterPatient: {},
	OpAddDoctor:       {},
	OpSchedule:        {},
	OpComplete:        {"id"},
	OpCancel:          {"id"},
	OpAdvanceDays:     {"days"},
	OpRestart:         {},
}

// Scenario defines a conformance scenario over the appointment book.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Today is the YYYY-MM-DD day the clock starts on. Defaults to DefaultToday.
	Today string `yaml:"today,omitempty"`

	// SeedDoctors saves the default doctor catalog on open.
	SeedDoctors bool `yaml:"seed_doctors,omitempty"`

	// Steps run in order against one book.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation on the book.
//
// Form-style arguments are plain strings so that malformed values (an age
// of "cuarenta") reach the validation layer unchanged. Empty or missing
// arguments are passed through as empty strings for the same reason.
type Step struct {
	Op     string            `yaml:"op"`
	Args   map[string]string `yaml:"args"`
	Expect *Expect           `yaml:"expect,omitempty"`
}

// Expect specifies the expected step outcome. Empty fields are not checked.
type Expect struct {
	ID     string `yaml:"id,omitempty"`
	Status string `yaml:"status,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	Type   string `yaml:"type"`
	ID     string `yaml:"id,omitempty"`
	Status string `yaml:"status,omitempty"`
	Count  *int   `yaml:"count,omitempty"`
	Report string `yaml:"report,omitempty"`
	Text   string `yaml:"text,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Today == "" {
		scenario.Today = DefaultToday
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := time.Parse(domain.DateLayout, s.Today); err != nil {
		return fmt.Errorf("today %q: must be YYYY-MM-DD", s.Today)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	for i, step := range s.Steps {
		args, ok := requiredArgs[step.Op]
		if !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		for _, name := range args {
			if step.Args[name] == "" {
				return fmt.Errorf("steps[%d]: %s requires arg %q", i, step.Op, name)
			}
		}
		if step.Expect != nil && step.Expect.Error != "" && !isErrorKind(step.Expect.Error) {
			return fmt.Errorf("steps[%d]: unknown error kind %q", i, step.Expect.Error)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion checks that an assertion has the fields its type needs.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertAppointmentStatus:
		if a.ID == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: id and status are required for %s", index, a.Type)
		}
		if _, err := domain.ParseStatus(a.Status); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertHistoryCount:
		if a.ID == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: id and count are required for %s", index, a.Type)
		}
	case AssertHistoryContains:
		if a.ID == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: id and text are required for %s", index, a.Type)
		}
	case AssertReportContains, AssertReportExcludes:
		if a.Report != ReportAttended && a.Report != ReportToday {
			return fmt.Errorf("assertions[%d]: report must be %q or %q", index, ReportAttended, ReportToday)
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertPatientCount, AssertDoctorCount, AssertAppointmentCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

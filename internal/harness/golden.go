package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result as stable text: the step trace
// followed by both final reports.
func Snapshot(scenario *Scenario, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&b, "today: %s\n", scenario.Today)
	b.WriteString("steps:\n")
	for _, e := range result.Trace {
		fmt.Fprintf(&b, "  %d. %s -> %s\n", e.Seq, e.Op, e.Outcome())
	}
	b.WriteString("attended:\n")
	b.WriteString(result.Reports[ReportAttended])
	b.WriteString("today:\n")
	b.WriteString(result.Reports[ReportToday])
	return []byte(b.String())
}

// RunWithGolden executes a scenario, fails the test on any step or
// assertion mismatch and compares the snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
	return result
}

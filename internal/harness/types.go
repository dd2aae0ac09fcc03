package harness

import "strings"

// TraceEvent records the outcome of one executed step.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Outcome renders the event result as "<id> <status>", "error <kind>" or
// "ok" when the step produced nothing to show.
func (e TraceEvent) Outcome() string {
	if e.Error != "" {
		return "error " + e.Error
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{e.ID, e.Status} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step matched its expect clause and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Reports holds the final attended and today report text.
	Reports map[string]string `json:"reports,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Reports: make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

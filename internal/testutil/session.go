package testutil

// FixedSessionGenerator generates the same session ID every time.
//
// This keeps log output deterministic in tests that assert on it.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a new fixed session ID generator.
// If id is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
//
// Implements logging.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}

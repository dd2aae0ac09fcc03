package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Kind names one identifier namespace. The string value is the row name
// persisted in id_counters.
type Kind string

const (
	KindPatient     Kind = "paciente"
	KindDoctor      Kind = "medico"
	KindAppointment Kind = "cita"
	KindHistory     Kind = "historial"
)

// Kinds lists every counter namespace in persistence order.
var Kinds = []Kind{KindPatient, KindDoctor, KindAppointment, KindHistory}

// prefixes maps each entity kind to its identifier prefix. History entries
// take their IDs from AUTOINCREMENT and have no prefix.
var prefixes = map[Kind]string{
	KindPatient:     "P",
	KindDoctor:      "M",
	KindAppointment: "C",
}

// Counters holds the per-kind identifier sequences.
//
// Monotonic: Next always returns a value above every value previously
// returned or restored. Restore never lowers a counter.
type Counters struct {
	mu     sync.Mutex
	values map[Kind]int64
}

// NewCounters creates counters starting at 0. The first Next returns 1.
func NewCounters() *Counters {
	return &Counters{values: make(map[Kind]int64, len(Kinds))}
}

// Next increments and returns the next value for kind.
func (c *Counters) Next(kind Kind) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[kind]++
	return c.values[kind]
}

// Value returns the last value handed out for kind without incrementing.
func (c *Counters) Value(kind Kind) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[kind]
}

// Restore raises kind to at least v.
func (c *Counters) Restore(kind Kind, v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v > c.values[kind] {
		c.values[kind] = v
	}
}

// NextID returns a fresh prefixed identifier such as "P4".
func (c *Counters) NextID(kind Kind) string {
	return prefixes[kind] + strconv.FormatInt(c.Next(kind), 10)
}

// LoadCounters reads the persisted counters and then raises each one to the
// highest identifier suffix already stored in its table.
func (s *Store) LoadCounters(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM id_counters`)
	if err != nil {
		return fmt.Errorf("load counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("load counters: scan: %w", err)
		}
		s.counters.Restore(Kind(name), value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load counters: iterate: %w", err)
	}
	rows.Close()

	return s.reconcileCounters(ctx)
}

// reconcileCounters raises counters to the maximum identifier in use.
func (s *Store) reconcileCounters(ctx context.Context) error {
	queries := map[Kind]string{
		KindPatient:     `SELECT COALESCE(MAX(CAST(SUBSTR(id, 2) AS INTEGER)), 0) FROM patients`,
		KindDoctor:      `SELECT COALESCE(MAX(CAST(SUBSTR(id, 2) AS INTEGER)), 0) FROM doctors`,
		KindAppointment: `SELECT COALESCE(MAX(CAST(SUBSTR(id, 2) AS INTEGER)), 0) FROM appointments`,
		KindHistory:     `SELECT COALESCE(MAX(id), 0) FROM history_entries`,
	}

	for _, kind := range Kinds {
		var highest int64
		if err := s.db.QueryRowContext(ctx, queries[kind]).Scan(&highest); err != nil {
			return fmt.Errorf("reconcile %s counter: %w", kind, err)
		}
		s.counters.Restore(kind, highest)
	}
	return nil
}

// SaveCounters writes every counter back to id_counters in one transaction.
func (s *Store) SaveCounters(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save counters: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, kind := range Kinds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO id_counters (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value
		`, string(kind), s.counters.Value(kind))
		if err != nil {
			return fmt.Errorf("save counters: %s: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save counters: commit: %w", err)
	}
	return nil
}

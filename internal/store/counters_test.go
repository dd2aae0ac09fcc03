package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestCounters_NextIsMonotonic(t *testing.T) {
	c := NewCounters()

	if got := c.NextID(KindPatient); got != "P1" {
		t.Errorf("first NextID = %q, want P1", got)
	}
	if got := c.NextID(KindPatient); got != "P2" {
		t.Errorf("second NextID = %q, want P2", got)
	}
	if got := c.NextID(KindDoctor); got != "M1" {
		t.Errorf("doctor NextID = %q, want M1", got)
	}
	if got := c.NextID(KindAppointment); got != "C1" {
		t.Errorf("appointment NextID = %q, want C1", got)
	}
}

func TestCounters_RestoreNeverLowers(t *testing.T) {
	c := NewCounters()
	c.Restore(KindDoctor, 5)
	c.Restore(KindDoctor, 3)

	if got := c.Value(KindDoctor); got != 5 {
		t.Errorf("Value = %d, want 5", got)
	}
	if got := c.Next(KindDoctor); got != 6 {
		t.Errorf("Next = %d, want 6", got)
	}
}

func TestCounters_PersistAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s1.LoadCounters(ctx); err != nil {
		t.Fatalf("LoadCounters() failed: %v", err)
	}
	p := savedPatient(t, s1, "Ana", "1")
	d := savedDoctor(t, s1, "Dr. X", "General")
	a := savedAppointment(t, s1, p, d, "2025-01-10")
	if err := s1.SaveCounters(ctx); err != nil {
		t.Fatalf("SaveCounters() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if err := s2.LoadCounters(ctx); err != nil {
		t.Fatalf("LoadCounters() failed: %v", err)
	}

	p2 := savedPatient(t, s2, "Beto", "2")
	d2 := savedDoctor(t, s2, "Dra. Y", "Pediatría")
	a2 := savedAppointment(t, s2, p2, d2, "2025-01-11")

	if p2.ID != "P2" || d2.ID != "M2" || a2.ID != "C2" {
		t.Errorf("resumed IDs = %s %s %s; previous = %s %s %s", p2.ID, d2.ID, a2.ID, p.ID, d.ID, a.ID)
	}
}

func TestLoadCounters_ReconcilesWithStoredRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	savedPatient(t, s1, "Ana", "1")
	savedPatient(t, s1, "Beto", "2")
	savedPatient(t, s1, "Carla", "3")
	// Closed without SaveCounters, as after a crash.
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if err := s2.LoadCounters(ctx); err != nil {
		t.Fatalf("LoadCounters() failed: %v", err)
	}

	if got := s2.Counters().Value(KindPatient); got != 3 {
		t.Errorf("patient counter = %d, want 3", got)
	}
	p := savedPatient(t, s2, "Dora", "4")
	if p.ID != "P4" {
		t.Errorf("ID = %q, want P4", p.ID)
	}
}

func TestSaveCounters_WritesEveryKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	s.Counters().Restore(KindAppointment, 7)
	if err := s.SaveCounters(ctx); err != nil {
		t.Fatalf("SaveCounters() failed: %v", err)
	}
	// Second save overwrites rather than duplicating.
	s.Counters().Next(KindAppointment)
	if err := s.SaveCounters(ctx); err != nil {
		t.Fatalf("SaveCounters() failed: %v", err)
	}

	var rows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM id_counters").Scan(&rows); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != len(Kinds) {
		t.Errorf("expected %d counter rows, got %d", len(Kinds), rows)
	}

	var value int64
	if err := s.db.QueryRow("SELECT value FROM id_counters WHERE name = ?", string(KindAppointment)).Scan(&value); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if value != 8 {
		t.Errorf("cita counter = %d, want 8", value)
	}
}

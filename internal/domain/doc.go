// Package domain provides the record types of the appointment book.
//
// Records carry state only: constructors set defaults, setters propagate
// identifiers, and String methods render the summaries shown in listings.
// Persistence lives in internal/store; this package imports nothing internal.
//
// Ownership rules:
//   - A Patient exclusively owns its History
//   - History stores only the owning patient ID, never a pointer back
//   - HistoryEntry values are append-only once they carry a store ID
//   - Appointment status moves Scheduled → Completed or Scheduled → Cancelled only
package domain

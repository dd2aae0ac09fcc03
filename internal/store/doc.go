// Package store provides SQLite-backed durable storage for the appointment book.
//
// The store owns the single database connection and the schema:
//   - patients: registered patients (id P<n>, national_id UNIQUE)
//   - doctors: practitioners (id M<n>)
//   - appointments: bookings referencing one patient and one doctor (id C<n>)
//   - history_entries: append-only care record lines (AUTOINCREMENT id)
//   - id_counters: name/value pairs backing identifier assignment
//
// # Identifier Assignment
//
// Patient, doctor and appointment identifiers are a kind prefix followed by
// a per-kind sequence taken from the Store's Counters. Counters are read at
// startup (LoadCounters) and written back at shutdown (SaveCounters). On load
// they are also raised to the highest suffix already present in the tables,
// so an unclean shutdown never hands out an identifier twice.
//
// # Write Semantics
//
// Saves are single-row upserts keyed by identifier: saving a record with an
// existing identifier overwrites every column of the prior row. History
// entries are insert-only; an entry that already carries an ID is never
// rewritten.
//
// # Errors
//
// Every operation returns an explicit error. A Store whose connection could
// not be established (see Disconnected) returns ErrNotConnected from every
// method and touches nothing. Callers that want the lenient "empty result"
// behaviour apply it themselves (see internal/clinic).
//
// # Database Configuration
//
//   - WAL mode
//   - busy_timeout=5000
//   - foreign_keys=ON: appointments and history entries must reference
//     persisted rows
package store

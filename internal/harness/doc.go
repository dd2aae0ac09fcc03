// Package harness runs YAML scenarios against the appointment book.
//
// A scenario drives a fresh book through a list of steps, checks the
// outcome of each step and then evaluates assertions over the final state.
// Every run uses a throwaway SQLite file and a stopped clock, so the trace
// and the rendered reports are reproducible and can be compared with golden
// files.
//
// # Scenario Format
//
//	name: lifecycle
//	description: "What this scenario validates"
//	today: "2025-01-10"
//	seed_doctors: false
//	steps:
//	  - op: register_patient
//	    args: { name: "Ana Ruiz", dni: "1A", age: "40", background: diabetes }
//	    expect: { id: P1 }
//	  - op: complete
//	    args: { id: C1 }
//	    expect: { error: already_completed }
//	assertions:
//	  - type: appointment_status
//	    id: C1
//	    status: Completed
//	  - type: report_contains
//	    report: attended
//	    text: "Total de citas realizadas: 1"
//
// # Step Operations
//
//   - register_patient: name, dni, age, background
//   - add_doctor: name, specialty
//   - schedule: patient, doctor, date, time, reason
//   - complete, cancel: id
//   - advance_days: days
//   - restart: saves counters, closes and reopens the same database
//
// # Error Kinds
//
// An expect.error names the class of failure the step must produce:
// validation, not_found, already_completed, already_cancelled, transition,
// duplicate or storage.
//
// # Assertion Types
//
//   - appointment_status: appointment id has status
//   - history_count: patient id has exactly count history entries
//   - history_contains: a history entry of patient id contains text
//   - report_contains, report_excludes: the attended or today report text
//   - patient_count, doctor_count, appointment_count: number of records
package harness

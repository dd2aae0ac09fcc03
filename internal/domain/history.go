package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of every date field.
const DateLayout = "2006-01-02"

// TimeLayout is the storage format of appointment times.
const TimeLayout = "15:04"

// History is the ordered, append-only care record of one patient.
type History struct {
	PatientID  string          `json:"patient_id"`
	Background string          `json:"background"`
	Entries    []*HistoryEntry `json:"entries"`
}

// NewHistory creates an empty History owned by patientID.
func NewHistory(patientID string) *History {
	return &History{PatientID: patientID, Entries: []*HistoryEntry{}}
}

// Add appends a new entry dated on now's calendar day. The entry has no ID
// until the store persists it.
func (h *History) Add(description string, now time.Time) *HistoryEntry {
	e := &HistoryEntry{Date: now.Format(DateLayout), Description: cleanText(description)}
	h.Entries = append(h.Entries, e)
	return e
}

// AddLoaded appends an entry read from the store unless an equal entry is
// already present. Reports whether the entry was appended.
func (h *History) AddLoaded(entry *HistoryEntry) bool {
	for _, e := range h.Entries {
		if e.Equal(entry) {
			return false
		}
	}
	h.Entries = append(h.Entries, entry)
	return true
}

// Pending returns the entries that have not been persisted yet.
func (h *History) Pending() []*HistoryEntry {
	var pending []*HistoryEntry
	for _, e := range h.Entries {
		if e.ID == 0 {
			pending = append(pending, e)
		}
	}
	return pending
}

// HistoryEntry is one dated line of a History. ID is assigned by the store.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Equal compares by store ID once both entries have one. Entries without an
// ID are only equal to themselves, even when their content matches.
func (e *HistoryEntry) Equal(other *HistoryEntry) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.ID != 0 && e.ID == other.ID
}

func (e *HistoryEntry) String() string {
	return fmt.Sprintf("%s: %s", e.Date, e.Description)
}

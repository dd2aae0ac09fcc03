package domain

import "fmt"

// Patient is a registered patient. ID is empty until the store assigns one.
type Patient struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	NationalID string   `json:"national_id"`
	Age        int      `json:"age"`
	History    *History `json:"history"`
}

// NewPatient creates an unsaved patient owning an empty History with the
// given background text.
func NewPatient(name, nationalID string, age int, background string) *Patient {
	h := NewHistory("")
	h.Background = cleanText(background)
	return &Patient{
		Name:       cleanText(name),
		NationalID: cleanText(nationalID),
		Age:        age,
		History:    h,
	}
}

// SetID assigns the patient identifier and stamps it on the owned History.
func (p *Patient) SetID(id string) {
	p.ID = id
	if p.History != nil {
		p.History.PatientID = id
	}
}

// SetHistory replaces the owned History, keeping its owner ID in sync.
func (p *Patient) SetHistory(h *History) {
	p.History = h
	if p.ID != "" && h != nil {
		h.PatientID = p.ID
	}
}

// Background returns the free-text medical background, empty if there is no History.
func (p *Patient) Background() string {
	if p.History == nil {
		return ""
	}
	return p.History.Background
}

func (p *Patient) String() string {
	return fmt.Sprintf("ID: %s, Nombre: %s, DNI: %s", p.ID, p.Name, p.NationalID)
}

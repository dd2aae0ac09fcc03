package domain

import "fmt"

// Doctor is a practitioner appointments can be booked with.
type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// NewDoctor creates an unsaved doctor.
func NewDoctor(name, specialty string) *Doctor {
	return &Doctor{Name: cleanText(name), Specialty: cleanText(specialty)}
}

func (d *Doctor) String() string {
	return fmt.Sprintf("ID: %s, Nombre: %s, Especialidad: %s", d.ID, d.Name, d.Specialty)
}

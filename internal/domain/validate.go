package domain

import (
	"strconv"
	"strings"
	"time"
)

// PatientInput is the raw form data for registering a patient.
type PatientInput struct {
	Name       string
	NationalID string
	Age        string
	Background string
}

// Validate checks required fields and parses the age. The first problem
// found is returned as a *ValidationError.
func (in PatientInput) Validate() (age int, err error) {
	if err := required("name", in.Name); err != nil {
		return 0, err
	}
	if err := required("national_id", in.NationalID); err != nil {
		return 0, err
	}
	if err := required("age", in.Age); err != nil {
		return 0, err
	}
	age, convErr := strconv.Atoi(strings.TrimSpace(in.Age))
	if convErr != nil {
		return 0, &ValidationError{Field: "age", Message: "Edad debe ser un número válido."}
	}
	if age < 0 {
		return 0, &ValidationError{Field: "age", Message: "Edad no puede ser negativa."}
	}
	return age, nil
}

// Patient builds the unsaved patient described by a valid input.
func (in PatientInput) Patient() (*Patient, error) {
	age, err := in.Validate()
	if err != nil {
		return nil, err
	}
	return NewPatient(in.Name, in.NationalID, age, in.Background), nil
}

// AppointmentInput is the raw form data for scheduling an appointment.
type AppointmentInput struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Reason    string
}

// Validate checks that every field is present and that date and time use
// the stored layouts.
func (in AppointmentInput) Validate() error {
	fields := []struct{ name, value string }{
		{"patient_id", in.PatientID},
		{"doctor_id", in.DoctorID},
		{"date", in.Date},
		{"time", in.Time},
		{"reason", in.Reason},
	}
	for _, f := range fields {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if !matchesLayout(DateLayout, in.Date) {
		return &ValidationError{Field: "date", Message: "Fecha debe tener el formato AAAA-MM-DD."}
	}
	if !matchesLayout(TimeLayout, in.Time) {
		return &ValidationError{Field: "time", Message: "Hora debe tener el formato HH:MM."}
	}
	return nil
}

// matchesLayout reports whether value parses with layout and is already in
// its zero-padded form. time.Parse alone accepts "9:05" for "15:04", and
// stored times are compared as strings.
func matchesLayout(layout, value string) bool {
	value = strings.TrimSpace(value)
	t, err := time.Parse(layout, value)
	return err == nil && t.Format(layout) == value
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "Por favor, complete todos los campos obligatorios."}
	}
	return nil
}

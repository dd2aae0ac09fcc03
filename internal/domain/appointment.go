package domain

import "fmt"

// Appointment books one Patient with one Doctor at a date and time.
type Appointment struct {
	ID      string   `json:"id"`
	Patient *Patient `json:"patient"`
	Doctor  *Doctor  `json:"doctor"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Reason  string   `json:"reason"`
	Status  Status   `json:"status"`
}

// NewAppointment creates an unsaved appointment in the Scheduled state.
func NewAppointment(patient *Patient, doctor *Doctor, date, clock, reason string) *Appointment {
	return &Appointment{
		Patient: patient,
		Doctor:  doctor,
		Date:    cleanText(date),
		Time:    cleanText(clock),
		Reason:  cleanText(reason),
		Status:  StatusScheduled,
	}
}

// Complete moves a scheduled appointment to Completed.
func (a *Appointment) Complete() error {
	return a.transition(StatusCompleted)
}

// Cancel moves a scheduled appointment to Cancelled.
func (a *Appointment) Cancel() error {
	return a.transition(StatusCancelled)
}

// transition applies the Scheduled → {Completed, Cancelled} table. Status is
// left untouched on every rejected change.
func (a *Appointment) transition(to Status) error {
	if a.Status == to {
		switch to {
		case StatusCompleted:
			return ErrAlreadyCompleted
		case StatusCancelled:
			return ErrAlreadyCancelled
		}
	}
	if a.Status != StatusScheduled {
		return &TransitionError{From: a.Status, To: to}
	}
	a.Status = to
	return nil
}

// PatientName returns the patient's name, or fallback when it is unresolved.
func (a *Appointment) PatientName(fallback string) string {
	if a.Patient == nil {
		return fallback
	}
	return a.Patient.Name
}

// DoctorName returns the doctor's name, or fallback when it is unresolved.
func (a *Appointment) DoctorName(fallback string) string {
	if a.Doctor == nil {
		return fallback
	}
	return a.Doctor.Name
}

func (a *Appointment) String() string {
	return fmt.Sprintf("ID Cita: %s, Paciente: %s, Médico: %s, Fecha: %s, Hora: %s, Estado: %s",
		a.ID, a.PatientName("N/D"), a.DoctorName("N/D"), a.Date, a.Time, a.Status)
}

package models

// Appointment is a single persisted booking. ID and CreatedAt are assigned by
// the service when the record is created and never change afterwards.
type Appointment struct {
	ID          string `json:"id"`
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	DateTime    string `json:"dateTime"`
	Reason      string `json:"reason"`
	CreatedAt   string `json:"createdAt"`
}

// AppointmentInput holds the client-supplied fields of a create request.
// Absent or non-string values decode to the empty string.
type AppointmentInput struct {
	PatientName string
	DoctorName  string
	DateTime    string
	Reason      string
}

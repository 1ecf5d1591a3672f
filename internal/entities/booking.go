package entities

import "medibook/internal/schedule"

// BookingRequest books a contiguous run of 30-minute slot points on one date.
type BookingRequest struct {
	DoctorID     string               `json:"doctor_id"`
	Type         string               `json:"consultation_type"`
	PatientNotes string               `json:"patient_notes,omitempty"`
	Slots        []schedule.SlotPoint `json:"slots"`
}

type ConsultationResponse struct {
	ID            string             `json:"id"`
	DoctorID      string             `json:"doctor_id"`
	DoctorName    string             `json:"doctor_name,omitempty"`
	PatientID     string             `json:"patient_id,omitempty"`
	PatientName   string             `json:"patient_name,omitempty"`
	Date          string             `json:"consultation_date"`
	StartTime     string             `json:"start_time"`
	EndTime       string             `json:"end_time"`
	Type          string             `json:"consultation_type"`
	Status        string             `json:"status"`
	InCart        bool               `json:"in_cart"`
	IsPaid        bool               `json:"is_paid"`
	PatientNotes  string             `json:"patient_notes,omitempty"`
	PaymentStatus string             `json:"payment_status,omitempty"`
	Price         int                `json:"price,omitempty"`
	Documents     []DocumentResponse `json:"documents,omitempty"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Total     int    `json:"total"`
}

type DocumentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadStep is the per-file outcome of a multi-document upload. Files are
// uploaded independently; a failure leaves prior uploads attached.
type UploadStep struct {
	Name     string            `json:"name"`
	Uploaded bool              `json:"uploaded"`
	Document *DocumentResponse `json:"document,omitempty"`
	Error    string            `json:"error,omitempty"`
}

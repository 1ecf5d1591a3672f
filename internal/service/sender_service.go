package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"medibook/internal/db"
	"medibook/internal/entities"
)

// SenderService composes and dispatches patient-facing notifications. Email
// is sent asynchronously: a failed send is logged, never propagated, since
// the booking itself has already been persisted.
type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendConsultationEmail(toEmail, patientName, doctorName string, c *db.Consultation, status string) {
	data := entities.ConsultationEmailData{
		PatientName:    patientName,
		DoctorName:     doctorName,
		DateFormatted:  c.Date,
		StartFormatted: c.StartTime[:5],
		EndFormatted:   c.EndTime[:5],
		Type:           c.Type,
		Status:         status,
		CurrentYear:    time.Now().Year(),
	}

	subject := fmt.Sprintf("Your consultation on %s is %s", data.DateFormatted, status)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour consultation with %s is %s.\n\n"+
			"Details:\n"+
			"Date: %s\n"+
			"Time: %s - %s\n"+
			"Type: %s\n\n"+
			"Thank you for using MediBook.",
		data.PatientName, data.DoctorName, status,
		data.DateFormatted, data.StartFormatted, data.EndFormatted, data.Type,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your consultation with <strong>%s</strong> is <strong>%s</strong>.</p>"+
			"<ul><li>Date: %s</li><li>Time: %s - %s</li><li>Type: %s</li></ul>"+
			"<p>Thank you for using MediBook.</p><p>&copy; %d MediBook</p>",
		data.PatientName, data.DoctorName, status,
		data.DateFormatted, data.StartFormatted, data.EndFormatted, data.Type, data.CurrentYear,
	)

	go func() {
		if err := SendEmailWithSendGrid(toEmail, patientName, subject, plainTextBody, htmlBody); err != nil {
			log.Error().Err(err).Str("consultation", c.ID).Msg("consultation email failed")
		}
	}()
}

func (s *SenderService) SendConsultationSMS(toPhone string, c *db.Consultation, status string) {
	if toPhone == "" {
		return
	}
	message := fmt.Sprintf("MediBook: your consultation on %s at %s is %s. Details in your email.",
		c.Date, c.StartTime[:5], status)
	if err := SendSMS(toPhone, message); err != nil {
		log.Error().Err(err).Str("consultation", c.ID).Msg("consultation SMS failed")
	}
}

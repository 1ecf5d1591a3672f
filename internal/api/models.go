package api

import (
	"time"

	"medibook/internal/db"
	"medibook/internal/entities"
)

func toUserResponse(p *db.Profile) entities.UserResponse {
	resp := entities.UserResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		IsBanned:  p.IsBanned,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.DoctorType != nil {
		resp.DoctorType = *p.DoctorType
	}
	return resp
}

func toDoctorResponse(p *db.Profile) entities.DoctorResponse {
	resp := entities.DoctorResponse{ID: p.ID, FullName: p.FullName}
	if p.DoctorType != nil {
		resp.DoctorType = *p.DoctorType
	}
	return resp
}

func toRuleResponse(rule *db.AvailabilityRule) entities.AvailabilityRuleResponse {
	days := make([]int, len(rule.DaysOfWeek))
	for i, d := range rule.DaysOfWeek {
		days[i] = int(d)
	}
	return entities.AvailabilityRuleResponse{
		ID:           rule.ID,
		IsRecurring:  rule.IsRecurring,
		StartDate:    rule.StartDate,
		EndDate:      rule.EndDate,
		DaysOfWeek:   days,
		SpecificDate: rule.SpecificDate,
		TimeSlots:    rule.TimeSlots,
		CreatedAt:    rule.CreatedAt.Format(time.RFC3339),
	}
}

func toAbsenceResponse(a *db.Absence) entities.AbsenceResponse {
	return entities.AbsenceResponse{
		ID:        a.ID,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Reason:    a.Reason,
	}
}

func toConsultationResponse(c *db.Consultation) entities.ConsultationResponse {
	resp := entities.ConsultationResponse{
		ID:            c.ID,
		DoctorID:      c.DoctorID,
		Date:          c.Date,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Type:          c.Type,
		Status:        c.Status,
		InCart:        c.InCart,
		IsPaid:        c.IsPaid,
		PatientNotes:  c.PatientNotes,
		PaymentStatus: c.PaymentStatus,
	}
	if c.PatientID != nil {
		resp.PatientID = *c.PatientID
	}
	return resp
}

func toReviewResponse(r *db.Review) entities.ReviewResponse {
	return entities.ReviewResponse{
		ID:             r.ID,
		ConsultationID: r.ConsultationID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}

func toDocumentResponse(d *db.ConsultationDocument) entities.DocumentResponse {
	return entities.DocumentResponse{
		ID:          d.ID,
		Name:        d.Name,
		URL:         d.URL,
		ContentType: d.ContentType,
		Size:        d.Size,
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/schedule"
)

// maxScheduleRangeDays bounds the public slot-grid query; a week view needs 7.
const maxScheduleRangeDays = 62

// ScheduleService manages a doctor's availability rules and absences and
// resolves the bookable slot grid patients browse.
type ScheduleService struct {
	Availability  AvailabilityStore
	Consultations ConsultationStore
	Profiles      ProfileStore
	Push          Publisher
	Sender        Notifier
}

func NewScheduleService(availability AvailabilityStore, consultations ConsultationStore, profiles ProfileStore, push Publisher, sender Notifier) *ScheduleService {
	return &ScheduleService{
		Availability:  availability,
		Consultations: consultations,
		Profiles:      profiles,
		Push:          push,
		Sender:        sender,
	}
}

// CreateRule validates and inserts a new availability rule. Exactly one mode
// must be populated, every time slot must be a well-formed non-empty
// interval, and the rule must not overlap existing coverage or an absence.
func (s *ScheduleService) CreateRule(ctx context.Context, doctorID string, req entities.CreateAvailabilityRequest) (*db.AvailabilityRule, error) {
	if len(req.TimeSlots) == 0 {
		return nil, errors.ErrBadRequest("at least one time slot is required")
	}
	if req.IsRecurring {
		if req.StartDate == "" || req.EndDate == "" || len(req.DaysOfWeek) == 0 {
			return nil, errors.ErrBadRequest("recurring rules need start_date, end_date and days_of_week")
		}
		if req.SpecificDate != "" {
			return nil, errors.ErrBadRequest("recurring rules must not carry a specific_date")
		}
		for _, d := range req.DaysOfWeek {
			if d < 0 || d > 6 {
				return nil, errors.ErrBadRequest("days_of_week values must be 0-6")
			}
		}
	} else {
		if req.SpecificDate == "" {
			return nil, errors.ErrBadRequest("one-off rules need a specific_date")
		}
		if req.StartDate != "" || req.EndDate != "" || len(req.DaysOfWeek) != 0 {
			return nil, errors.ErrBadRequest("one-off rules must not carry recurring fields")
		}
	}

	slots := make([]schedule.TimeSlot, len(req.TimeSlots))
	for i, slot := range req.TimeSlots {
		start := schedule.NormalizeTime(slot.Start)
		end := schedule.NormalizeTime(slot.End)
		if _, err := schedule.MinutesOfDay(start); err != nil {
			return nil, errors.ErrBadRequest(fmt.Sprintf("invalid slot start %q", slot.Start))
		}
		if _, err := schedule.MinutesOfDay(end); err != nil {
			return nil, errors.ErrBadRequest(fmt.Sprintf("invalid slot end %q", slot.End))
		}
		if start >= end {
			return nil, errors.ErrBadRequest("slot start must be before slot end")
		}
		slots[i] = schedule.TimeSlot{Start: start, End: end}
	}

	candidate := schedule.AvailabilityRule{
		IsRecurring:  req.IsRecurring,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DaysOfWeek:   req.DaysOfWeek,
		SpecificDate: req.SpecificDate,
		TimeSlots:    slots,
	}

	existingRules, absences, err := s.Availability.EngineInputs(doctorID)
	if err != nil {
		return nil, err
	}
	overlap, err := schedule.HasOverlap(candidate, existingRules, absences)
	if err != nil {
		return nil, errors.ErrBadRequest(err.Error())
	}
	if overlap {
		return nil, errors.ErrConflict("the new availability overlaps an existing rule or absence")
	}

	rule := &db.AvailabilityRule{
		DoctorID:     doctorID,
		IsRecurring:  req.IsRecurring,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SpecificDate: req.SpecificDate,
		TimeSlots:    slots,
	}
	for _, d := range req.DaysOfWeek {
		rule.DaysOfWeek = append(rule.DaysOfWeek, int64(d))
	}
	if err := s.Availability.CreateRule(rule); err != nil {
		return nil, err
	}

	s.publish(ctx, doctorID, "availability updated")
	return rule, nil
}

func (s *ScheduleService) ListRules(doctorID string) ([]db.AvailabilityRule, error) {
	return s.Availability.ListRulesByDoctor(doctorID)
}

func (s *ScheduleService) DeleteRule(ctx context.Context, ruleID, doctorID string) error {
	if err := s.Availability.DeleteRule(ruleID, doctorID); err != nil {
		return err
	}
	s.publish(ctx, doctorID, "availability updated")
	return nil
}

// CreateAbsence inserts an absence. When the range overlaps booked,
// non-cancelled consultations the operator must confirm the cascade; on
// confirmation each overlapping consultation is cancelled in sequence. Steps
// are independent: a failed cancellation is reported and the loop continues,
// already-applied cancellations are never rolled back.
func (s *ScheduleService) CreateAbsence(ctx context.Context, doctorID string, req entities.CreateAbsenceRequest) (*entities.CreateAbsenceResponse, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return nil, errors.ErrBadRequest("start_date and end_date are required")
	}
	if req.EndDate < req.StartDate {
		return nil, errors.ErrBadRequest("end_date must not precede start_date")
	}

	overlapping, err := s.Consultations.ListOverlappingScheduled(doctorID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 && !req.ConfirmCascade {
		return nil, errors.ErrConflict(fmt.Sprintf(
			"absence overlaps %d booked consultation(s); confirm_cascade required", len(overlapping)))
	}

	absence := &db.Absence{
		DoctorID:  doctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}
	if err := s.Availability.CreateAbsence(absence); err != nil {
		return nil, err
	}

	doctorName := s.profileName(doctorID)
	resp := &entities.CreateAbsenceResponse{
		Absence: entities.AbsenceResponse{
			ID:        absence.ID,
			StartDate: absence.StartDate,
			EndDate:   absence.EndDate,
			Reason:    absence.Reason,
		},
	}

	for i := range overlapping {
		c := &overlapping[i]
		step := entities.CascadeStep{ConsultationID: c.ID}
		if err := s.Consultations.UpdateStatus(c.ID, db.StatusCancelled); err != nil {
			step.Error = err.Error()
			log.Error().Err(err).Str("consultation", c.ID).Msg("absence cascade cancellation failed")
		} else {
			step.Cancelled = true
			s.notifyCancelled(c, doctorName)
		}
		resp.CascadeSteps = append(resp.CascadeSteps, step)
	}

	s.publish(ctx, doctorID, "absence added")
	return resp, nil
}

// CountOverlappingBookings counts booked consultations inside a date range,
// used to size the cascade warning shown before an absence is confirmed.
func (s *ScheduleService) CountOverlappingBookings(doctorID, startDate, endDate string) (int, error) {
	overlapping, err := s.Consultations.ListOverlappingScheduled(doctorID, startDate, endDate)
	if err != nil {
		return 0, err
	}
	return len(overlapping), nil
}

// ListConsultations is the doctor's agenda view for a date range.
func (s *ScheduleService) ListConsultations(doctorID, from, to string) ([]db.Consultation, error) {
	return s.Consultations.ListByDoctorDateRange(doctorID, from, to)
}

func (s *ScheduleService) ListAbsences(doctorID string) ([]db.Absence, error) {
	return s.Availability.ListAbsencesByDoctor(doctorID)
}

func (s *ScheduleService) DeleteAbsence(ctx context.Context, absenceID, doctorID string) error {
	if err := s.Availability.DeleteAbsence(absenceID, doctorID); err != nil {
		return err
	}
	s.publish(ctx, doctorID, "absence removed")
	return nil
}

// RangeSchedule resolves the slot grid for [from, to] inclusive: per date the
// absence flag, the resolved availability intervals and every 30-minute point
// with its occupancy state.
func (s *ScheduleService) RangeSchedule(doctorID, from, to string) ([]entities.DaySchedule, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, errors.ErrBadRequest("invalid from date")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, errors.ErrBadRequest("invalid to date")
	}
	if end.Before(start) {
		return nil, errors.ErrBadRequest("to must not precede from")
	}
	if end.Sub(start) > maxScheduleRangeDays*24*time.Hour {
		return nil, errors.ErrBadRequest(fmt.Sprintf("date range exceeds %d days", maxScheduleRangeDays))
	}

	rules, absences, err := s.Availability.EngineInputs(doctorID)
	if err != nil {
		return nil, err
	}
	consultations, err := s.Consultations.ListByDoctorDateRange(doctorID, from, to)
	if err != nil {
		return nil, err
	}
	bookings := make([]schedule.Booking, len(consultations))
	for i := range consultations {
		bookings[i] = consultations[i].Engine()
	}

	var days []entities.DaySchedule
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := entities.DaySchedule{Date: date}
		if schedule.IsDateBlocked(absences, date) {
			day.Blocked = true
			days = append(days, day)
			continue
		}
		day.Intervals = schedule.ResolveSlots(rules, date)
		day.Slots = expandSlots(day.Intervals, bookings, date)
		days = append(days, day)
	}
	return days, nil
}

// expandSlots walks each resolved interval in 30-minute steps and marks every
// point free or occupied. Intervals from different rules may overlap; points
// are deduplicated by start time.
func expandSlots(intervals []schedule.TimeSlot, bookings []schedule.Booking, date string) []entities.SlotStatus {
	seen := make(map[string]bool)
	var slots []entities.SlotStatus
	for _, interval := range intervals {
		startMin, err := schedule.MinutesOfDay(interval.Start)
		if err != nil {
			continue
		}
		endMin, err := schedule.MinutesOfDay(interval.End)
		if err != nil {
			continue
		}
		for m := startMin; m+schedule.SlotDuration <= endMin; m += schedule.SlotDuration {
			start := schedule.FormatMinutes(m)
			if seen[start] {
				continue
			}
			seen[start] = true
			occupied := schedule.IsOccupied(bookings, date, start)
			slots = append(slots, entities.SlotStatus{
				Start:     start,
				End:       schedule.FormatMinutes(m + schedule.SlotDuration),
				Available: !occupied,
				Occupied:  occupied,
			})
		}
	}
	return slots
}

func (s *ScheduleService) publish(ctx context.Context, doctorID, message string) {
	if s.Push == nil {
		return
	}
	s.Push.PublishScheduleChange(ctx, doctorID, s.profileName(doctorID), message)
}

func (s *ScheduleService) profileName(id string) string {
	if s.Profiles == nil {
		return ""
	}
	profile, err := s.Profiles.GetByID(id)
	if err != nil || profile == nil {
		return ""
	}
	return profile.FullName
}

func (s *ScheduleService) notifyCancelled(c *db.Consultation, doctorName string) {
	if s.Sender == nil || s.Profiles == nil || c.PatientID == nil {
		return
	}
	patient, err := s.Profiles.GetByID(*c.PatientID)
	if err != nil || patient == nil {
		log.Error().Err(err).Str("consultation", c.ID).Msg("could not load patient for cancellation notice")
		return
	}
	s.Sender.SendConsultationEmail(patient.Email, patient.FullName, doctorName, c, "cancelled due to doctor absence")
	if patient.Phone != nil && *patient.Phone != "" {
		s.Sender.SendConsultationSMS(*patient.Phone, c, "cancelled due to doctor absence")
	}
}

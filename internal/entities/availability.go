package entities

import "medibook/internal/schedule"

type CreateAvailabilityRequest struct {
	IsRecurring  bool                `json:"is_recurring"`
	StartDate    string              `json:"start_date,omitempty"`
	EndDate      string              `json:"end_date,omitempty"`
	DaysOfWeek   []int               `json:"days_of_week,omitempty"`
	SpecificDate string              `json:"specific_date,omitempty"`
	TimeSlots    []schedule.TimeSlot `json:"time_slots"`
}

type AvailabilityRuleResponse struct {
	ID           string              `json:"id"`
	IsRecurring  bool                `json:"is_recurring"`
	StartDate    string              `json:"start_date,omitempty"`
	EndDate      string              `json:"end_date,omitempty"`
	DaysOfWeek   []int               `json:"days_of_week,omitempty"`
	SpecificDate string              `json:"specific_date,omitempty"`
	TimeSlots    []schedule.TimeSlot `json:"time_slots"`
	CreatedAt    string              `json:"created_at"`
}

type CreateAbsenceRequest struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Reason         string `json:"reason,omitempty"`
	ConfirmCascade bool   `json:"confirm_cascade"`
}

type AbsenceResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// CascadeStep records the outcome of one cancellation performed while
// creating an absence over already-booked consultations. Steps are
// independent: earlier successes stand even when a later step fails.
type CascadeStep struct {
	ConsultationID string `json:"consultation_id"`
	Cancelled      bool   `json:"cancelled"`
	Error          string `json:"error,omitempty"`
}

type CreateAbsenceResponse struct {
	Absence      AbsenceResponse `json:"absence"`
	CascadeSteps []CascadeStep   `json:"cascade_steps,omitempty"`
}

// AbsenceConflict is returned when the requested absence overlaps booked
// consultations and the operator has not yet confirmed the cascade.
type AbsenceConflict struct {
	Message              string `json:"message"`
	OverlappingBookings  int    `json:"overlapping_bookings"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}

// SlotStatus is the per-point availability state of one 30-minute slot.
type SlotStatus struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Occupied  bool   `json:"occupied"`
}

// DaySchedule is the resolved schedule of one doctor for one date.
type DaySchedule struct {
	Date      string              `json:"date"`
	Blocked   bool                `json:"blocked"`
	Intervals []schedule.TimeSlot `json:"intervals,omitempty"`
	Slots     []SlotStatus        `json:"slots,omitempty"`
}

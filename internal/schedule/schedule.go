// Package schedule implements the availability resolution and slot-conflict
// engine: which 30-minute slots of a doctor's calendar are bookable, whether a
// multi-slot selection is well formed, and whether a new availability rule
// collides with existing coverage.
//
// All dates are ISO "YYYY-MM-DD" strings and all times of day are zero-padded
// "HH:MM:SS" strings, so plain string comparison orders correctly. Weekdays
// are numbered 0=Sunday .. 6=Saturday.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotDuration is the atomic booking unit in minutes.
const SlotDuration = 30

const dateLayout = "2006-01-02"

const statusCancelled = "CANCELLED"

// TimeSlot is a half-open time-of-day interval [Start, End).
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityRule is a doctor-defined window during which booking is
// permitted. Exactly one mode is active: recurring (StartDate/EndDate plus
// DaysOfWeek) or one-off (SpecificDate). The resolver branches on IsRecurring
// and never evaluates both modes.
type AvailabilityRule struct {
	IsRecurring  bool
	StartDate    string
	EndDate      string
	DaysOfWeek   []int
	SpecificDate string
	TimeSlots    []TimeSlot
}

// Absence is a closed date range [StartDate, EndDate] that overrides all
// availability rules.
type Absence struct {
	StartDate string
	EndDate   string
}

// Booking is the slice of a consultation the occupancy check needs.
type Booking struct {
	Date      string
	StartTime string
	EndTime   string
	Status    string
}

// Weekday returns the weekday number (0=Sunday) for an ISO date.
func Weekday(date string) (int, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return int(t.Weekday()), nil
}

// NormalizeTime zero-pads a time of day to "HH:MM:SS" so that string
// comparison matches chronological order ("9:00" would otherwise sort after
// "10:00").
func NormalizeTime(t string) string {
	parts := strings.SplitN(t, ":", 3)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = "0" + p
		}
	}
	return parts[0] + ":" + parts[1] + ":" + parts[2]
}

// MinutesOfDay converts "HH:MM[:SS]" to minutes since midnight.
func MinutesOfDay(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time of day %q", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", t)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", t)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM:SS".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// AddMinutes shifts a time of day forward by the given number of minutes.
func AddMinutes(t string, minutes int) (string, error) {
	m, err := MinutesOfDay(t)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m + minutes), nil
}

// applies reports whether a rule contributes slots on the given date.
func applies(rule AvailabilityRule, date string, weekday int) bool {
	if rule.IsRecurring {
		if rule.StartDate == "" || rule.EndDate == "" {
			return false
		}
		if date < rule.StartDate || date > rule.EndDate {
			return false
		}
		for _, d := range rule.DaysOfWeek {
			if d == weekday {
				return true
			}
		}
		return false
	}
	return rule.SpecificDate == date
}

// ResolveSlots returns the time slots of every rule applicable to the given
// date. The result is a plain concatenation: overlapping or duplicate
// intervals from multiple rules are left as-is, since callers test point
// membership rather than coverage area.
func ResolveSlots(rules []AvailabilityRule, date string) []TimeSlot {
	weekday, err := Weekday(date)
	if err != nil {
		return nil
	}
	var slots []TimeSlot
	for _, rule := range rules {
		if applies(rule, date, weekday) {
			slots = append(slots, rule.TimeSlots...)
		}
	}
	return slots
}

// IsDateBlocked reports whether the date falls inside any absence. Boundary
// dates count: an absence blocks both its start and end date.
func IsDateBlocked(absences []Absence, date string) bool {
	for _, a := range absences {
		if date >= a.StartDate && date <= a.EndDate {
			return true
		}
	}
	return false
}

// IsOccupied reports whether a non-cancelled booking covers the time point on
// the given date. The booking end is exclusive: [09:00, 10:00) occupies 09:00
// and 09:30 but not 10:00.
func IsOccupied(bookings []Booking, date, timePoint string) bool {
	t := NormalizeTime(timePoint)
	for _, b := range bookings {
		if b.Date != date || b.Status == statusCancelled {
			continue
		}
		if NormalizeTime(b.StartTime) <= t && t < NormalizeTime(b.EndTime) {
			return true
		}
	}
	return false
}

// IsSlotAvailable is the bookability predicate for a single slot point: the
// date is not blocked by an absence, the point falls inside at least one
// resolved availability interval, and no existing booking covers it.
func IsSlotAvailable(rules []AvailabilityRule, absences []Absence, bookings []Booking, date, timePoint string) bool {
	if IsDateBlocked(absences, date) {
		return false
	}
	if IsOccupied(bookings, date, timePoint) {
		return false
	}
	t := NormalizeTime(timePoint)
	for _, slot := range ResolveSlots(rules, date) {
		if NormalizeTime(slot.Start) <= t && t < NormalizeTime(slot.End) {
			return true
		}
	}
	return false
}

package schedule

import (
	"fmt"
	"time"
)

// maxRuleSpanDays caps the daily expansion of a recurring rule so an
// unbounded date range cannot iterate forever. Two years is far beyond any
// schedule a doctor publishes in practice.
const maxRuleSpanDays = 731

// Overlaps reports half-open interval intersection between two time slots:
// a.Start < b.End && a.End > b.Start. Touching boundaries do not overlap.
func Overlaps(a, b TimeSlot) bool {
	return NormalizeTime(a.Start) < NormalizeTime(b.End) &&
		NormalizeTime(a.End) > NormalizeTime(b.Start)
}

// HasOverlap reports whether a candidate availability rule collides with
// existing coverage. The candidate's applicability is expanded into concrete
// dates; a date inside any absence is a collision outright, otherwise every
// candidate interval is tested pairwise against the intervals the existing
// rules resolve to on that date. This is an existence check: it stops at the
// first hit and does not report which rule conflicts.
func HasOverlap(candidate AvailabilityRule, existing []AvailabilityRule, absences []Absence) (bool, error) {
	dates, err := expandDates(candidate)
	if err != nil {
		return false, err
	}
	for _, date := range dates {
		if IsDateBlocked(absences, date) {
			return true, nil
		}
		resolved := ResolveSlots(existing, date)
		for _, cs := range candidate.TimeSlots {
			for _, es := range resolved {
				if Overlaps(cs, es) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// expandDates lists every concrete date the rule applies to: the single date
// for a one-off rule, or each date in [StartDate, EndDate] whose weekday is
// in DaysOfWeek for a recurring one.
func expandDates(rule AvailabilityRule) ([]string, error) {
	if !rule.IsRecurring {
		if rule.SpecificDate == "" {
			return nil, fmt.Errorf("one-off rule has no specific date")
		}
		return []string{rule.SpecificDate}, nil
	}

	start, err := time.Parse(dateLayout, rule.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid rule start date %q: %w", rule.StartDate, err)
	}
	end, err := time.Parse(dateLayout, rule.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid rule end date %q: %w", rule.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("rule end date %s before start date %s", rule.EndDate, rule.StartDate)
	}
	if end.Sub(start) > maxRuleSpanDays*24*time.Hour {
		return nil, fmt.Errorf("rule date range exceeds %d days", maxRuleSpanDays)
	}

	wanted := make(map[int]bool, len(rule.DaysOfWeek))
	for _, d := range rule.DaysOfWeek {
		wanted[d] = true
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wanted[int(d.Weekday())] {
			dates = append(dates, d.Format(dateLayout))
		}
	}
	return dates, nil
}

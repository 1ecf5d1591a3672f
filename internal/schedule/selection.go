package schedule

import (
	"fmt"
	"sort"
)

// SlotPoint is one selected 30-minute slot: a date plus the slot's start time.
type SlotPoint struct {
	Date  string `json:"date"`
	Start string `json:"start"`
}

// CanExtendSelection reports whether adding candidate to the current
// selection keeps it a single contiguous run of 30-minute points on one
// calendar date. It forms the hypothetical union, sorts it by (date, minutes)
// and walks adjacent pairs; any cross-date pair or gap other than exactly 30
// minutes rejects the candidate.
//
// Removing an already-selected point is always allowed and is not
// re-validated here; deselecting a middle point can leave a non-contiguous
// remainder (accepted simplification).
func CanExtendSelection(current []SlotPoint, candidate SlotPoint) bool {
	points := make([]SlotPoint, 0, len(current)+1)
	for _, p := range current {
		if p.Date == candidate.Date && NormalizeTime(p.Start) == NormalizeTime(candidate.Start) {
			// Already selected; toggling it off is handled by the caller.
			return false
		}
		points = append(points, p)
	}
	points = append(points, candidate)

	sort.Slice(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return NormalizeTime(points[i].Start) < NormalizeTime(points[j].Start)
	})

	for i := 1; i < len(points); i++ {
		if points[i].Date != points[i-1].Date {
			return false
		}
		prev, err := MinutesOfDay(points[i-1].Start)
		if err != nil {
			return false
		}
		cur, err := MinutesOfDay(points[i].Start)
		if err != nil {
			return false
		}
		if cur-prev != SlotDuration {
			return false
		}
	}
	return true
}

// SelectionWindow maps a discrete point-set selection to its single
// continuous booking interval [earliest, latest+30m). The points must be
// non-empty, share one date, and form a gapless 30-minute run.
func SelectionWindow(points []SlotPoint) (date, start, end string, err error) {
	if len(points) == 0 {
		return "", "", "", fmt.Errorf("empty slot selection")
	}

	sorted := make([]SlotPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return NormalizeTime(sorted[i].Start) < NormalizeTime(sorted[j].Start)
	})

	date = sorted[0].Date
	for i, p := range sorted {
		if p.Date != date {
			return "", "", "", fmt.Errorf("slot selection spans multiple dates")
		}
		if i == 0 {
			continue
		}
		prev, perr := MinutesOfDay(sorted[i-1].Start)
		if perr != nil {
			return "", "", "", perr
		}
		cur, cerr := MinutesOfDay(p.Start)
		if cerr != nil {
			return "", "", "", cerr
		}
		if cur-prev != SlotDuration {
			return "", "", "", fmt.Errorf("slot selection is not contiguous")
		}
	}

	start = NormalizeTime(sorted[0].Start)
	end, err = AddMinutes(sorted[len(sorted)-1].Start, SlotDuration)
	if err != nil {
		return "", "", "", err
	}
	return date, start, end, nil
}

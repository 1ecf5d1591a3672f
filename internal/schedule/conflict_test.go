package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	base := TimeSlot{Start: "08:00:00", End: "12:00:00"}

	tests := []struct {
		name  string
		other TimeSlot
		want  bool
	}{
		{"inside", TimeSlot{Start: "09:00:00", End: "10:00:00"}, true},
		{"straddles end", TimeSlot{Start: "11:00:00", End: "13:00:00"}, true},
		{"straddles start", TimeSlot{Start: "07:00:00", End: "08:30:00"}, true},
		{"touching at end", TimeSlot{Start: "12:00:00", End: "13:00:00"}, false},
		{"touching at start", TimeSlot{Start: "07:00:00", End: "08:00:00"}, false},
		{"disjoint", TimeSlot{Start: "13:00:00", End: "14:00:00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(base, tt.other))
			assert.Equal(t, tt.want, Overlaps(tt.other, base))
		})
	}
}

func TestHasOverlapAgainstRecurringRule(t *testing.T) {
	existing := []AvailabilityRule{
		{
			IsRecurring: true,
			StartDate:   "2024-01-01",
			EndDate:     "2024-03-31",
			DaysOfWeek:  []int{1},
			TimeSlots:   []TimeSlot{{Start: "08:00:00", End: "12:00:00"}},
		},
	}

	// 2024-02-05 is a Monday: [11:00,13:00) collides on [11:00,12:00).
	conflict := AvailabilityRule{
		SpecificDate: "2024-02-05",
		TimeSlots:    []TimeSlot{{Start: "11:00:00", End: "13:00:00"}},
	}
	got, err := HasOverlap(conflict, existing, nil)
	require.NoError(t, err)
	assert.True(t, got)

	// Touching boundary [12:00,13:00) is not an overlap.
	touching := AvailabilityRule{
		SpecificDate: "2024-02-05",
		TimeSlots:    []TimeSlot{{Start: "12:00:00", End: "13:00:00"}},
	}
	got, err = HasOverlap(touching, existing, nil)
	require.NoError(t, err)
	assert.False(t, got)

	// Same hours on a Tuesday never meet the Monday rule.
	otherDay := AvailabilityRule{
		SpecificDate: "2024-02-06",
		TimeSlots:    []TimeSlot{{Start: "11:00:00", End: "13:00:00"}},
	}
	got, err = HasOverlap(otherDay, existing, nil)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestHasOverlapRecurringCandidate(t *testing.T) {
	existing := []AvailabilityRule{
		{
			SpecificDate: "2024-02-07",
			TimeSlots:    []TimeSlot{{Start: "09:00:00", End: "11:00:00"}},
		},
	}

	candidate := AvailabilityRule{
		IsRecurring: true,
		StartDate:   "2024-02-01",
		EndDate:     "2024-02-29",
		DaysOfWeek:  []int{3}, // Wednesdays, including the 7th
		TimeSlots:   []TimeSlot{{Start: "10:00:00", End: "12:00:00"}},
	}
	got, err := HasOverlap(candidate, existing, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHasOverlapRejectsAbsenceDates(t *testing.T) {
	absences := []Absence{{StartDate: "2024-02-05", EndDate: "2024-02-09"}}

	candidate := AvailabilityRule{
		SpecificDate: "2024-02-07",
		TimeSlots:    []TimeSlot{{Start: "08:00:00", End: "09:00:00"}},
	}
	got, err := HasOverlap(candidate, nil, absences)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHasOverlapGuardsUnboundedRanges(t *testing.T) {
	candidate := AvailabilityRule{
		IsRecurring: true,
		StartDate:   "2024-01-01",
		EndDate:     "2050-01-01",
		DaysOfWeek:  []int{1},
		TimeSlots:   []TimeSlot{{Start: "08:00:00", End: "09:00:00"}},
	}
	_, err := HasOverlap(candidate, nil, nil)
	assert.Error(t, err)
}

func TestHasOverlapInvalidCandidate(t *testing.T) {
	_, err := HasOverlap(AvailabilityRule{}, nil, nil)
	assert.Error(t, err)

	_, err = HasOverlap(AvailabilityRule{
		IsRecurring: true,
		StartDate:   "2024-02-10",
		EndDate:     "2024-02-01",
	}, nil, nil)
	assert.Error(t, err)
}

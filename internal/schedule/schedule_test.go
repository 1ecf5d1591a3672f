package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayRule() AvailabilityRule {
	return AvailabilityRule{
		IsRecurring: true,
		StartDate:   "2024-01-01",
		EndDate:     "2024-03-31",
		DaysOfWeek:  []int{1}, // Monday
		TimeSlots:   []TimeSlot{{Start: "08:00:00", End: "12:00:00"}},
	}
}

func TestWeekday(t *testing.T) {
	d, err := Weekday("2024-02-05") // a Monday
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	d, err = Weekday("2024-02-04") // a Sunday
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	_, err = Weekday("05.02.2024")
	assert.Error(t, err)
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9:00", "09:00:00"},
		{"09:00", "09:00:00"},
		{"09:00:00", "09:00:00"},
		{"9:5", "09:05:00"},
		{"23:30:00", "23:30:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTime(tt.in), "input %q", tt.in)
	}
}

func TestAddMinutes(t *testing.T) {
	got, err := AddMinutes("09:30:00", 30)
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", got)

	got, err = AddMinutes("9:00", 90)
	require.NoError(t, err)
	assert.Equal(t, "10:30:00", got)

	_, err = AddMinutes("not-a-time", 30)
	assert.Error(t, err)
}

func TestResolveSlotsRecurring(t *testing.T) {
	rules := []AvailabilityRule{mondayRule()}

	tests := []struct {
		name string
		date string
		want int
	}{
		{"monday in range", "2024-02-05", 1},
		{"tuesday in range", "2024-02-06", 0},
		{"monday before range", "2023-12-25", 0},
		{"monday after range", "2024-04-01", 0},
		{"range start boundary", "2024-01-01", 1}, // 2024-01-01 is a Monday
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSlots(rules, tt.date)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestResolveSlotsOneOff(t *testing.T) {
	rules := []AvailabilityRule{
		{
			IsRecurring:  false,
			SpecificDate: "2024-02-10",
			TimeSlots:    []TimeSlot{{Start: "14:00:00", End: "16:00:00"}},
		},
	}

	assert.Len(t, ResolveSlots(rules, "2024-02-10"), 1)
	assert.Empty(t, ResolveSlots(rules, "2024-02-11"))
}

func TestResolveSlotsConcatenatesWithoutMerging(t *testing.T) {
	rules := []AvailabilityRule{
		mondayRule(),
		{
			IsRecurring:  false,
			SpecificDate: "2024-02-05",
			TimeSlots:    []TimeSlot{{Start: "10:00:00", End: "14:00:00"}},
		},
	}

	got := ResolveSlots(rules, "2024-02-05")
	require.Len(t, got, 2)
	assert.Equal(t, TimeSlot{Start: "08:00:00", End: "12:00:00"}, got[0])
	assert.Equal(t, TimeSlot{Start: "10:00:00", End: "14:00:00"}, got[1])
}

// A rule whose one-off date matches but that is flagged recurring must be
// resolved through its recurring fields only, never through SpecificDate.
func TestResolveSlotsSingleModePerRule(t *testing.T) {
	rules := []AvailabilityRule{
		{
			IsRecurring:  true,
			SpecificDate: "2024-02-07", // must be ignored in recurring mode
			StartDate:    "2024-01-01",
			EndDate:      "2024-03-31",
			DaysOfWeek:   []int{1},
			TimeSlots:    []TimeSlot{{Start: "08:00:00", End: "12:00:00"}},
		},
	}

	assert.Empty(t, ResolveSlots(rules, "2024-02-07")) // a Wednesday
	assert.Len(t, ResolveSlots(rules, "2024-02-05"), 1)
}

func TestIsDateBlocked(t *testing.T) {
	absences := []Absence{{StartDate: "2024-02-10", EndDate: "2024-02-14"}}

	tests := []struct {
		date string
		want bool
	}{
		{"2024-02-09", false},
		{"2024-02-10", true}, // start boundary inclusive
		{"2024-02-12", true},
		{"2024-02-14", true}, // end boundary inclusive
		{"2024-02-15", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDateBlocked(absences, tt.date), "date %s", tt.date)
	}
}

func TestIsOccupiedBoundaries(t *testing.T) {
	bookings := []Booking{
		{Date: "2024-02-05", StartTime: "09:00:00", EndTime: "10:00:00", Status: "SCHEDULED"},
	}

	assert.True(t, IsOccupied(bookings, "2024-02-05", "09:00:00"))
	assert.True(t, IsOccupied(bookings, "2024-02-05", "09:30:00"))
	assert.False(t, IsOccupied(bookings, "2024-02-05", "10:00:00"), "end is exclusive")
	assert.False(t, IsOccupied(bookings, "2024-02-05", "08:30:00"))
	assert.False(t, IsOccupied(bookings, "2024-02-06", "09:00:00"), "other date")
}

func TestIsOccupiedIgnoresCancelled(t *testing.T) {
	bookings := []Booking{
		{Date: "2024-02-05", StartTime: "09:00:00", EndTime: "10:00:00", Status: "CANCELLED"},
	}
	assert.False(t, IsOccupied(bookings, "2024-02-05", "09:00:00"))
}

func TestIsOccupiedNormalizesTimes(t *testing.T) {
	bookings := []Booking{
		{Date: "2024-02-05", StartTime: "9:00", EndTime: "10:00", Status: "SCHEDULED"},
	}
	assert.True(t, IsOccupied(bookings, "2024-02-05", "9:30"))
}

func TestIsSlotAvailable(t *testing.T) {
	rules := []AvailabilityRule{mondayRule()}
	absences := []Absence{{StartDate: "2024-02-12", EndDate: "2024-02-12"}}
	bookings := []Booking{
		{Date: "2024-02-05", StartTime: "09:00:00", EndTime: "10:00:00", Status: "SCHEDULED"},
	}

	tests := []struct {
		name string
		date string
		time string
		want bool
	}{
		{"free slot inside rule", "2024-02-05", "10:00:00", true},
		{"occupied slot", "2024-02-05", "09:30:00", false},
		{"outside rule hours", "2024-02-05", "13:00:00", false},
		{"rule end is exclusive", "2024-02-05", "12:00:00", false},
		{"absence wins over rule", "2024-02-12", "08:00:00", false},
		{"day without rule", "2024-02-06", "09:00:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSlotAvailable(rules, absences, bookings, tt.date, tt.time)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Booking lifecycle end to end: a recurring Monday rule, a booking over two
// selected slots, then the occupancy of those slots on any later load.
func TestBookingScenario(t *testing.T) {
	rules := []AvailabilityRule{mondayRule()}
	selection := []SlotPoint{
		{Date: "2024-02-05", Start: "09:00:00"},
		{Date: "2024-02-05", Start: "09:30:00"},
	}

	for _, p := range selection {
		require.True(t, IsSlotAvailable(rules, nil, nil, p.Date, p.Start))
	}

	date, start, end, err := SelectionWindow(selection)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-05", date)
	assert.Equal(t, "09:00:00", start)
	assert.Equal(t, "10:00:00", end)

	booked := []Booking{{Date: date, StartTime: start, EndTime: end, Status: "SCHEDULED"}}
	assert.False(t, IsSlotAvailable(rules, nil, booked, "2024-02-05", "09:00:00"))
	assert.False(t, IsSlotAvailable(rules, nil, booked, "2024-02-05", "09:30:00"))
	assert.True(t, IsSlotAvailable(rules, nil, booked, "2024-02-05", "10:00:00"))
}

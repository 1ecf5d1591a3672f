package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanExtendSelection(t *testing.T) {
	current := []SlotPoint{
		{Date: "2024-02-05", Start: "09:00:00"},
		{Date: "2024-02-05", Start: "09:30:00"},
	}

	tests := []struct {
		name      string
		candidate SlotPoint
		want      bool
	}{
		{"adjacent after", SlotPoint{Date: "2024-02-05", Start: "10:00:00"}, true},
		{"adjacent before", SlotPoint{Date: "2024-02-05", Start: "08:30:00"}, true},
		{"gap of one slot", SlotPoint{Date: "2024-02-05", Start: "10:30:00"}, false},
		{"same time next day", SlotPoint{Date: "2024-02-06", Start: "09:00:00"}, false},
		{"already selected", SlotPoint{Date: "2024-02-05", Start: "09:00:00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanExtendSelection(current, tt.candidate))
		})
	}
}

func TestCanExtendSelectionEmpty(t *testing.T) {
	assert.True(t, CanExtendSelection(nil, SlotPoint{Date: "2024-02-05", Start: "09:00:00"}))
}

func TestCanExtendSelectionUnpaddedTimes(t *testing.T) {
	current := []SlotPoint{{Date: "2024-02-05", Start: "9:00"}}
	assert.True(t, CanExtendSelection(current, SlotPoint{Date: "2024-02-05", Start: "9:30"}))
	assert.False(t, CanExtendSelection(current, SlotPoint{Date: "2024-02-05", Start: "10:30"}))
}

func TestSelectionWindow(t *testing.T) {
	points := []SlotPoint{
		{Date: "2024-02-05", Start: "09:30:00"},
		{Date: "2024-02-05", Start: "09:00:00"},
		{Date: "2024-02-05", Start: "10:00:00"},
	}

	date, start, end, err := SelectionWindow(points)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-05", date)
	assert.Equal(t, "09:00:00", start)
	assert.Equal(t, "10:30:00", end)
}

func TestSelectionWindowSingleSlot(t *testing.T) {
	date, start, end, err := SelectionWindow([]SlotPoint{{Date: "2024-02-05", Start: "14:00:00"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-05", date)
	assert.Equal(t, "14:00:00", start)
	assert.Equal(t, "14:30:00", end)
}

func TestSelectionWindowRejectsInvalid(t *testing.T) {
	_, _, _, err := SelectionWindow(nil)
	assert.Error(t, err)

	_, _, _, err = SelectionWindow([]SlotPoint{
		{Date: "2024-02-05", Start: "09:00:00"},
		{Date: "2024-02-06", Start: "09:30:00"},
	})
	assert.Error(t, err)

	_, _, _, err = SelectionWindow([]SlotPoint{
		{Date: "2024-02-05", Start: "09:00:00"},
		{Date: "2024-02-05", Start: "10:00:00"},
	})
	assert.Error(t, err)
}

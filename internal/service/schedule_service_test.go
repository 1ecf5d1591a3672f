package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/schedule"
)

func newScheduleFixture() (*ScheduleService, *fakeAvailability, *fakeConsultations, *fakeNotifier, *fakePublisher) {
	availability := &fakeAvailability{}
	consultations := newFakeConsultations()
	phone := "+34600000002"
	profiles := &fakeProfiles{profiles: map[string]*db.Profile{
		"doc-1": {ID: "doc-1", FullName: "Dr. Vega", Role: db.RoleDoctor},
		"pat-1": {ID: "pat-1", FullName: "Ana", Email: "ana@example.com", Phone: &phone, Role: db.RolePatient},
	}}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewScheduleService(availability, consultations, profiles, publisher, notifier)
	return svc, availability, consultations, notifier, publisher
}

func TestCreateRuleValidation(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  entities.CreateAvailabilityRequest
	}{
		{
			name: "no time slots",
			req: entities.CreateAvailabilityRequest{
				IsRecurring: true, StartDate: "2024-01-01", EndDate: "2024-06-30", DaysOfWeek: []int{1},
			},
		},
		{
			name: "recurring missing days",
			req: entities.CreateAvailabilityRequest{
				IsRecurring: true, StartDate: "2024-01-01", EndDate: "2024-06-30",
				TimeSlots: []schedule.TimeSlot{{Start: "09:00", End: "12:00"}},
			},
		},
		{
			name: "recurring with specific date",
			req: entities.CreateAvailabilityRequest{
				IsRecurring: true, StartDate: "2024-01-01", EndDate: "2024-06-30", DaysOfWeek: []int{1},
				SpecificDate: "2024-02-05",
				TimeSlots:    []schedule.TimeSlot{{Start: "09:00", End: "12:00"}},
			},
		},
		{
			name: "one-off with recurring fields",
			req: entities.CreateAvailabilityRequest{
				SpecificDate: "2024-02-05", DaysOfWeek: []int{1},
				TimeSlots: []schedule.TimeSlot{{Start: "09:00", End: "12:00"}},
			},
		},
		{
			name: "day out of range",
			req: entities.CreateAvailabilityRequest{
				IsRecurring: true, StartDate: "2024-01-01", EndDate: "2024-06-30", DaysOfWeek: []int{7},
				TimeSlots: []schedule.TimeSlot{{Start: "09:00", End: "12:00"}},
			},
		},
		{
			name: "inverted slot",
			req: entities.CreateAvailabilityRequest{
				SpecificDate: "2024-02-05",
				TimeSlots:    []schedule.TimeSlot{{Start: "12:00", End: "09:00"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRule(ctx, "doc-1", tt.req)
			require.Error(t, err)
			assert.Equal(t, 400, errors.StatusOf(err))
		})
	}
}

func TestCreateRuleNormalizesTimes(t *testing.T) {
	svc, availability, _, _, publisher := newScheduleFixture()

	rule, err := svc.CreateRule(context.Background(), "doc-1", entities.CreateAvailabilityRequest{
		SpecificDate: "2024-02-05",
		TimeSlots:    []schedule.TimeSlot{{Start: "9:00", End: "12:00"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00:00", rule.TimeSlots[0].Start)
	assert.Equal(t, "12:00:00", rule.TimeSlots[0].End)
	require.Len(t, availability.rules, 1)
	assert.Equal(t, []string{"doc-1: availability updated"}, publisher.events)
}

func TestCreateRuleRejectsOverlap(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture()
	ctx := context.Background()

	_, err := svc.CreateRule(ctx, "doc-1", entities.CreateAvailabilityRequest{
		IsRecurring: true, StartDate: "2024-01-01", EndDate: "2024-06-30", DaysOfWeek: []int{1},
		TimeSlots: []schedule.TimeSlot{{Start: "08:00", End: "12:00"}},
	})
	require.NoError(t, err)

	// 2024-02-05 is a Monday; 11:00-13:00 clashes with the recurring morning.
	_, err = svc.CreateRule(ctx, "doc-1", entities.CreateAvailabilityRequest{
		SpecificDate: "2024-02-05",
		TimeSlots:    []schedule.TimeSlot{{Start: "11:00", End: "13:00"}},
	})
	require.Error(t, err)
	assert.Equal(t, 409, errors.StatusOf(err))

	// Touching intervals are fine.
	_, err = svc.CreateRule(ctx, "doc-1", entities.CreateAvailabilityRequest{
		SpecificDate: "2024-02-05",
		TimeSlots:    []schedule.TimeSlot{{Start: "12:00", End: "13:00"}},
	})
	require.NoError(t, err)
}

func TestCreateAbsenceRequiresCascadeConfirm(t *testing.T) {
	svc, _, consultations, notifier, _ := newScheduleFixture()
	ctx := context.Background()
	patient := "pat-1"
	require.NoError(t, consultations.Create(&db.Consultation{
		DoctorID:  "doc-1",
		PatientID: &patient,
		Date:      "2024-02-05",
		StartTime: "09:00:00",
		EndTime:   "10:00:00",
		Status:    db.StatusScheduled,
		IsPaid:    true,
	}))

	_, err := svc.CreateAbsence(ctx, "doc-1", entities.CreateAbsenceRequest{
		StartDate: "2024-02-05", EndDate: "2024-02-09",
	})
	require.Error(t, err)
	assert.Equal(t, 409, errors.StatusOf(err))

	resp, err := svc.CreateAbsence(ctx, "doc-1", entities.CreateAbsenceRequest{
		StartDate: "2024-02-05", EndDate: "2024-02-09", ConfirmCascade: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.CascadeSteps, 1)
	assert.True(t, resp.CascadeSteps[0].Cancelled)

	cancelled, err := consultations.GetByID(resp.CascadeSteps[0].ConsultationID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCancelled, cancelled.Status)
	assert.Equal(t, []string{"ana@example.com: cancelled due to doctor absence"}, notifier.emails)
}

func TestCreateAbsenceCascadeContinuesAfterFailure(t *testing.T) {
	svc, _, consultations, _, _ := newScheduleFixture()
	ctx := context.Background()
	patient := "pat-1"
	for _, window := range [][2]string{{"09:00:00", "10:00:00"}, {"10:00:00", "11:00:00"}} {
		require.NoError(t, consultations.Create(&db.Consultation{
			DoctorID:  "doc-1",
			PatientID: &patient,
			Date:      "2024-02-05",
			StartTime: window[0],
			EndTime:   window[1],
			Status:    db.StatusScheduled,
		}))
	}
	consultations.statusErrs = map[string]error{"consultation-1": assert.AnError}

	resp, err := svc.CreateAbsence(ctx, "doc-1", entities.CreateAbsenceRequest{
		StartDate: "2024-02-05", EndDate: "2024-02-05", ConfirmCascade: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.CascadeSteps, 2)

	var failed, cancelled int
	for _, step := range resp.CascadeSteps {
		if step.Cancelled {
			cancelled++
		} else {
			assert.NotEmpty(t, step.Error)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, cancelled)
}

func TestRangeSchedule(t *testing.T) {
	svc, availability, consultations, _, _ := newScheduleFixture()
	availability.rules = append(availability.rules, db.AvailabilityRule{
		ID:          "rule-1",
		DoctorID:    "doc-1",
		IsRecurring: true,
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		DaysOfWeek:  pq.Int64Array{1}, // Mondays
		TimeSlots:   []schedule.TimeSlot{{Start: "09:00:00", End: "10:30:00"}},
	})
	availability.absences = append(availability.absences, db.Absence{
		ID: "absence-1", DoctorID: "doc-1", StartDate: "2024-02-07", EndDate: "2024-02-07",
	})
	patient := "pat-1"
	require.NoError(t, consultations.Create(&db.Consultation{
		DoctorID:  "doc-1",
		PatientID: &patient,
		Date:      "2024-02-05",
		StartTime: "09:00:00",
		EndTime:   "09:30:00",
		Status:    db.StatusScheduled,
	}))

	days, err := svc.RangeSchedule("doc-1", "2024-02-05", "2024-02-07")
	require.NoError(t, err)
	require.Len(t, days, 3)

	monday := days[0]
	require.Len(t, monday.Slots, 3)
	assert.True(t, monday.Slots[0].Occupied)
	assert.False(t, monday.Slots[0].Available)
	assert.True(t, monday.Slots[1].Available)
	assert.True(t, monday.Slots[2].Available)

	tuesday := days[1]
	assert.False(t, tuesday.Blocked)
	assert.Empty(t, tuesday.Slots)

	wednesday := days[2]
	assert.True(t, wednesday.Blocked)
	assert.Empty(t, wednesday.Slots)
}

func TestRangeScheduleRejectsBadRanges(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture()

	_, err := svc.RangeSchedule("doc-1", "2024-02-07", "2024-02-05")
	require.Error(t, err)
	assert.Equal(t, 400, errors.StatusOf(err))

	_, err = svc.RangeSchedule("doc-1", "2024-01-01", "2024-06-30")
	require.Error(t, err)
	assert.Equal(t, 400, errors.StatusOf(err))

	_, err = svc.RangeSchedule("doc-1", "bogus", "2024-02-05")
	require.Error(t, err)
	assert.Equal(t, 400, errors.StatusOf(err))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint before", "2024-01-01", "2024-01-04", "2024-01-05", "2024-01-07", false},
		{"disjoint after", "2024-01-08", "2024-01-09", "2024-01-05", "2024-01-07", false},
		{"touching end is overlap", "2024-01-01", "2024-01-05", "2024-01-05", "2024-01-07", true},
		{"touching start is overlap", "2024-01-07", "2024-01-09", "2024-01-05", "2024-01-07", true},
		{"partial", "2024-01-06", "2024-01-08", "2024-01-05", "2024-01-07", true},
		{"contained", "2024-01-06", "2024-01-06", "2024-01-05", "2024-01-07", true},
		{"containing", "2024-01-01", "2024-01-31", "2024-01-05", "2024-01-07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)
			// symmetric
			assert.Equal(t, tt.want, RangesOverlap(day(tt.bStart), day(tt.bEnd), day(tt.aStart), day(tt.aEnd)))
		})
	}
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, int64(1), InclusiveDays(day("2024-01-05"), day("2024-01-05")))
	assert.Equal(t, int64(3), InclusiveDays(day("2024-01-05"), day("2024-01-07")))
	// partial days are floored
	assert.Equal(t, int64(1), InclusiveDays(day("2024-01-05"), day("2024-01-05").Add(23*time.Hour)))
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))

	for _, from := range []BookingStatus{StatusApproved, StatusRejected, StatusCancelled} {
		for _, to := range []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestEquipment_CoversRange(t *testing.T) {
	start, end := day("2024-01-01"), day("2024-01-31")
	eq := &Equipment{AvailabilityStart: &start, AvailabilityEnd: &end}

	assert.True(t, eq.CoversRange(day("2024-01-01"), day("2024-01-31")))
	assert.False(t, eq.CoversRange(day("2023-12-31"), day("2024-01-02")))
	assert.False(t, eq.CoversRange(day("2024-01-30"), day("2024-02-01")))

	open := &Equipment{}
	assert.True(t, open.CoversRange(day("1999-01-01"), day("2099-01-01")))
}

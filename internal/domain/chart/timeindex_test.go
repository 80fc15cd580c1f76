package chart

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ziwei-api/pkg/errors"
)

func TestNormalizeExplicitHour(t *testing.T) {
	for hour := 0; hour <= 23; hour++ {
		nt, err := normalizeExplicitHour(hour)
		require.NoError(t, err)
		require.Equal(t, hour, nt.HourOfDay)
		require.Equal(t, 0, nt.DayOffset)
	}

	for _, hour := range []int{-1, 24, 100} {
		_, err := normalizeExplicitHour(hour)
		require.Error(t, err)
		require.True(t, isCode(err, CodeInvalidHour))
	}
}

func TestNormalizeSlotRegularSlots(t *testing.T) {
	nt, err := normalizeSlot(0, LateSlotNextDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 0, DayOffset: 0}, nt)

	for slot := 1; slot <= 11; slot++ {
		nt, err := normalizeSlot(slot, LateSlotNextDay)
		require.NoError(t, err)
		require.Equal(t, 2*slot-1, nt.HourOfDay, "slot %d", slot)
		require.Equal(t, 0, nt.DayOffset)
	}
}

func TestNormalizeSlotLateSlotPolicies(t *testing.T) {
	nt, err := normalizeSlot(12, LateSlotNextDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 0, DayOffset: 1}, nt)

	nt, err = normalizeSlot(12, LateSlotSameDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 23, DayOffset: 0}, nt)
}

func TestNormalizeSlotOutOfRange(t *testing.T) {
	for _, slot := range []int{-1, 13, 42} {
		_, err := normalizeSlot(slot, LateSlotNextDay)
		require.Error(t, err)
		require.True(t, isCode(err, CodeInvalidTimeIndex))
	}
}

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"0", 0},
		{"0:30", 30},
		{"7", 420},
		{"7:30", 450},
		{"13", 780},
		{"23:00", 1380},
		{"23:59", 1439},
		{"24:00", 0}, // minute 1440 wraps to midnight
		{"24", 0},
		{"0.5", 30},
		{"7.5", 450},
		{"13.25", 795},
	}
	for _, tc := range cases {
		got, err := parseClockMinutes(tc.raw)
		require.NoError(t, err, "raw %q", tc.raw)
		require.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestParseClockMinutesRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "-1", "25", "24:01", "7:60", "7:-5", "12:xx", "24.5"} {
		_, err := parseClockMinutes(raw)
		require.Error(t, err, "raw %q", raw)
		require.True(t, isCode(err, CodeInvalidTimeFormat), "raw %q", raw)
	}
}

func TestSlotForMinutesBuckets(t *testing.T) {
	// bucket table from the double-hour partition
	cases := []struct {
		minutes int
		slot    int
	}{
		{0, 0}, {59, 0},
		{60, 1}, {179, 1},
		{180, 2}, {299, 2},
		{300, 3}, {419, 3},
		{420, 4}, {539, 4},
		{540, 5}, {659, 5},
		{660, 6}, {779, 6},
		{780, 7}, {899, 7},
		{900, 8}, {1019, 8},
		{1020, 9}, {1139, 9},
		{1140, 10}, {1259, 10},
		{1260, 11}, {1379, 11},
		{1380, 12}, {1439, 12},
	}
	for _, tc := range cases {
		require.Equal(t, tc.slot, slotForMinutes(tc.minutes), "minutes %d", tc.minutes)
	}
}

// Buckets must be monotonic, non-overlapping, and cover exactly [0,1440); the
// representative hour of each non-boundary slot must fall back into the bucket
// that produced it.
func TestSlotBucketsCoverDayConsistently(t *testing.T) {
	prev := 0
	for m := 0; m < minutesPerDay; m++ {
		slot := slotForMinutes(m)
		require.GreaterOrEqual(t, slot, 0)
		require.LessOrEqual(t, slot, 12)
		require.GreaterOrEqual(t, slot, prev, "buckets must be monotonic at minute %d", m)
		prev = slot

		if slot < 12 {
			require.Equal(t, slot, slotForMinutes(slotToHour[slot]*60),
				"representative hour of slot %d must map back to it", slot)
		}
	}
	require.Equal(t, 12, prev)
}

func TestNormalizeTimeSelectsConfiguredForm(t *testing.T) {
	hour := 13
	slot := 12
	clock := ClockValue("7:30")
	req := Request{Hour: &hour, TimeIndex: &slot, Time: &clock}

	nt, err := normalizeTime(req, TimeFormHour, LateSlotNextDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 13}, nt)

	nt, err = normalizeTime(req, TimeFormIndex, LateSlotNextDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 0, DayOffset: 1}, nt)

	// 7:30 falls in the fourth double-hour block
	nt, err = normalizeTime(req, TimeFormClock, LateSlotNextDay)
	require.NoError(t, err)
	require.Equal(t, normalizedTime{HourOfDay: 7}, nt)
}

func TestApplyDayOffset(t *testing.T) {
	date, err := applyDayOffset("2000-08-16", 0)
	require.NoError(t, err)
	require.Equal(t, "2000-08-16", date)

	date, err = applyDayOffset("2000-08-16", 1)
	require.NoError(t, err)
	require.Equal(t, "2000-08-17", date)

	date, err = applyDayOffset("2000-12-31", 1)
	require.NoError(t, err)
	require.Equal(t, "2001-01-01", date)

	// leap day boundary
	date, err = applyDayOffset("2020-02-28", 1)
	require.NoError(t, err)
	require.Equal(t, "2020-02-29", date)

	// syntax-valid but calendar-invalid dates cannot be shifted
	_, err = applyDayOffset("2023-02-30", 1)
	require.Error(t, err)
	require.True(t, isCode(err, CodeDateInvalid))
}

func isCode(err error, code string) bool {
	return apperrors.IsCode(err, code)
}

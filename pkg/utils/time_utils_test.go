package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePlannerTime(t *testing.T) {
	got := ParsePlannerTime("15/03/2026 09:30", time.Time{})
	require.Equal(t, 2026, got.Year())
	require.Equal(t, time.March, got.Month())
	require.Equal(t, 15, got.Day())
	require.Equal(t, 9, got.Hour())
	require.Equal(t, 30, got.Minute())
}

func TestParsePlannerTimeFallsBack(t *testing.T) {
	fallback := time.Date(2026, time.May, 1, 8, 0, 0, 0, VNLocation())

	require.Equal(t, fallback, ParsePlannerTime("2026-03-15T09:30:00Z", fallback))
	require.Equal(t, fallback, ParsePlannerTime("soon", fallback))
	require.Equal(t, fallback, ParsePlannerTime("", fallback))
}

func TestRoundToNearest10Min(t *testing.T) {
	base := time.Date(2026, time.May, 1, 9, 0, 0, 0, VNLocation())

	require.Equal(t, base, RoundToNearest10Min(base.Add(4*time.Minute)))
	require.Equal(t, base.Add(10*time.Minute), RoundToNearest10Min(base.Add(5*time.Minute)))
	require.Equal(t, base.Add(10*time.Minute), RoundToNearest10Min(base.Add(13*time.Minute)))
}

func TestHourOfDay(t *testing.T) {
	at := time.Date(2026, time.May, 1, 9, 30, 0, 0, VNLocation())
	require.InDelta(t, 9.5, HourOfDay(at), 0.001)
}

func TestFormatJoinsVNZone(t *testing.T) {
	utc := time.Date(2026, time.May, 1, 2, 0, 0, 0, time.UTC) // 09:00 ICT
	require.Equal(t, "09:00", FormatClock(utc))
	require.Equal(t, "01/05/2026", FormatDate(utc))
}

package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowMostRecentFirst(t *testing.T) {
	now := time.Date(2024, 1, 7, 15, 30, 0, 0, time.UTC)

	window := Window(now, 7)
	require.Equal(t, []string{
		"2024-01-07", "2024-01-06", "2024-01-05", "2024-01-04",
		"2024-01-03", "2024-01-02", "2024-01-01",
	}, window)
}

func TestWindowCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	window := Window(now, 3)
	require.Equal(t, []string{"2024-03-01", "2024-02-29", "2024-02-28"}, window)
}

func TestWindowSingleDay(t *testing.T) {
	now := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, []string{"2024-01-07"}, Window(now, 1))
}

func TestWindowInvalidSize(t *testing.T) {
	require.Nil(t, Window(time.Now(), 0))
	require.Nil(t, Window(time.Now(), -3))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTitleLabel(t *testing.T) {
	require.Equal(t, "Steps", TitleLabel("steps"))
	require.Equal(t, "Very Active Minutes", TitleLabel("very_active_minutes"))
	require.Equal(t, "Bmi", TitleLabel("bmi"))
	require.Equal(t, "Resting Heart Rate", TitleLabel("resting_heart_rate"))
}

func TestFlattenSkipsAbsentCategories(t *testing.T) {
	rec := NewDailyRecord("2024-01-05")
	rec.Set(CategoryActivity, Metrics{"steps": 5000})

	props := rec.Flatten()
	require.Equal(t, map[string]float64{"Steps": 5000}, props)

	// Absence of sleep must not surface as zero-valued sleep properties.
	for label := range props {
		require.NotContains(t, label, "Sleep")
	}
}

func TestFlattenMergesAllCategories(t *testing.T) {
	rec := NewDailyRecord("2024-01-05")
	rec.Set(CategoryActivity, Metrics{"steps": 5000, "calories_burned": 2100})
	rec.Set(CategorySleep, Metrics{"hours_asleep": 7.5})
	rec.Set(CategoryWeight, Metrics{"weight_lbs": 180.4})
	rec.Set(CategoryHeartRate, Metrics{"resting_heart_rate": 55})

	props := rec.Flatten()
	require.Len(t, props, 5)
	require.Equal(t, 7.5, props["Hours Asleep"])
	require.Equal(t, 180.4, props["Weight Lbs"])
	require.Equal(t, 55.0, props["Resting Heart Rate"])
}

func TestSetDropsEmptyMetrics(t *testing.T) {
	rec := NewDailyRecord("2024-01-05")
	rec.Set(CategoryWeight, nil)
	rec.Set(CategorySleep, Metrics{})

	require.False(t, rec.Has(CategoryWeight))
	require.False(t, rec.Has(CategorySleep))
	require.True(t, rec.Empty())
}

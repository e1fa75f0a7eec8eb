package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/model"
)

func TestExpandRange_Week(t *testing.T) {
	rules := []model.CollectionSchedule{rule(papelID, time.Monday, 1, "2024-01-01")}

	for _, anchor := range []string{"2024-01-08", "2024-01-10", "2024-01-14"} {
		days, err := ExpandRange(date(t, anchor), rules, catalog, ModeWeek)
		require.NoError(t, err)
		require.Len(t, days, 7, anchor)
		assert.Equal(t, date(t, "2024-01-08"), days[0].Date, anchor)
		assert.Equal(t, time.Monday, days[0].Date.Weekday())
		assert.Equal(t, date(t, "2024-01-14"), days[6].Date, anchor)
		assert.Equal(t, []string{"papel"}, codes(days[0].GarbageTypes))
		for i := 1; i < 7; i++ {
			assert.Equal(t, days[i-1].Date.AddDays(1), days[i].Date)
			assert.Empty(t, days[i].GarbageTypes)
		}
	}
}

func TestExpandRange_WeekAcrossYearBoundary(t *testing.T) {
	days, err := ExpandRange(date(t, "2025-01-01"), nil, catalog, ModeWeek)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, date(t, "2024-12-30"), days[0].Date)
	assert.Equal(t, date(t, "2025-01-05"), days[6].Date)
}

func TestExpandRange_Month(t *testing.T) {
	rules := []model.CollectionSchedule{rule(papelID, time.Monday, 1, "2024-01-01")}

	cases := []struct {
		anchor string
		days   int
	}{
		{"2024-01-17", 31},
		{"2024-02-01", 29},
		{"2023-02-28", 28},
		{"2024-04-30", 30},
	}
	for _, tc := range cases {
		days, err := ExpandRange(date(t, tc.anchor), rules, catalog, ModeMonth)
		require.NoError(t, err)
		require.Len(t, days, tc.days, tc.anchor)
		assert.Equal(t, 1, days[0].Date.Day)
		assert.Equal(t, tc.days, days[len(days)-1].Date.Day)
	}

	january, err := ExpandRange(date(t, "2024-01-17"), rules, catalog, ModeMonth)
	require.NoError(t, err)
	var collected []string
	for _, day := range january {
		if len(day.GarbageTypes) > 0 {
			collected = append(collected, day.Date.String())
		}
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}, collected)
}

func TestResolverBetween(t *testing.T) {
	r := NewResolverFromRules(nil, catalog)
	assert.Nil(t, r.Between(date(t, "2024-01-10"), date(t, "2024-01-09")))
	assert.Len(t, r.Between(date(t, "2024-01-10"), date(t, "2024-01-10")), 1)
	assert.Len(t, r.Between(date(t, "2024-02-25"), date(t, "2024-03-05")), 10)
}

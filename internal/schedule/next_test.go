package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/model"
)

func TestNextOccurrences_GroupedMinimumSorted(t *testing.T) {
	inactive := rule(metalID, time.Thursday, 1, "2024-01-01")
	inactive.IsActive = false

	rules := []model.CollectionSchedule{
		rule(papelID, time.Monday, 1, "2024-01-01"),
		rule(vidroID, time.Wednesday, 2, "2024-01-03"),
		inactive,
		rule(vidroID, time.Friday, 1, "2024-01-05"),
		rule(uuid.New(), time.Thursday, 1, "2024-01-01"),
	}

	got, err := NextOccurrences(date(t, "2024-01-10"), rules, catalog)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "vidro", got[0].GarbageType.Code)
	assert.Equal(t, date(t, "2024-01-12"), got[0].NextDate)
	assert.Equal(t, "papel", got[1].GarbageType.Code)
	assert.Equal(t, date(t, "2024-01-15"), got[1].NextDate)
}

func TestNextOccurrences_TodayAdvancesByInterval(t *testing.T) {
	rules := []model.CollectionSchedule{
		rule(papelID, time.Wednesday, 1, "2024-01-03"),
		rule(vidroID, time.Wednesday, 3, "2024-01-03"),
	}

	got, err := NextOccurrences(date(t, "2024-01-10"), rules, catalog)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, date(t, "2024-01-17"), got[0].NextDate)
	assert.Equal(t, date(t, "2024-01-31"), got[1].NextDate)
}

func TestNextOccurrences_LandsOnRuleWeekday(t *testing.T) {
	start := date(t, "2024-03-01")
	for i := 0; i < 14; i++ {
		today := start.AddDays(i)
		for day := time.Sunday; day <= time.Saturday; day++ {
			got, err := NextOccurrences(today, []model.CollectionSchedule{rule(papelID, day, 1, "2024-01-01")}, catalog)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, day, got[0].NextDate.Weekday())
			assert.True(t, got[0].NextDate.After(today))
			assert.LessOrEqual(t, got[0].NextDate.DaysSince(today), 7)
		}
	}
}

func TestNextOccurrences_IgnoresWindowAndAlternation(t *testing.T) {
	expired := rule(papelID, time.Monday, 1, "2023-01-02")
	end := "2023-06-26"
	expired.EndDate = &end

	got, err := NextOccurrences(date(t, "2024-01-10"), []model.CollectionSchedule{expired}, catalog)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(t, "2024-01-15"), got[0].NextDate)

	// The fortnightly rule skips 2024-01-08 on the calendar, but the next
	// occurrence finder still reports it.
	fortnightly := []model.CollectionSchedule{rule(papelID, time.Monday, 2, "2024-01-01")}
	next, err := NextOccurrences(date(t, "2024-01-03"), fortnightly, catalog)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, date(t, "2024-01-08"), next[0].NextDate)

	onDate, err := CollectionsOnDate(date(t, "2024-01-08"), fortnightly, catalog)
	require.NoError(t, err)
	assert.Empty(t, onDate)
}

func TestNextOccurrences_TiesKeepFirstReference(t *testing.T) {
	rules := []model.CollectionSchedule{
		rule(vidroID, time.Monday, 1, "2024-01-01"),
		rule(papelID, time.Monday, 1, "2024-01-01"),
	}
	got, err := NextOccurrences(date(t, "2024-01-10"), rules, catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"vidro", "papel"}, []string{got[0].GarbageType.Code, got[1].GarbageType.Code})
}

package services

import (
	"fmt"
	"time"
)

// ParsePrayerDate accepts either a bare calendar date or a full RFC 3339
// timestamp.
func ParsePrayerDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid prayer date %q: %w", value, err)
	}
	return t, nil
}

// CalculateStreak counts consecutive days, ending today, that appear in
// dates. Time of day is ignored. If today is missing the streak is zero even
// when earlier days are present.
func CalculateStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	completed := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		completed[DateKey(d)] = struct{}{}
	}

	streak := 0
	day := today.UTC()
	for {
		if _, ok := completed[DateKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

func StreakMessage(streak int) string {
	if streak > 0 {
		return fmt.Sprintf("%d day streak!", streak)
	}
	return "Start your streak today!"
}

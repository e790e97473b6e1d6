package services

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

// TodayDailyPrayer returns the checklist for the current day. When nothing was
// recorded yet it returns an unsaved record with every flag false.
func (cl *Client) TodayDailyPrayer(ctx context.Context) (models.DailyPrayer, error) {
	today := Today()

	record, found, err := cl.findDailyPrayer(ctx, today)
	if err != nil {
		return record, err
	}
	if !found {
		return models.DailyPrayer{Account_ID: cl.AccountID(), Prayer_Date: today}, nil
	}
	return record, nil
}

// UpsertTodayDailyPrayer writes only the supplied flags to today's record,
// creating it with all other flags false when it does not exist.
func (cl *Client) UpsertTodayDailyPrayer(ctx context.Context, flags map[string]bool) (models.DailyPrayer, error) {
	for item := range flags {
		if !initializers.Cfg.ChecklistEnabled(item) {
			return models.DailyPrayer{}, validationError("Invalid prayer type")
		}
	}

	today := Today()

	existing, found, err := cl.findDailyPrayer(ctx, today)
	if err != nil {
		return existing, err
	}
	if found {
		return cl.updateDailyPrayer(ctx, existing, flags)
	}

	record := newDailyPrayer(cl.AccountID(), today, flags)
	_, err = cl.db.Insert("daily_prayer").Rows(record).Executor().ExecContext(ctx)
	if isUniqueViolation(err) {
		// Another request created today's record first.
		existing, found, err = cl.findDailyPrayer(ctx, today)
		if err != nil {
			return existing, err
		}
		if !found {
			return existing, fmt.Errorf("daily prayer for %s vanished after conflict", today)
		}
		return cl.updateDailyPrayer(ctx, existing, flags)
	}
	if err != nil {
		return record, fmt.Errorf("failed to create daily prayer: %w", err)
	}

	return record, nil
}

// SetDailyPrayerItem sets a single checklist item for today.
func (cl *Client) SetDailyPrayerItem(ctx context.Context, item string, completed bool) (models.DailyPrayer, error) {
	return cl.UpsertTodayDailyPrayer(ctx, map[string]bool{item: completed})
}

// CountCampusPrayersToday counts the users who completed the campus prayer today.
func (cl *Client) CountCampusPrayersToday(ctx context.Context) (models.CampusPrayerCount, error) {
	today := Today()

	count, err := cl.db.From("daily_prayer").
		Where(
			goqu.C("prayer_date").Eq(today),
			goqu.C("campus_prayer_done").IsTrue(),
		).
		CountContext(ctx)
	if err != nil {
		return models.CampusPrayerCount{}, fmt.Errorf("failed to count campus prayers: %w", err)
	}

	return models.CampusPrayerCount{Count: count, Date: today}, nil
}

// CampusPrayerStreak computes the current user's consecutive-day campus
// prayer streak from the most recent completed days.
func (cl *Client) CampusPrayerStreak(ctx context.Context) (models.PrayerStreak, error) {
	var dates []string
	err := cl.db.From("daily_prayer").
		Select("prayer_date").
		Where(
			goqu.C("account_id").Eq(cl.AccountID()),
			goqu.C("campus_prayer_done").IsTrue(),
		).
		Order(goqu.C("prayer_date").Desc()).
		Limit(uint(initializers.Cfg.StreakLookback)).
		ScanValsContext(ctx, &dates)
	if err != nil {
		return models.PrayerStreak{}, fmt.Errorf("failed to load prayer dates: %w", err)
	}

	return buildPrayerStreak(dates, Now())
}

func buildPrayerStreak(dates []string, now time.Time) (models.PrayerStreak, error) {
	if len(dates) == 0 {
		return models.PrayerStreak{Message: "No campus prayers completed yet"}, nil
	}

	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := ParsePrayerDate(d)
		if err != nil {
			return models.PrayerStreak{}, err
		}
		parsed = append(parsed, t)
	}

	streak := CalculateStreak(parsed, now)
	last := dates[0]

	return models.PrayerStreak{
		Streak:          streak,
		LastPrayerDate:  &last,
		TotalPrayerDays: len(dates),
		Message:         StreakMessage(streak),
	}, nil
}

func (cl *Client) findDailyPrayer(ctx context.Context, date string) (models.DailyPrayer, bool, error) {
	var record models.DailyPrayer
	found, err := cl.db.From("daily_prayer").
		Where(
			goqu.C("account_id").Eq(cl.AccountID()),
			goqu.C("prayer_date").Eq(date),
		).
		ScanStructContext(ctx, &record)
	if err != nil {
		return record, false, fmt.Errorf("failed to load daily prayer: %w", err)
	}
	return record, found, nil
}

func (cl *Client) updateDailyPrayer(ctx context.Context, existing models.DailyPrayer, flags map[string]bool) (models.DailyPrayer, error) {
	if len(flags) == 0 {
		return existing, nil
	}

	var updated models.DailyPrayer
	found, err := cl.db.Update("daily_prayer").
		Set(dailyPrayerUpdateRecord(flags)).
		Where(goqu.C("daily_prayer_id").Eq(existing.Daily_Prayer_ID)).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &updated)
	if err != nil {
		return existing, fmt.Errorf("failed to update daily prayer: %w", err)
	}
	if !found {
		return existing, ErrNotFound
	}

	return updated, nil
}

// dailyPrayerUpdateRecord touches only the columns named in flags.
func dailyPrayerUpdateRecord(flags map[string]bool) goqu.Record {
	record := goqu.Record{"datetime_update": goqu.L("NOW()")}
	for item, value := range flags {
		record[item] = value
	}
	return record
}

func newDailyPrayer(accountID, date string, flags map[string]bool) models.DailyPrayer {
	record := models.DailyPrayer{
		Daily_Prayer_ID: uuid.NewString(),
		Account_ID:      accountID,
		Prayer_Date:     date,
	}
	for item, value := range flags {
		record.SetFlag(item, value)
	}
	return record
}

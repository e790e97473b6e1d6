package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/CampusPrayer/models"
)

const (
	anonymousName   = "Anonymous"
	unknownUserName = "Unknown User"
)

// ValidatePrayerMessage trims message and enforces the length limit.
func ValidatePrayerMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", validationError("Prayer message is required")
	}
	if utf8.RuneCountInString(message) > models.MaxPrayerRequestLength {
		return "", validationError("Prayer message is too long (max %d characters)", models.MaxPrayerRequestLength)
	}
	return message, nil
}

// ListPrayerRequests returns one page of the prayer wall, newest first, with
// the current user's reactions marked.
func (cl *Client) ListPrayerRequests(ctx context.Context, limit, offset int) (models.PrayerRequestPage, error) {
	page := models.PrayerRequestPage{
		Requests:   []models.PrayerRequestView{},
		Pagination: models.Pagination{Limit: limit, Offset: offset},
	}

	total, err := cl.db.From("prayer_request").CountContext(ctx)
	if err != nil {
		return page, fmt.Errorf("failed to count prayer requests: %w", err)
	}
	page.Pagination.Total = total
	page.Pagination.HasMore = HasMore(offset, limit, total)

	if int64(offset) >= total {
		return page, nil
	}

	var requests []models.PrayerRequest
	err = cl.db.From("prayer_request").
		Order(goqu.C("datetime_create").Desc(), goqu.C("prayer_request_id").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ScanStructsContext(ctx, &requests)
	if err != nil {
		return page, fmt.Errorf("failed to list prayer requests: %w", err)
	}
	if len(requests) == 0 {
		return page, nil
	}

	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.Prayer_Request_ID
	}

	var reacted []string
	err = cl.db.From("prayer_reaction").
		Select("prayer_request_id").
		Where(
			goqu.C("account_id").Eq(cl.AccountID()),
			goqu.C("prayer_request_id").In(ids),
		).
		ScanValsContext(ctx, &reacted)
	if err != nil {
		return page, fmt.Errorf("failed to load reactions: %w", err)
	}

	prayed := make(map[string]bool, len(reacted))
	for _, id := range reacted {
		prayed[id] = true
	}

	now := Now()
	for _, r := range requests {
		page.Requests = append(page.Requests, NewPrayerRequestView(r, prayed[r.Prayer_Request_ID], now))
	}

	return page, nil
}

// CreatePrayerRequest posts a new request to the wall with a zero counter.
func (cl *Client) CreatePrayerRequest(ctx context.Context, input models.PrayerRequestCreate) (models.PrayerRequestView, error) {
	message, err := ValidatePrayerMessage(input.Message)
	if err != nil {
		return models.PrayerRequestView{}, err
	}

	request := models.PrayerRequest{
		Prayer_Request_ID: uuid.NewString(),
		Account_ID:        cl.AccountID(),
		User_Name:         cl.Account.DisplayName(),
		Message:           message,
		Is_Anonymous:      input.Is_Anonymous,
		Prayer_Count:      0,
	}

	var created models.PrayerRequest
	_, err = cl.db.Insert("prayer_request").
		Rows(request).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &created)
	if err != nil {
		return models.PrayerRequestView{}, fmt.Errorf("failed to create prayer request: %w", err)
	}

	return NewPrayerRequestView(created, false, Now()), nil
}

// TogglePrayerReaction records or removes the current user's prayer for a
// request. The reaction row and the counter change in one transaction and the
// counter never drops below zero. The request is returned so callers can
// notify its author.
func (cl *Client) TogglePrayerReaction(ctx context.Context, requestID string) (models.ReactionResult, models.PrayerRequest, error) {
	var result models.ReactionResult
	var request models.PrayerRequest

	found, err := cl.db.From("prayer_request").
		Where(goqu.C("prayer_request_id").Eq(requestID)).
		ScanStructContext(ctx, &request)
	if err != nil {
		return result, request, fmt.Errorf("failed to load prayer request: %w", err)
	}
	if !found {
		return result, request, ErrNotFound
	}

	err = cl.db.WithTx(func(tx *goqu.TxDatabase) error {
		var reactionID string
		reacted, err := tx.From("prayer_reaction").
			Select("prayer_reaction_id").
			Where(
				goqu.C("account_id").Eq(cl.AccountID()),
				goqu.C("prayer_request_id").Eq(requestID),
			).
			ScanValContext(ctx, &reactionID)
		if err != nil {
			return fmt.Errorf("failed to load reaction: %w", err)
		}

		delta := 1
		if reacted {
			delta = -1
			_, err = tx.Delete("prayer_reaction").
				Where(goqu.C("prayer_reaction_id").Eq(reactionID)).
				Executor().
				ExecContext(ctx)
		} else {
			_, err = tx.Insert("prayer_reaction").
				Rows(models.PrayerReaction{
					Prayer_Reaction_ID: uuid.NewString(),
					Account_ID:         cl.AccountID(),
					Prayer_Request_ID:  requestID,
				}).
				Executor().
				ExecContext(ctx)
		}
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if err != nil {
			return fmt.Errorf("failed to toggle reaction: %w", err)
		}

		var count int
		_, err = tx.Update("prayer_request").
			Set(goqu.Record{"prayer_count": goqu.L("GREATEST(prayer_count + ?, 0)", delta)}).
			Where(goqu.C("prayer_request_id").Eq(requestID)).
			Returning("prayer_count").
			Executor().
			ScanValContext(ctx, &count)
		if err != nil {
			return fmt.Errorf("failed to update prayer count: %w", err)
		}

		result = models.ReactionResult{UserPrayed: !reacted, PrayerCount: count}
		return nil
	})
	if err != nil {
		return result, request, err
	}

	request.Prayer_Count = result.PrayerCount
	return result, request, nil
}

// PrayerStats runs the four wall counters concurrently.
func (cl *Client) PrayerStats(ctx context.Context) (models.PrayerStats, error) {
	var stats models.PrayerStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := cl.db.From("prayer_request").CountContext(gctx)
		stats.TotalRequests = n
		return err
	})
	g.Go(func() error {
		n, err := cl.db.From("prayer_reaction").CountContext(gctx)
		stats.TotalPrayers = n
		return err
	})
	g.Go(func() error {
		n, err := cl.db.From("prayer_request").
			Where(goqu.C("account_id").Eq(cl.AccountID())).
			CountContext(gctx)
		stats.UserRequests = n
		return err
	})
	g.Go(func() error {
		n, err := cl.db.From("prayer_reaction").
			Where(goqu.C("account_id").Eq(cl.AccountID())).
			CountContext(gctx)
		stats.UserPrayers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return models.PrayerStats{}, fmt.Errorf("failed to load prayer stats: %w", err)
	}
	return stats, nil
}

// NewPrayerRequestView shapes a stored request for the wall. Anonymous
// requests hide both the author name and id.
func NewPrayerRequestView(r models.PrayerRequest, userPrayed bool, now time.Time) models.PrayerRequestView {
	view := models.PrayerRequestView{
		ID:             r.Prayer_Request_ID,
		User:           r.User_Name,
		Message:        r.Message,
		IsAnonymous:    r.Is_Anonymous,
		PrayerCount:    r.Prayer_Count,
		UserPrayed:     userPrayed,
		CreatedAt:      FormatTimeAgo(r.Datetime_Create, now),
		DatetimeCreate: r.Datetime_Create,
		UserID:         r.Account_ID,
	}
	if r.Is_Anonymous {
		view.User = anonymousName
		view.UserID = ""
	}
	if view.User == "" {
		view.User = unknownUserName
	}
	return view
}

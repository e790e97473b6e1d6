package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

const (
	NotificationTypePrayerReaction = "PRAYER_REACTION"

	prayerReactionDebounceMinutes = 30
)

// shouldSendDebounced claims the debounce slot for (type, target, entity).
// It returns false while a previous notification is still inside the window.
func shouldSendDebounced(ctx context.Context, notifType, targetAccountID, entityID string, windowMinutes int) bool {
	_, err := initializers.DB.Delete("notification_debounce").
		Where(goqu.L("last_triggered_at < NOW() - INTERVAL '24 hours'")).
		Executor().
		ExecContext(ctx)
	if err != nil {
		log.Printf("Error cleaning up old debounce records: %v", err)
	}

	query := `
		INSERT INTO notification_debounce (notification_type, target_account_id, entity_id, last_triggered_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (notification_type, target_account_id, entity_id)
		DO UPDATE SET last_triggered_at = NOW()
		WHERE notification_debounce.last_triggered_at < NOW() - ($4 || ' minutes')::INTERVAL
		RETURNING debounce_id
	`

	var debounceID int64
	err = initializers.DB.QueryRowContext(ctx, query, notifType, targetAccountID, entityID, windowMinutes).Scan(&debounceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		log.Printf("Error in debounce check: %v", err)
		return true
	}
	return true
}

// NotifyAuthorOfPrayerReaction tells a request's author that someone prayed
// for it. Self-reactions and repeats inside the debounce window are dropped.
func NotifyAuthorOfPrayerReaction(ctx context.Context, request models.PrayerRequest, actor models.Account) error {
	if request.Account_ID == "" || request.Account_ID == actor.Account_ID {
		return nil
	}

	service := GetPushNotificationService()
	if service == nil {
		return nil
	}

	if !shouldSendDebounced(ctx, NotificationTypePrayerReaction, request.Account_ID, request.Prayer_Request_ID, prayerReactionDebounceMinutes) {
		return nil
	}

	sent, err := service.SendNotificationToUser(ctx, request.Account_ID, prayerReactionPayload(request))
	if err != nil {
		return fmt.Errorf("failed to notify author %s: %w", request.Account_ID, err)
	}
	if sent > 0 {
		log.Printf("Prayer reaction on %s pushed to %d device(s)", request.Prayer_Request_ID, sent)
	}
	return nil
}

// NotifyAuthorOfPrayerReactionAsync runs NotifyAuthorOfPrayerReaction in the
// background with its own deadline.
func NotifyAuthorOfPrayerReactionAsync(request models.PrayerRequest, actor models.Account) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := NotifyAuthorOfPrayerReaction(ctx, request, actor); err != nil {
			log.Printf("Prayer reaction notification failed: %v", err)
		}
	}()
}

func prayerReactionPayload(request models.PrayerRequest) NotificationPayload {
	body := "Someone prayed for your request"
	if request.Prayer_Count > 1 {
		body = fmt.Sprintf("%d people have prayed for your request", request.Prayer_Count)
	}

	return NotificationPayload{
		Title: "Someone is praying for you",
		Body:  body,
		Data: map[string]string{
			"type":      NotificationTypePrayerReaction,
			"requestId": request.Prayer_Request_ID,
		},
		Sound:    "default",
		Priority: "high",
	}
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

const fcmSendTimeout = 30 * time.Second

// isUnregistered reports FCM errors that mean the token is dead.
var isUnregistered = messaging.IsUnregistered

// messageSender is the part of the FCM messaging client the service uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type PushNotificationService struct {
	sender messageSender
}

type NotificationPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Badge    *int              `json:"badge,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

var pushService *PushNotificationService

// InitPushNotificationService connects to FCM. Without credentials the
// service stays nil and notifications are skipped.
func InitPushNotificationService() {
	ctx := context.Background()

	var opts []option.ClientOption
	if path := initializers.Cfg.FirebaseServiceAccountPath; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		log.Printf("Push notifications disabled, Firebase init failed: %v", err)
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("Push notifications disabled, messaging client unavailable: %v", err)
		return
	}

	pushService = &PushNotificationService{sender: client}
	log.Println("Push notification service initialized")
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

// RegisterPushToken stores a device token for the current user. A token that
// moves to another account is reassigned.
func (cl *Client) RegisterPushToken(ctx context.Context, req models.PushTokenRequest) (models.PushToken, error) {
	token := models.PushToken{
		User_Push_Token_ID: uuid.NewString(),
		Account_ID:         cl.AccountID(),
		Push_Token:         req.PushToken,
		Platform:           req.Platform,
	}

	var saved models.PushToken
	_, err := cl.db.Insert("user_push_token").
		Rows(token).
		OnConflict(goqu.DoUpdate("push_token", goqu.Record{
			"account_id": cl.AccountID(),
			"platform":   req.Platform,
			"updated_at": goqu.L("NOW()"),
		})).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &saved)
	if err != nil {
		return saved, fmt.Errorf("failed to store push token: %w", err)
	}

	return saved, nil
}

// SendNotificationToUser pushes payload to every device the account
// registered and returns how many deliveries FCM accepted. Tokens FCM reports
// as unregistered are removed.
func (s *PushNotificationService) SendNotificationToUser(ctx context.Context, accountID string, payload NotificationPayload) (int, error) {
	var tokens []models.PushToken
	err := initializers.DB.From("user_push_token").
		Where(goqu.C("account_id").Eq(accountID)).
		ScanStructsContext(ctx, &tokens)
	if err != nil {
		return 0, fmt.Errorf("failed to load push tokens for %s: %w", accountID, err)
	}

	sent := 0
	var stale []string
	for _, token := range tokens {
		err := s.send(ctx, buildFCMMessage(token, payload))
		switch {
		case err == nil:
			sent++
		case isUnregistered(err):
			stale = append(stale, token.User_Push_Token_ID)
		default:
			log.Printf("Push to %s (%s) failed: %v", accountID, token.Platform, err)
		}
	}

	if len(stale) > 0 {
		_, err := initializers.DB.Delete("user_push_token").
			Where(goqu.C("user_push_token_id").In(stale)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			log.Printf("Failed to remove %d stale push tokens: %v", len(stale), err)
		}
	}

	return sent, nil
}

func (s *PushNotificationService) send(ctx context.Context, message *messaging.Message) error {
	if s == nil || s.sender == nil {
		return fmt.Errorf("push sender not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, fcmSendTimeout)
	defer cancel()

	_, err := s.sender.Send(ctx, message)
	return err
}

// buildFCMMessage adds the platform block matching the token's platform.
func buildFCMMessage(token models.PushToken, payload NotificationPayload) *messaging.Message {
	message := &messaging.Message{
		Token:        token.Push_Token,
		Notification: &messaging.Notification{Title: payload.Title, Body: payload.Body},
		Data:         payload.Data,
	}
	high := payload.Priority == "high"

	switch token.Platform {
	case "ios":
		aps := &messaging.Aps{
			Alert: &messaging.ApsAlert{Title: payload.Title, Body: payload.Body},
			Sound: payload.Sound,
			Badge: payload.Badge,
		}
		message.APNS = &messaging.APNSConfig{Payload: &messaging.APNSPayload{Aps: aps}}
		if high {
			message.APNS.Headers = map[string]string{"apns-priority": "10"}
		}
	case "android":
		priority := "normal"
		if high {
			priority = "high"
		}
		message.Android = &messaging.AndroidConfig{
			Priority: priority,
			Notification: &messaging.AndroidNotification{
				Title: payload.Title,
				Body:  payload.Body,
				Sound: payload.Sound,
			},
		}
	case "web":
		message.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Title: payload.Title, Body: payload.Body},
		}
	}

	return message
}

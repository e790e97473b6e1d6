package services

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CampusPrayer/models"
)

var errUnregistered = errors.New("requested entity was not found")

type fakeSender struct {
	sent []*messaging.Message
	errs map[string]error
}

func (f *fakeSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	if err := f.errs[message.Token]; err != nil {
		return "", err
	}
	f.sent = append(f.sent, message)
	return "projects/test/messages/1", nil
}

// useFakeSender installs a push service backed by an in-memory sender.
func useFakeSender(t *testing.T) *fakeSender {
	sender := &fakeSender{errs: map[string]error{}}

	originalService, originalCheck := pushService, isUnregistered
	pushService = &PushNotificationService{sender: sender}
	isUnregistered = func(err error) bool { return errors.Is(err, errUnregistered) }
	t.Cleanup(func() {
		pushService = originalService
		isUnregistered = originalCheck
	})

	return sender
}

func pushTokenRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_push_token_id", "account_id", "push_token", "platform", "created_at", "updated_at"})
}

func TestSendNotificationToUser(t *testing.T) {
	payload := NotificationPayload{Title: "t", Body: "b"}

	t.Run("no devices", func(t *testing.T) {
		mock, cleanup := setupTestDB(t)
		defer cleanup()
		sender := useFakeSender(t)

		mock.ExpectQuery(`FROM "user_push_token"`).WillReturnRows(pushTokenRows())

		sent, err := GetPushNotificationService().SendNotificationToUser(context.Background(), "acc-2", payload)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Empty(t, sender.sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removes unregistered tokens and keeps going", func(t *testing.T) {
		mock, cleanup := setupTestDB(t)
		defer cleanup()
		sender := useFakeSender(t)
		sender.errs["tok-dead"] = errUnregistered
		sender.errs["tok-flaky"] = errors.New("unavailable")

		mock.ExpectQuery(`FROM "user_push_token"`).WillReturnRows(pushTokenRows().
			AddRow("upt-1", "acc-2", "tok-dead", "ios", testNow, testNow).
			AddRow("upt-2", "acc-2", "tok-flaky", "android", testNow, testNow).
			AddRow("upt-3", "acc-2", "tok-live", "web", testNow, testNow))
		mock.ExpectExec(`DELETE FROM "user_push_token" WHERE \("user_push_token_id" IN \('upt-1'\)\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		sent, err := GetPushNotificationService().SendNotificationToUser(context.Background(), "acc-2", payload)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "tok-live", sender.sent[0].Token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("token lookup failure", func(t *testing.T) {
		mock, cleanup := setupTestDB(t)
		defer cleanup()
		useFakeSender(t)

		mock.ExpectQuery(`FROM "user_push_token"`).WillReturnError(assert.AnError)

		_, err := GetPushNotificationService().SendNotificationToUser(context.Background(), "acc-2", payload)
		assert.Error(t, err)
	})
}

func TestRegisterPushToken(t *testing.T) {
	setupTestEnv(t)
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`INSERT INTO "user_push_token" .* ON CONFLICT \(push_token\) DO UPDATE SET .*"platform"='ios'.* RETURNING \*`).
		WillReturnRows(pushTokenRows().AddRow("upt-9", "acc-1", "tok-1", "ios", testNow, testNow))

	token, err := newTestClient(mockAccount()).RegisterPushToken(context.Background(), models.PushTokenRequest{PushToken: "tok-1", Platform: "ios"})
	require.NoError(t, err)
	assert.Equal(t, "upt-9", token.User_Push_Token_ID)
	assert.Equal(t, "acc-1", token.Account_ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildFCMMessage(t *testing.T) {
	badge := 3
	payload := NotificationPayload{Title: "t", Body: "b", Sound: "default", Badge: &badge, Priority: "high"}

	ios := buildFCMMessage(models.PushToken{Push_Token: "tok", Platform: "ios"}, payload)
	if assert.NotNil(t, ios.APNS) {
		assert.Equal(t, "10", ios.APNS.Headers["apns-priority"])
		assert.Equal(t, 3, *ios.APNS.Payload.Aps.Badge)
		assert.Equal(t, "default", ios.APNS.Payload.Aps.Sound)
	}
	assert.Nil(t, ios.Android)

	android := buildFCMMessage(models.PushToken{Push_Token: "tok", Platform: "android"}, payload)
	if assert.NotNil(t, android.Android) {
		assert.Equal(t, "high", android.Android.Priority)
	}

	payload.Priority = ""
	android = buildFCMMessage(models.PushToken{Push_Token: "tok", Platform: "android"}, payload)
	assert.Equal(t, "normal", android.Android.Priority)

	web := buildFCMMessage(models.PushToken{Push_Token: "tok", Platform: "web"}, payload)
	assert.NotNil(t, web.Webpush)
	assert.Equal(t, "tok", web.Token)
	assert.Equal(t, "b", web.Notification.Body)
}

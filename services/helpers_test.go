package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

var testNow = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

// setupTestDB swaps a sqlmock-backed goqu database into initializers.DB.
func setupTestDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	originalDB := initializers.DB
	initializers.DB = goqu.New("postgres", db)

	cleanup := func() {
		db.Close()
		initializers.DB = originalDB
	}

	return mock, cleanup
}

// setupTestEnv pins the clock and installs a test configuration.
func setupTestEnv(t *testing.T) {
	originalCfg := initializers.Cfg
	originalNow := Now

	cfg := initializers.DefaultConfig()
	cfg.SessionSecret = "test-session-secret"
	initializers.Cfg = cfg
	Now = func() time.Time { return testNow }

	t.Cleanup(func() {
		initializers.Cfg = originalCfg
		Now = originalNow
	})
}

func mockAccount() models.Account {
	return models.Account{
		Account_ID:      "acc-1",
		Email:           "test@example.com",
		Name:            "Test User",
		Datetime_Create: testNow.Add(-48 * time.Hour),
		Datetime_Update: testNow.Add(-48 * time.Hour),
	}
}

func newTestClient(account models.Account) *Client {
	return &Client{
		db:        initializers.DB,
		SessionID: "sess-1",
		Account:   account,
	}
}

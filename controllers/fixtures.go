package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v4"

	"github.com/CampusPrayer/models"
	"github.com/CampusPrayer/services"
)

// Test fixture data for use in tests

var AccountColumns = []string{"account_id", "email", "name", "password", "email_verified", "datetime_create", "datetime_update"}

// MockAccount creates a sample account for testing
func MockAccount() models.Account {
	return models.Account{
		Account_ID:      "acc-1",
		Email:           "test@example.com",
		Name:            "Test User",
		Email_Verified:  true,
		Datetime_Create: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
		Datetime_Update: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
}

// MockSessionSecret signs a session credential for sessionID that is valid
// for expiresIn.
func MockSessionSecret(sessionID, accountID string, expiresIn time.Duration) string {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": accountID,
		"exp": time.Now().Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(testSessionSecret))
	return tokenString
}

// ExpectSessionLookup queues the account lookup NewSessionClient performs.
func ExpectSessionLookup(mock sqlmock.Sqlmock, account models.Account) {
	mock.ExpectQuery(`FROM "account" INNER JOIN "session"`).
		WillReturnRows(sqlmock.NewRows(AccountColumns).AddRow(
			account.Account_ID, account.Email, account.Name, nil,
			account.Email_Verified, account.Datetime_Create, account.Datetime_Update,
		))
}

// MockClient resolves a session client for MockAccount through the mock
// database, consuming one expectation.
func MockClient(t *testing.T, mock sqlmock.Sqlmock) *services.Client {
	account := MockAccount()
	ExpectSessionLookup(mock, account)

	client, err := services.NewSessionClient(context.Background(), MockSessionSecret("sess-1", account.Account_ID, time.Hour))
	if err != nil {
		t.Fatalf("Failed to create session client: %v", err)
	}
	return client
}

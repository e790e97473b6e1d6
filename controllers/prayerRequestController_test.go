package controllers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prayerRequestColumns = []string{"prayer_request_id", "account_id", "user_name", "message", "is_anonymous", "prayer_count", "datetime_create"}

// TestGetPrayerRequests tests the paginated prayer wall listing
func TestGetPrayerRequests(t *testing.T) {
	SetupTestConfig(t)

	tests := []struct {
		name           string
		query          string
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
		expectedCount  int
		expectedMore   bool
	}{
		{
			name:           "non numeric limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "limit must be a positive integer",
		},
		{
			name:           "negative offset",
			query:          "?offset=-1",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "offset must be a non-negative integer",
		},
		{
			name:  "offset past the end",
			query: "?limit=10&offset=50",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) AS "count" FROM "prayer_request"`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:  "first page with reactions",
			query: "?limit=2",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) AS "count" FROM "prayer_request"`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
				mock.ExpectQuery(`FROM "prayer_request" ORDER BY "datetime_create" DESC, "prayer_request_id" DESC LIMIT 2`).
					WillReturnRows(sqlmock.NewRows(prayerRequestColumns).
						AddRow("pr-3", "acc-2", "Maria", "Newest", false, 1, time.Now()).
						AddRow("pr-2", "acc-3", "Jon", "Older", true, 0, time.Now().Add(-2*time.Hour)))
				mock.ExpectQuery(`SELECT "prayer_request_id" FROM "prayer_reaction"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_request_id"}).AddRow("pr-3"))
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
			expectedMore:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()
			client := MockClient(t, mock)

			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			c, w := SetupTestContext()
			SetJSONRequest(c, "GET", "/api/prayers/requests"+tt.query, nil)
			SetAuthenticatedClient(c, client)

			GetPrayerRequests(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := DecodeBody(t, w)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
				return
			}

			data, ok := response["data"].([]interface{})
			require.True(t, ok, "data should be an array: %v", response["data"])
			assert.Len(t, data, tt.expectedCount)

			pagination, ok := response["pagination"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, float64(3), pagination["total"])
			assert.Equal(t, tt.expectedMore, pagination["hasMore"])

			if tt.expectedCount == 2 {
				first := data[0].(map[string]interface{})
				assert.Equal(t, "pr-3", first["id"])
				assert.Equal(t, "Maria", first["user"])
				assert.Equal(t, true, first["userPrayed"])
				assert.Equal(t, "Just now", first["createdAt"])

				second := data[1].(map[string]interface{})
				assert.Equal(t, "Anonymous", second["user"])
				assert.Equal(t, false, second["userPrayed"])
				assert.NotContains(t, second, "userId")
				assert.Equal(t, "2 hours ago", second["createdAt"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestCreatePrayerRequest tests posting to the prayer wall
func TestCreatePrayerRequest(t *testing.T) {
	SetupTestConfig(t)

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "blank message",
			body:           map[string]interface{}{"message": "   "},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Prayer message is required",
		},
		{
			name:           "message too long",
			body:           map[string]interface{}{"message": strings.Repeat("a", 501)},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Prayer message is too long (max 500 characters)",
		},
		{
			name: "anonymous request",
			body: map[string]interface{}{"message": "  Pray for finals week  ", "isAnonymous": true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "prayer_request" .*'Pray for finals week'.* RETURNING \*`).
					WillReturnRows(sqlmock.NewRows(prayerRequestColumns).
						AddRow("pr-9", "acc-1", "Test User", "Pray for finals week", true, 0, time.Now()))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "store failure",
			body: map[string]interface{}{"message": "Pray for my family"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "prayer_request"`).WillReturnError(assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create prayer request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()
			client := MockClient(t, mock)

			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/api/prayers/requests", tt.body)
			SetAuthenticatedClient(c, client)

			CreatePrayerRequest(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := DecodeBody(t, w)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			} else {
				data := dataOf(t, response)
				assert.Equal(t, "pr-9", data["id"])
				assert.Equal(t, "Anonymous", data["user"])
				assert.Equal(t, "Pray for finals week", data["message"])
				assert.Equal(t, float64(0), data["prayerCount"])
				assert.Equal(t, false, data["userPrayed"])
				assert.NotContains(t, data, "userId")
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestTogglePrayerReaction tests the pray/unpray toggle
func TestTogglePrayerReaction(t *testing.T) {
	SetupTestConfig(t)

	lookup := func(mock sqlmock.Sqlmock, count int) {
		mock.ExpectQuery(`FROM "prayer_request" WHERE \("prayer_request_id" = 'pr-1'\)`).
			WillReturnRows(sqlmock.NewRows(prayerRequestColumns).
				AddRow("pr-1", "acc-2", "Maria", "Pray for my family", false, count, time.Now()))
	}

	tests := []struct {
		name           string
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
		expectedPrayed bool
		expectedCount  float64
	}{
		{
			name: "unknown request",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM "prayer_request"`).WillReturnRows(sqlmock.NewRows(prayerRequestColumns))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Prayer request not found",
		},
		{
			name: "first prayer",
			setupMock: func(mock sqlmock.Sqlmock) {
				lookup(mock, 5)
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "prayer_reaction_id" FROM "prayer_reaction"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_reaction_id"}))
				mock.ExpectExec(`INSERT INTO "prayer_reaction"`).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectQuery(`UPDATE "prayer_request" SET "prayer_count"=GREATEST\(prayer_count \+ 1, 0\)`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_count"}).AddRow(6))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
			expectedPrayed: true,
			expectedCount:  6,
		},
		{
			name: "second toggle removes the prayer",
			setupMock: func(mock sqlmock.Sqlmock) {
				lookup(mock, 6)
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "prayer_reaction_id" FROM "prayer_reaction"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_reaction_id"}).AddRow("react-1"))
				mock.ExpectExec(`DELETE FROM "prayer_reaction"`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`UPDATE "prayer_request" SET "prayer_count"=GREATEST\(prayer_count \+ -1, 0\)`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_count"}).AddRow(5))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
			expectedPrayed: false,
			expectedCount:  5,
		},
		{
			name: "rolls back on counter failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				lookup(mock, 0)
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "prayer_reaction_id" FROM "prayer_reaction"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_reaction_id"}))
				mock.ExpectExec(`INSERT INTO "prayer_reaction"`).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectQuery(`UPDATE "prayer_request"`).WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to toggle prayer reaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()
			client := MockClient(t, mock)

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/api/prayers/requests/pr-1/react", nil)
			c.Params = gin.Params{{Key: "id", Value: "pr-1"}}
			SetAuthenticatedClient(c, client)

			TogglePrayerReaction(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := DecodeBody(t, w)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			} else {
				data := dataOf(t, response)
				assert.Equal(t, tt.expectedPrayed, data["userPrayed"])
				assert.Equal(t, tt.expectedCount, data["prayerCount"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestGetPrayerStats tests the aggregate counters
func TestGetPrayerStats(t *testing.T) {
	SetupTestConfig(t)
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()
	client := MockClient(t, mock)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`FROM "prayer_request" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))
	mock.ExpectQuery(`FROM "prayer_reaction" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery(`FROM "prayer_request" WHERE \("account_id" = 'acc-1'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM "prayer_reaction" WHERE \("account_id" = 'acc-1'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	c, w := SetupTestContext()
	SetJSONRequest(c, "GET", "/api/prayers/requests/stats", nil)
	SetAuthenticatedClient(c, client)

	GetPrayerStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, DecodeBody(t, w))
	assert.Equal(t, float64(40), data["totalRequests"])
	assert.Equal(t, float64(120), data["totalPrayers"])
	assert.Equal(t, float64(3), data["userRequests"])
	assert.Equal(t, float64(17), data["userPrayers"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

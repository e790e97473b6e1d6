package models

import "time"

const MaxPrayerRequestLength = 500

type PrayerRequest struct {
	Prayer_Request_ID string    `json:"id"`
	Account_ID        string    `json:"userId"`
	User_Name         string    `json:"userName"`
	Message           string    `json:"message"`
	Is_Anonymous      bool      `json:"isAnonymous"`
	Prayer_Count      int       `json:"prayerCount" goqu:"skipupdate"`
	Datetime_Create   time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type PrayerRequestCreate struct {
	Message      string `json:"message"`
	Is_Anonymous bool   `json:"isAnonymous"`
}

// PrayerRequestView is a prayer wall entry as the client renders it.
type PrayerRequestView struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	Message        string    `json:"message"`
	IsAnonymous    bool      `json:"isAnonymous"`
	PrayerCount    int       `json:"prayerCount"`
	UserPrayed     bool      `json:"userPrayed"`
	CreatedAt      string    `json:"createdAt"`
	DatetimeCreate time.Time `json:"datetimeCreate"`
	UserID         string    `json:"userId,omitempty"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

type PrayerRequestPage struct {
	Requests   []PrayerRequestView
	Pagination Pagination
}

package models

import "time"

// UserProfile is the application's copy of an account, written on first
// sign-in so other features can reference the user without the auth tables.
type UserProfile struct {
	Account_ID      string    `json:"userId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Provider        string    `json:"provider"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

package models

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

type Session struct {
	Session_ID      string    `json:"$id"`
	Account_ID      string    `json:"userId"`
	Provider        string    `json:"provider"`
	Datetime_Expire time.Time `json:"expire"`
	Deleted         bool      `json:"-" goqu:"skipinsert"`
	Datetime_Create time.Time `json:"-" goqu:"skipinsert"`

	// Secret is the signed credential handed to the client. It is never stored.
	Secret string `json:"-" db:"-"`
}

// AuthToken is a one-time credential issued at the end of an OAuth provider
// round trip and exchanged for a session by the callback route.
type AuthToken struct {
	Auth_Token_ID   string    `json:"$id"`
	Account_ID      string    `json:"userId"`
	Secret_Hash     string    `json:"-"`
	Provider        string    `json:"provider"`
	Datetime_Expire time.Time `json:"expire"`
	Datetime_Create time.Time `json:"-" goqu:"skipinsert"`
}

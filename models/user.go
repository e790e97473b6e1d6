package models

import "time"

// Account is the authenticated principal. Password is nil for accounts that
// only ever signed in through an OAuth provider.
type Account struct {
	Account_ID      string    `json:"$id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Password        *string   `json:"-"`
	Email_Verified  bool      `json:"emailVerification"`
	Datetime_Create time.Time `json:"registration" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"-" goqu:"skipinsert"`
}

// DisplayName falls back to the email address for accounts without a name.
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

type AccountSignup struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

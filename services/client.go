package services

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

// Client is a handle bound to one authenticated session. Every document
// operation made through it acts as Account.
type Client struct {
	db        *goqu.Database
	SessionID string
	Account   models.Account
}

// NewSessionClient validates a session secret and returns a client for its
// account. Invalid, expired, or revoked sessions return ErrUnauthorized.
func NewSessionClient(ctx context.Context, secret string) (*Client, error) {
	if secret == "" {
		return nil, ErrUnauthorized
	}

	claims, err := parseSessionSecret(secret)
	if err != nil {
		return nil, err
	}

	var account models.Account
	found, err := initializers.DB.From("account").
		Select(
			"account.account_id",
			"account.email",
			"account.name",
			"account.password",
			"account.email_verified",
			"account.datetime_create",
			"account.datetime_update",
		).
		InnerJoin(
			goqu.T("session"),
			goqu.On(goqu.Ex{"session.account_id": goqu.I("account.account_id")}),
		).
		Where(
			goqu.I("session.session_id").Eq(claims.SessionID),
			goqu.I("session.deleted").IsFalse(),
			goqu.I("session.datetime_expire").Gt(Now().UTC()),
		).
		ScanStructContext(ctx, &account)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if !found || account.Account_ID != claims.Subject {
		return nil, ErrUnauthorized
	}

	return &Client{
		db:        initializers.DB,
		SessionID: claims.SessionID,
		Account:   account,
	}, nil
}

func (cl *Client) AccountID() string {
	return cl.Account.Account_ID
}

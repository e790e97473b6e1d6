package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxNameLength     = 128

	oauthTokenTTL = 15 * time.Minute
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignup checks the signup payload and returns the cleaned values.
func ValidateSignup(signup models.AccountSignup) (models.AccountSignup, error) {
	signup.Email = NormalizeEmail(signup.Email)
	signup.Name = strings.TrimSpace(signup.Name)

	if signup.Email == "" || signup.Password == "" || signup.Name == "" {
		return signup, validationError("Email, password, and name are required")
	}
	if !emailPattern.MatchString(signup.Email) {
		return signup, validationError("Invalid email format")
	}
	if utf8.RuneCountInString(signup.Password) < MinPasswordLength {
		return signup, validationError("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(signup.Password) > MaxPasswordLength {
		return signup, validationError("Password must be at most %d characters long", MaxPasswordLength)
	}
	if utf8.RuneCountInString(signup.Name) > MaxNameLength {
		return signup, validationError("Name must be at most %d characters long", MaxNameLength)
	}

	return signup, nil
}

// CreateAccount stores a new email/password account. A taken email returns
// ErrConflict.
func CreateAccount(ctx context.Context, signup models.AccountSignup) (models.Account, error) {
	var account models.Account

	existing, err := initializers.DB.From("account").
		Where(goqu.C("email").Eq(signup.Email)).
		CountContext(ctx)
	if err != nil {
		return account, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return account, ErrConflict
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		return account, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(passwordHash)

	newAccount := models.Account{
		Account_ID: uuid.NewString(),
		Email:      signup.Email,
		Name:       signup.Name,
		Password:   &hash,
	}

	_, err = initializers.DB.Insert("account").
		Rows(newAccount).
		Returning("account_id", "email", "name", "email_verified", "datetime_create", "datetime_update").
		Executor().
		ScanStructContext(ctx, &account)
	if isUniqueViolation(err) {
		return account, ErrConflict
	}
	if err != nil {
		return account, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// CreateEmailPasswordSession verifies the credentials and opens a session.
func CreateEmailPasswordSession(ctx context.Context, email, password string) (models.Session, error) {
	var account models.Account
	found, err := initializers.DB.From("account").
		Where(goqu.C("email").Eq(NormalizeEmail(email))).
		ScanStructContext(ctx, &account)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load account: %w", err)
	}
	if !found || account.Password == nil {
		return models.Session{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*account.Password), []byte(password)); err != nil {
		return models.Session{}, ErrInvalidCredentials
	}

	return CreateSession(ctx, account.Account_ID, models.ProviderEmail)
}

// CreateSession opens a session for an already authenticated account.
func CreateSession(ctx context.Context, accountID, provider string) (models.Session, error) {
	session := models.Session{
		Session_ID:      uuid.NewString(),
		Account_ID:      accountID,
		Provider:        provider,
		Datetime_Expire: Now().Add(initializers.Cfg.SessionTTL).UTC(),
	}

	if _, err := initializers.DB.Insert("session").Rows(session).Executor().ExecContext(ctx); err != nil {
		return models.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	secret, err := signSessionSecret(session)
	if err != nil {
		return models.Session{}, err
	}
	session.Secret = secret

	return session, nil
}

func signSessionSecret(session models.Session) (string, error) {
	claims := sessionClaims{
		SessionID: session.Session_ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Account_ID,
			IssuedAt:  jwt.NewNumericDate(Now()),
			ExpiresAt: jwt.NewNumericDate(session.Datetime_Expire),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret, err := token.SignedString([]byte(initializers.Cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return secret, nil
}

func parseSessionSecret(secret string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parser.SkipClaimsValidation = true

	token, err := parser.ParseWithClaims(secret, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(initializers.Cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid || claims.SessionID == "" {
		return nil, ErrUnauthorized
	}

	if claims.ExpiresAt == nil || !Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// DeleteSession revokes the session behind secret.
func DeleteSession(ctx context.Context, secret string) error {
	claims, err := parseSessionSecret(secret)
	if err != nil {
		return err
	}

	_, err = initializers.DB.Update("session").
		Set(goqu.Record{"deleted": true}).
		Where(goqu.C("session_id").Eq(claims.SessionID)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// FindOrCreateOAuthAccount returns the account registered under email,
// creating a password-less one when none exists.
func FindOrCreateOAuthAccount(ctx context.Context, email, name string) (models.Account, error) {
	var account models.Account
	email = NormalizeEmail(email)

	found, err := initializers.DB.From("account").
		Where(goqu.C("email").Eq(email)).
		ScanStructContext(ctx, &account)
	if err != nil {
		return account, fmt.Errorf("failed to load account: %w", err)
	}
	if found {
		return account, nil
	}

	newAccount := models.Account{
		Account_ID:     uuid.NewString(),
		Email:          email,
		Name:           strings.TrimSpace(name),
		Email_Verified: true,
	}

	_, err = initializers.DB.Insert("account").
		Rows(newAccount).
		Returning("account_id", "email", "name", "email_verified", "datetime_create", "datetime_update").
		Executor().
		ScanStructContext(ctx, &account)
	if err != nil {
		return account, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// CreateOAuthToken issues the one-time userId/secret pair the OAuth callback
// exchanges for a session.
func CreateOAuthToken(ctx context.Context, accountID, provider string) (string, error) {
	secret := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}

	token := models.AuthToken{
		Auth_Token_ID:   uuid.NewString(),
		Account_ID:      accountID,
		Secret_Hash:     string(secretHash),
		Provider:        provider,
		Datetime_Expire: Now().Add(oauthTokenTTL).UTC(),
	}

	if _, err := initializers.DB.Insert("auth_token").Rows(token).Executor().ExecContext(ctx); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return secret, nil
}

// CreateSessionFromToken consumes a one-time token and opens a session for
// its account.
func CreateSessionFromToken(ctx context.Context, userID, secret string) (models.Session, error) {
	var tokens []models.AuthToken
	err := initializers.DB.From("auth_token").
		Where(
			goqu.C("account_id").Eq(userID),
			goqu.C("datetime_expire").Gt(Now().UTC()),
		).
		ScanStructsContext(ctx, &tokens)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load tokens: %w", err)
	}

	for _, token := range tokens {
		if bcrypt.CompareHashAndPassword([]byte(token.Secret_Hash), []byte(secret)) != nil {
			continue
		}

		result, err := initializers.DB.Delete("auth_token").
			Where(goqu.C("auth_token_id").Eq(token.Auth_Token_ID)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to consume token: %w", err)
		}
		// A concurrent callback already consumed it.
		if consumed, err := result.RowsAffected(); err != nil || consumed != 1 {
			return models.Session{}, ErrUnauthorized
		}

		return CreateSession(ctx, token.Account_ID, token.Provider)
	}

	return models.Session{}, ErrUnauthorized
}

// UpsertUserProfile records the profile document for an account if it does
// not exist yet.
func UpsertUserProfile(ctx context.Context, account models.Account, provider string) error {
	profile := models.UserProfile{
		Account_ID: account.Account_ID,
		Name:       account.DisplayName(),
		Email:      account.Email,
		Provider:   provider,
	}

	_, err := initializers.DB.Insert("user_profile").
		Rows(profile).
		OnConflict(goqu.DoNothing()).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

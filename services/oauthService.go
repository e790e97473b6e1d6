package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/models"
)

var (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

	// oauthEndpoints maps supported providers to their token endpoints. Tests
	// point it at a local server.
	oauthEndpoints = map[string]oauth2.Endpoint{
		models.ProviderGoogle: google.Endpoint,
	}
)

type OAuthUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// OAuthConfig returns the client configuration for provider, or an error
// when the provider is unknown or has no credentials configured.
func OAuthConfig(provider string) (*oauth2.Config, error) {
	endpoint, ok := oauthEndpoints[provider]
	if !ok {
		return nil, validationError("Unsupported OAuth provider: %s", provider)
	}
	if provider == models.ProviderGoogle && !initializers.Cfg.GoogleOAuthEnabled() {
		return nil, validationError("OAuth provider %s is not configured", provider)
	}

	return &oauth2.Config{
		ClientID:     initializers.Cfg.GoogleClientID,
		ClientSecret: initializers.Cfg.GoogleClientSecret,
		RedirectURL:  strings.TrimRight(initializers.Cfg.PublicURL, "/") + "/api/auth/oauth/" + provider + "/redirect",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     endpoint,
	}, nil
}

// CompleteOAuthLogin exchanges the provider code, finds or creates the
// matching account and issues the one-time token for the callback route.
func CompleteOAuthLogin(ctx context.Context, provider, code string) (string, string, error) {
	cfg, err := OAuthConfig(provider)
	if err != nil {
		return "", "", err
	}

	info, err := fetchOAuthUser(ctx, cfg, code)
	if err != nil {
		return "", "", err
	}
	if info.Email == "" || !info.EmailVerified {
		return "", "", validationError("OAuth account has no verified email")
	}

	account, err := FindOrCreateOAuthAccount(ctx, info.Email, info.Name)
	if err != nil {
		return "", "", err
	}

	secret, err := CreateOAuthToken(ctx, account.Account_ID, provider)
	if err != nil {
		return "", "", err
	}

	return account.Account_ID, secret, nil
}

func fetchOAuthUser(ctx context.Context, cfg *oauth2.Config, code string) (OAuthUserInfo, error) {
	var info OAuthUserInfo

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return info, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return info, err
	}

	resp, err := cfg.Client(ctx, token).Do(req)
	if err != nil {
		return info, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("user info returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, fmt.Errorf("failed to decode user info: %w", err)
	}
	return info, nil
}

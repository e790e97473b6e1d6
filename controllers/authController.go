package controllers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/models"
	"github.com/CampusPrayer/services"
)

const (
	oauthStateCookie = "oauth-state"
	oauthStateMaxAge = 10 * 60

	dashboardPath = "/dashboard"
	loginPath     = "/login"
)

func Signup(c *gin.Context) {
	var signup models.AccountSignup
	if err := c.ShouldBindJSON(&signup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	signup, err := services.ValidateSignup(signup)
	if err != nil {
		respondError(c, err, "Failed to create account. Please try again.")
		return
	}

	ctx := c.Request.Context()

	account, err := services.CreateAccount(ctx, signup)
	if errors.Is(err, services.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with the same email already exists"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to create account. Please try again.")
		return
	}

	session, err := services.CreateSession(ctx, account.Account_ID, models.ProviderEmail)
	if err != nil {
		respondError(c, err, "Failed to create account. Please try again.")
		return
	}

	if err := services.UpsertUserProfile(ctx, account, models.ProviderEmail); err != nil {
		log.Printf("Failed to create user profile for %s: %v", account.Account_ID, err)
	}
	services.SendWelcomeEmailAsync(account.Email, account.DisplayName())

	middlewares.SetSessionCookie(c, session.Secret)
	c.JSON(http.StatusCreated, gin.H{
		"userId":    account.Account_ID,
		"sessionId": session.Session_ID,
		"message":   "Account created successfully",
	})
}

func Login(c *gin.Context) {
	var login models.Login
	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if login.Email == "" || login.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	session, err := services.CreateEmailPasswordSession(c.Request.Context(), login.Email, login.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	middlewares.SetSessionCookie(c, session.Secret)
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.Session_ID,
		"message":   "Logged in successfully",
	})
}

// Logout never fails: the stored session is revoked on a best-effort basis
// and the cookie is always cleared.
func Logout(c *gin.Context) {
	if secret := middlewares.SessionSecret(c); secret != "" {
		if err := services.DeleteSession(c.Request.Context(), secret); err != nil {
			log.Printf("Session already invalid or deleted: %v", err)
		}
	}

	middlewares.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(c *gin.Context) {
	secret := middlewares.SessionSecret(c)
	if secret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session found"})
		return
	}

	client, err := services.NewSessionClient(c.Request.Context(), secret)
	if errors.Is(err, services.ErrUnauthorized) {
		middlewares.ClearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}
	if err != nil {
		log.Printf("Auth check error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": client.Account})
}

// OAuthStart sends the browser to the provider's consent page.
func OAuthStart(c *gin.Context) {
	cfg, err := services.OAuthConfig(c.Param("provider"))
	if err != nil {
		log.Printf("OAuth start failed: %v", err)
		redirectToLogin(c, "provider_unavailable")
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", initializers.Cfg.IsProduction(), true)

	c.Redirect(http.StatusFound, cfg.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// OAuthProviderRedirect handles the provider's return, then forwards a
// one-time token to OAuthCallback.
func OAuthProviderRedirect(c *gin.Context) {
	provider := c.Param("provider")

	expected, _ := c.Cookie(oauthStateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", initializers.Cfg.IsProduction(), true)

	if c.Query("error") != "" {
		redirectToLogin(c, "access_denied")
		return
	}

	state := c.Query("state")
	if expected == "" || state != expected {
		redirectToLogin(c, "invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		redirectToLogin(c, "missing_params")
		return
	}

	userID, secret, err := services.CompleteOAuthLogin(c.Request.Context(), provider, code)
	if err != nil {
		log.Printf("OAuth %s login failed: %v", provider, err)
		redirectToLogin(c, "provider_failed")
		return
	}

	query := url.Values{}
	query.Set("userId", userID)
	query.Set("secret", secret)
	c.Redirect(http.StatusFound, "/api/auth/oauth/callback?"+query.Encode())
}

// OAuthCallback exchanges the one-time userId/secret pair for a session.
// It is browser navigated, so failures redirect instead of returning JSON.
func OAuthCallback(c *gin.Context) {
	userID := c.Query("userId")
	secret := c.Query("secret")
	if userID == "" || secret == "" {
		log.Println("Missing userId or secret in OAuth callback")
		redirectToLogin(c, "missing_params")
		return
	}

	ctx := c.Request.Context()

	session, err := services.CreateSessionFromToken(ctx, userID, secret)
	if err != nil {
		log.Printf("OAuth callback error: %v", err)
		redirectToLogin(c, "session_failed")
		return
	}

	client, err := services.NewSessionClient(ctx, session.Secret)
	if err != nil {
		log.Printf("OAuth callback could not load account %s: %v", userID, err)
	} else if err := services.UpsertUserProfile(ctx, client.Account, session.Provider); err != nil {
		log.Printf("Failed to create user profile for %s: %v", userID, err)
	}

	middlewares.SetSessionCookie(c, session.Secret)
	c.Redirect(http.StatusFound, dashboardPath)
}

func redirectToLogin(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, loginPath+"?oauth_error="+url.QueryEscape(reason))
}

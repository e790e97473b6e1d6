package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/initializers"
)

// Every route sets and clears the session cookie with the same scope so
// /api calls from any page present it.

func SetSessionCookie(c *gin.Context, secret string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		initializers.Cfg.SessionCookieName,
		secret,
		int(initializers.Cfg.SessionTTL.Seconds()),
		"/",
		"",
		initializers.Cfg.IsProduction(),
		true,
	)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(initializers.Cfg.SessionCookieName, "", -1, "/", "", initializers.Cfg.IsProduction(), true)
}

func SessionSecret(c *gin.Context) string {
	secret, err := c.Cookie(initializers.Cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	return secret
}

package middlewares

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/services"
)

const ClientKey = "client"

// CheckSession resolves the session cookie into a services.Client stored
// under ClientKey. Missing cookies stop the request with 401 and invalid
// sessions also clear the cookie.
func CheckSession(c *gin.Context) {
	secret := SessionSecret(c)
	if secret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return
	}

	client, err := services.NewSessionClient(c.Request.Context(), secret)
	if errors.Is(err, services.ErrUnauthorized) {
		ClearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		c.Abort()
		return
	}
	if err != nil {
		log.Printf("Failed to resolve session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
		c.Abort()
		return
	}

	c.Set(ClientKey, client)
	c.Next()
}

// CurrentClient returns the client CheckSession stored on the context.
func CurrentClient(c *gin.Context) *services.Client {
	return c.MustGet(ClientKey).(*services.Client)
}

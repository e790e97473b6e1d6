package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/services"
)

// respondError converts a service error into the JSON error envelope.
// Unexpected errors are logged and reported with the fallback message only.
func respondError(c *gin.Context, err error, fallback string) {
	var vErr *services.ValidationError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, services.ErrUnauthorized):
		middlewares.ClearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed or session expired"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fallback})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": fallback})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

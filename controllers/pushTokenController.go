package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/models"
)

func RegisterPushToken(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, err := client.RegisterPushToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to store push token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Push token stored successfully",
		"data":    token,
	})
}

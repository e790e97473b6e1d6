package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/models"
	"github.com/CampusPrayer/services"
)

func GetPrayerRequests(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	limit, offset, err := services.ParsePagination(c.Query("limit"), c.Query("offset"))
	if err != nil {
		respondError(c, err, "Failed to fetch prayer requests")
		return
	}

	page, err := client.ListPrayerRequests(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to fetch prayer requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Requests,
		"pagination": page.Pagination,
	})
}

func CreatePrayerRequest(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	var input models.PrayerRequestCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view, err := client.CreatePrayerRequest(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to create prayer request")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    view,
	})
}

func TogglePrayerReaction(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	requestID := c.Param("id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prayer request ID is required"})
		return
	}

	result, request, err := client.TogglePrayerReaction(c.Request.Context(), requestID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to toggle prayer reaction")
		return
	}

	if result.UserPrayed {
		services.NotifyAuthorOfPrayerReactionAsync(request, client.Account)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

func GetPrayerStats(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	stats, err := client.PrayerStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch prayer statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/models"
)

// dailyPrayerData renders the enabled checklist items and the record date.
func dailyPrayerData(record models.DailyPrayer) gin.H {
	data := gin.H{"date": record.Prayer_Date}
	for _, item := range initializers.Cfg.ChecklistItems {
		data[item] = record.Flag(item)
	}
	return data
}

func GetDailyPrayer(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	record, err := client.TodayDailyPrayer(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch daily prayer data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dailyPrayerData(record),
	})
}

// UpdateDailyPrayer applies any subset of the enabled checklist flags to
// today's record. Other keys in the body are ignored.
func UpdateDailyPrayer(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	flags := make(map[string]bool)
	for _, item := range initializers.Cfg.ChecklistItems {
		raw, ok := body[item]
		if !ok || raw == nil {
			continue
		}
		value, ok := raw.(bool)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": item + " must be a boolean"})
			return
		}
		flags[item] = value
	}

	record, err := client.UpsertTodayDailyPrayer(c.Request.Context(), flags)
	if err != nil {
		respondError(c, err, "Failed to update daily prayer data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Daily prayer data updated successfully",
		"data":    dailyPrayerData(record),
	})
}

// SetDailyPrayerItem sets one checklist item for today.
func SetDailyPrayerItem(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	var update models.DailyPrayerItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !initializers.Cfg.ChecklistEnabled(update.Prayer_Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer type"})
		return
	}
	if update.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed is required"})
		return
	}

	record, err := client.SetDailyPrayerItem(c.Request.Context(), update.Prayer_Type, *update.Completed)
	if err != nil {
		respondError(c, err, "Failed to update prayer item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": update.Prayer_Type + " updated successfully",
		"data": gin.H{
			"prayer_type": update.Prayer_Type,
			"completed":   *update.Completed,
			"date":        record.Prayer_Date,
			"documentId":  record.Daily_Prayer_ID,
		},
	})
}

func GetCampusPrayerCount(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	count, err := client.CountCampusPrayersToday(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch daily campus prayer count")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    count,
	})
}

func GetPrayerStreak(c *gin.Context) {
	client := middlewares.CurrentClient(c)

	streak, err := client.CampusPrayerStreak(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to calculate prayer streak")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    streak,
	})
}

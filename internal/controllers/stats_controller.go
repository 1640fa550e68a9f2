package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geolife_tracker/internal/models"
)

// StatsController serves read-only aggregates over the loaded schema.
type StatsController struct {
	DB *gorm.DB
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{DB: db}
}

// Overview returns the row counts of the three tables.
func (sc *StatsController) Overview(c *gin.Context) {
	var users, activities, trackPoints int64
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &users},
		{&models.Activity{}, &activities},
		{&models.TrackPoint{}, &trackPoints},
	} {
		if err := sc.DB.Model(q.model).Count(q.dst).Error; err != nil {
			logrus.WithError(err).Error("Overview: count failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count rows"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users":        users,
		"activities":   activities,
		"track_points": trackPoints,
	})
}

// ActivitiesPerUser returns per-user activity counts, busiest users first.
func (sc *StatsController) ActivitiesPerUser(c *gin.Context) {
	type row struct {
		UserID        string `json:"user_id"`
		ActivityCount int64  `json:"activity_count"`
	}
	var rows []row
	err := sc.DB.Model(&models.Activity{}).
		Select("user_id, count(*) as activity_count").
		Group("user_id").
		Order("activity_count DESC, user_id ASC").
		Scan(&rows).Error
	if err != nil {
		logrus.WithError(err).Error("ActivitiesPerUser: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate activities"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// TransportationModes returns the distribution of labeled transportation
// modes. Unlabeled activities (empty mode) are excluded.
func (sc *StatsController) TransportationModes(c *gin.Context) {
	type row struct {
		TransportationMode string `json:"transportation_mode"`
		ActivityCount      int64  `json:"activity_count"`
	}
	var rows []row
	err := sc.DB.Model(&models.Activity{}).
		Select("transportation_mode, count(*) as activity_count").
		Where("transportation_mode <> ''").
		Group("transportation_mode").
		Order("activity_count DESC, transportation_mode ASC").
		Scan(&rows).Error
	if err != nil {
		logrus.WithError(err).Error("TransportationModes: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate transportation modes"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// UserActivities lists one user's activities with their bounds and mode.
func (sc *StatsController) UserActivities(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := sc.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logrus.WithError(err).Error("UserActivities: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	var activities []models.Activity
	err := sc.DB.Where("user_id = ?", id).
		Order("start_datetime ASC").
		Find(&activities).Error
	if err != nil {
		logrus.WithError(err).Error("UserActivities: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"activities": activities,
	})
}

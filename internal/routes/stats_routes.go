package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"geolife_tracker/internal/controllers"
)

func StatsRoutes(r *gin.Engine, db *gorm.DB) {
	sc := controllers.NewStatsController(db)

	stats := r.Group("/stats")
	{
		stats.GET("/", sc.Overview)
		stats.GET("/activities-per-user", sc.ActivitiesPerUser)
		stats.GET("/transportation-modes", sc.TransportationModes)
	}

	r.GET("/users/:id/activities", sc.UserActivities)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"geolife_tracker/internal/controllers"
)

func ProximityRoutes(r *gin.Engine, db *gorm.DB) {
	pc := controllers.NewProximityController(db)

	r.GET("/proximity", pc.Nearby)
}

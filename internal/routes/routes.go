package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	StatsRoutes(r, db)
	ProximityRoutes(r, db)

	return r
}

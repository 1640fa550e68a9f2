package main

import (
	"log"
	"net/http"

	"geolife_tracker/internal/config"
	"geolife_tracker/internal/logger"
	"geolife_tracker/internal/middleware"
	"geolife_tracker/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	db, err := config.OpenDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	// Setup Gin router
	r := routes.SetupRouter(db)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Analytics API running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}

package schema

import (
	"fmt"

	"gorm.io/gorm"

	"geolife_tracker/internal/models"
)

// Migrate creates the users, activities and track_points tables with their
// cascade constraints. Safe to call on an already-migrated database; it
// never touches existing rows.
func Migrate(db *gorm.DB) error {
	if isPostgres(db) {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis;").Error; err != nil {
			return fmt.Errorf("enabling postgis: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.User{}, &models.Activity{}, &models.TrackPoint{}); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Spatial schema variant: a geodetic point per trackpoint, kept out of
	// the gorm model so the other dialects stay portable. Populated by
	// CreateIndices once the bulk load is done.
	if isPostgres(db) {
		if err := db.Exec(
			"ALTER TABLE track_points ADD COLUMN IF NOT EXISTS geom geometry(Point,4326)",
		).Error; err != nil {
			return fmt.Errorf("adding geom column: %w", err)
		}
	}

	return nil
}

// Wipe drops all three tables, children first. After Wipe, Migrate
// reconstructs an empty, fully constrained schema.
func Wipe(db *gorm.DB) error {
	if err := db.Migrator().DropTable(
		&models.TrackPoint{}, &models.Activity{}, &models.User{},
	); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	return nil
}

// CreateIndices builds the secondary indexes after bulk load. Building them
// here instead of during Migrate keeps the bulk inserts from paying index
// maintenance per batch. Idempotent.
func CreateIndices(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_activities_start_datetime ON activities (start_datetime)",
		"CREATE INDEX IF NOT EXISTS idx_activities_end_datetime ON activities (end_datetime)",
		"CREATE INDEX IF NOT EXISTS idx_track_points_datetime ON track_points (datetime)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if isPostgres(db) {
		if err := db.Exec(
			"UPDATE track_points SET geom = ST_SetSRID(ST_MakePoint(longitude, latitude), 4326) WHERE geom IS NULL",
		).Error; err != nil {
			return fmt.Errorf("populating geom column: %w", err)
		}
		if err := db.Exec(
			"CREATE INDEX IF NOT EXISTS idx_track_points_geom ON track_points USING GIST (geom)",
		).Error; err != nil {
			return fmt.Errorf("creating spatial index: %w", err)
		}
	}

	return nil
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

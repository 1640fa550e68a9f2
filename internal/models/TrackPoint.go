package models

import (
	"time"
)

// TrackPoint is one data line of a trajectory file. IDs are
// auto-increment: the raw files carry no point identifier, and insertion
// order doubles as the trajectory sequence within an activity.
//
// DateDays is the source file's fractional-day timestamp (days since
// 1899-12-30 UTC). Datetime is derived from it, so the two never disagree.
// On the postgres dialect the schema manager adds a geometry(Point,4326)
// column alongside these; it is populated after bulk load, see
// schema.CreateIndices.
type TrackPoint struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ActivityID string    `json:"activity_id" gorm:"size:128;not null;index"`
	Latitude   float64   `json:"latitude" gorm:"not null"`
	Longitude  float64   `json:"longitude" gorm:"not null"`
	Altitude   float64   `json:"altitude" gorm:"not null"`
	DateDays   float64   `json:"date_days" gorm:"not null"`
	Datetime   time.Time `json:"datetime" gorm:"not null"`
}

func (TrackPoint) TableName() string {
	return "track_points"
}

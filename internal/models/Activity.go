package models

import (
	"time"
)

// Activity is one trajectory file. The ID is the deterministic string
// "<user id>-<file base name>", so reseeding without a wipe fails on the
// primary key instead of silently duplicating rows.
//
// TransportationMode is "" for unlabeled activities. Empty string, never
// NULL, so there is exactly one representation of "no mode".
type Activity struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:128"`
	UserID             string    `json:"user_id" gorm:"size:64;not null;index"`
	TransportationMode string    `json:"transportation_mode" gorm:"size:64;not null;default:''"`
	StartDatetime      time.Time `json:"start_datetime" gorm:"not null"`
	EndDatetime        time.Time `json:"end_datetime" gorm:"not null"`

	TrackPoints []TrackPoint `json:"track_points,omitempty" gorm:"foreignKey:ActivityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

package models

import "time"

// UserSettings stores a user's notification and unit preferences. One row
// per user, created on first update; a user without a row gets the zero
// values.
type UserSettings struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex"`

	// Notifications
	AfterRecording     bool
	NoRecordingForADay bool
	OverMaxOrUnderMin  bool
	AfterMeal          bool

	// Units; false is the metric default, true the alternate unit.
	SugarUnit  bool
	WeightUnit bool
	HeightUnit bool

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

package models

import "time"

// A1CRecord is one glycated-hemoglobin measurement. At most one record
// exists per user per date; re-submitting the same date overwrites the
// stored value.
type A1CRecord struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	Value      float64   `gorm:"not null"`
	RecordDate time.Time `gorm:"type:date;not null;index"`
	Message    string    `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

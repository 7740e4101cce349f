package models

import "time"

// Diary entry types.
const (
	EntryBloodSugar    = "blood_sugar"
	EntryBloodPressure = "blood_pressure"
	EntryWeight        = "weight"
	EntryDiet          = "diet"
)

// DiaryEntry is a single health measurement. One table holds all entry
// types; columns not relevant to a type stay at their zero value.
type DiaryEntry struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Type   string `gorm:"size:50;not null;index"`

	// Blood pressure
	Systolic  int
	Diastolic int
	Pulse     int

	// Weight
	Weight  float64
	BodyFat float64
	BMI     float64

	// Blood sugar
	Sugar      float64
	TimePeriod int
	Drug       int
	Exercise   int

	// Diet
	Meal  int
	Tags  []string `gorm:"serializer:json"`
	Image int
	Lat   float64
	Lng   float64

	Description string `gorm:"type:text"`

	RecordedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

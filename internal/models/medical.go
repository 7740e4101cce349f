package models

import "time"

// DiabetesType is the closed classification stored on a medical profile.
type DiabetesType int

const (
	DiabetesNone        DiabetesType = 0
	DiabetesPre         DiabetesType = 1
	DiabetesType1       DiabetesType = 2
	DiabetesType2       DiabetesType = 3
	DiabetesGestational DiabetesType = 4
)

// Valid reports whether d is one of the known classifications.
func (d DiabetesType) Valid() bool {
	return d >= DiabetesNone && d <= DiabetesGestational
}

// MedicalProfile holds a user's standing medical information: diabetes
// classification and current medication flags. One row per user, created
// on first update.
type MedicalProfile struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex"`

	DiabetesType DiabetesType `gorm:"not null;default:0"`

	// OAD is oral anti-diabetic medication.
	OAD               bool
	Insulin           bool
	AntiHypertensives bool

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

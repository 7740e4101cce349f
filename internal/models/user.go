package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system.
type User struct {
	gorm.Model
	Account      string `gorm:"size:50;index"`
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255"`
	Birthday     string `gorm:"size:20"`
	Height       float64
	Weight       float64
	Phone        string `gorm:"size:20"`
	Gender       *bool

	// Stable 8-digit code derived from the user id; cached here after first
	// issuance so clients can display it without recomputing.
	InviteCode string `gorm:"size:20;index"`

	// Expo push token for best-effort notifications.
	PushToken string `gorm:"size:255"`

	IsVerified              bool
	VerificationCode        string `gorm:"size:10"`
	VerificationCodeExpires *time.Time
}

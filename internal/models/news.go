package models

import "time"

// News is an announcement shown to all users.
type News struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Content     string `gorm:"type:text"`
	PublishedAt time.Time
	CreatedAt   time.Time
}

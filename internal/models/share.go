package models

import "time"

// ShareRecord marks a diary entry as visible to one of the sharer's
// friend categories.
type ShareRecord struct {
	ID       uint             `gorm:"primaryKey"`
	UserID   uint             `gorm:"not null;index"`
	RecordID uint             `gorm:"not null"`
	Category RelationCategory `gorm:"not null"`

	SharedAt  time.Time
	CreatedAt time.Time

	User   User       `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Record DiaryEntry `gorm:"foreignKey:RecordID;references:ID;constraint:OnDelete:CASCADE;"`
}

package models

import "time"

// FriendGroup is a user's named container for one relationship category.
// Three groups are created on registration, one per category.
type FriendGroup struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index"`
	Name      string           `gorm:"size:100;not null"`
	Category  RelationCategory `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

// DefaultFriendGroups returns the groups created for a new user.
func DefaultFriendGroups(userID uint) []FriendGroup {
	return []FriendGroup{
		{UserID: userID, Name: "Medical Team", Category: CategoryMedical},
		{UserID: userID, Name: "Family Circle", Category: CategoryFamily},
		{UserID: userID, Name: "Peer Support", Category: CategoryPeerSupport},
	}
}

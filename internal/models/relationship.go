package models

import "time"

// RelationCategory classifies a relationship. The set is closed: sharing and
// notification rules are keyed on these three values.
type RelationCategory int

const (
	CategoryMedical     RelationCategory = 0
	CategoryFamily      RelationCategory = 1
	CategoryPeerSupport RelationCategory = 2
)

// Valid reports whether c is one of the three known categories.
func (c RelationCategory) Valid() bool {
	return c >= CategoryMedical && c <= CategoryPeerSupport
}

// RelationStatus is the lifecycle state of a relationship edge. Accepted and
// Rejected are terminal; an edge is never reopened.
type RelationStatus int

const (
	StatusPending  RelationStatus = 0
	StatusAccepted RelationStatus = 1
	StatusRejected RelationStatus = 2
)

// Relationship is one directed edge between two users for one category.
// The requester initiated the edge. Accepting a pending edge flips it to
// Accepted in place and inserts the mirrored edge, so friendship can be
// queried from either side without a direction-aware join.
type Relationship struct {
	ID          uint             `gorm:"primaryKey"`
	RequesterID uint             `gorm:"not null;index"`
	TargetID    uint             `gorm:"not null;index"`
	Category    RelationCategory `gorm:"not null"`
	Status      RelationStatus   `gorm:"not null;default:0"`

	// Read is the requester-side "have I seen the outcome" flag. It is
	// orthogonal to Status and never set while the edge is still pending.
	Read bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Requester User `gorm:"foreignKey:RequesterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Target    User `gorm:"foreignKey:TargetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

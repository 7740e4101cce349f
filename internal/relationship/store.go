package relationship

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"healthtrack/backend/internal/models"
)

// Store is the narrow persistence boundary for relationship edges. No
// business rules live here; the service is the single place invariants are
// enforced. Finders return (nil, nil) when no row matches.
type Store interface {
	Insert(ctx context.Context, edge *models.Relationship) error

	// FindForTarget fetches an edge by id only if targetID is its target,
	// so a caller can never act on someone else's incoming edge.
	FindForTarget(ctx context.Context, id, targetID uint) (*models.Relationship, error)
	// FindForRequester is the outgoing-side equivalent.
	FindForRequester(ctx context.Context, id, requesterID uint) (*models.Relationship, error)

	// FindPending matches the exact direction; FindAccepted likewise.
	FindPending(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error)
	FindAccepted(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error)
	// AcceptedBetween is direction-agnostic.
	AcceptedBetween(ctx context.Context, userA, userB uint, cat models.RelationCategory) (bool, error)
	CountAccepted(ctx context.Context, userID uint, cat models.RelationCategory) (int64, error)

	ListIncoming(ctx context.Context, targetID uint) ([]models.Relationship, error)
	ListOutgoingResults(ctx context.Context, requesterID uint) ([]models.Relationship, error)
	ListAccepted(ctx context.Context, userID uint) ([]models.Relationship, error)

	// UpdateStatusFromPending flips a pending edge to a terminal status and
	// reports whether a row was actually updated. The pending guard in the
	// WHERE clause is the optimistic check that keeps concurrent accept and
	// refuse calls on the same edge from interleaving.
	UpdateStatusFromPending(ctx context.Context, id uint, to models.RelationStatus, read bool, at time.Time) (bool, error)
	SetRead(ctx context.Context, id uint, at time.Time) error

	// Transaction runs fn against a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given gorm connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Insert(ctx context.Context, edge *models.Relationship) error {
	return s.db.WithContext(ctx).Create(edge).Error
}

func (s *gormStore) findOne(ctx context.Context, query string, args ...interface{}) (*models.Relationship, error) {
	var edge models.Relationship
	err := s.db.WithContext(ctx).Where(query, args...).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *gormStore) FindForTarget(ctx context.Context, id, targetID uint) (*models.Relationship, error) {
	return s.findOne(ctx, "id = ? AND target_id = ?", id, targetID)
}

func (s *gormStore) FindForRequester(ctx context.Context, id, requesterID uint) (*models.Relationship, error) {
	return s.findOne(ctx, "id = ? AND requester_id = ?", id, requesterID)
}

func (s *gormStore) FindPending(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error) {
	return s.findOne(ctx, "requester_id = ? AND target_id = ? AND category = ? AND status = ?",
		requesterID, targetID, cat, models.StatusPending)
}

func (s *gormStore) FindAccepted(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error) {
	return s.findOne(ctx, "requester_id = ? AND target_id = ? AND category = ? AND status = ?",
		requesterID, targetID, cat, models.StatusAccepted)
}

func (s *gormStore) AcceptedBetween(ctx context.Context, userA, userB uint, cat models.RelationCategory) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)) AND category = ? AND status = ?",
			userA, userB, userB, userA, cat, models.StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) CountAccepted(ctx context.Context, userID uint, cat models.RelationCategory) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("(requester_id = ? OR target_id = ?) AND category = ? AND status = ?",
			userID, userID, cat, models.StatusAccepted).
		Count(&count).Error
	return count, err
}

func (s *gormStore) ListIncoming(ctx context.Context, targetID uint) ([]models.Relationship, error) {
	var edges []models.Relationship
	err := s.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", targetID, models.StatusPending).
		Order("created_at DESC").
		Preload("Requester").
		Find(&edges).Error
	return edges, err
}

func (s *gormStore) ListOutgoingResults(ctx context.Context, requesterID uint) ([]models.Relationship, error) {
	var edges []models.Relationship
	err := s.db.WithContext(ctx).
		Where("requester_id = ? AND (status <> ? OR read = ?)", requesterID, models.StatusPending, false).
		Order("created_at DESC").
		Preload("Target").
		Find(&edges).Error
	return edges, err
}

func (s *gormStore) ListAccepted(ctx context.Context, userID uint) ([]models.Relationship, error) {
	var edges []models.Relationship
	err := s.db.WithContext(ctx).
		Where("(requester_id = ? OR target_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Order("created_at DESC").
		Preload("Requester").
		Preload("Target").
		Find(&edges).Error
	return edges, err
}

func (s *gormStore) UpdateStatusFromPending(ctx context.Context, id uint, to models.RelationStatus, read bool, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":     to,
			"read":       read,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) SetRead(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": at,
		}).Error
}

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

package relationship

import (
	"context"

	"healthtrack/backend/internal/models"
)

// IncomingRequest is one pending edge joined with the requester's public
// identity, as shown on the recipient's request list.
type IncomingRequest struct {
	EdgeID    uint                    `json:"id"`
	Category  models.RelationCategory `json:"relation_type"`
	CreatedAt string                  `json:"created_at"`
	UserID    uint                    `json:"user_id"`
	Name      string                  `json:"name"`
	Account   string                  `json:"account"`
}

// OutgoingResult is one edge the user sent, joined with the target's
// identity. Pending edges appear until resolved; resolved edges disappear
// once marked read.
type OutgoingResult struct {
	EdgeID    uint                    `json:"id"`
	Category  models.RelationCategory `json:"relation_type"`
	Status    models.RelationStatus   `json:"status"`
	Read      bool                    `json:"read"`
	CreatedAt string                  `json:"created_at"`
	UpdatedAt string                  `json:"updated_at"`
	UserID    uint                    `json:"user_id"`
	Name      string                  `json:"name"`
	Account   string                  `json:"account"`
}

// Friend is one accepted relationship partner.
type Friend struct {
	EdgeID   uint                    `json:"id"`
	Category models.RelationCategory `json:"relation_type"`
	UserID   uint                    `json:"user_id"`
	Name     string                  `json:"name"`
	Account  string                  `json:"account"`
}

const timeLayout = "2006-01-02 15:04:05"

// ListIncoming returns the user's pending incoming requests, newest first.
func (s *Service) ListIncoming(ctx context.Context, userEmail string) ([]IncomingRequest, error) {
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	edges, err := s.store.ListIncoming(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	requests := make([]IncomingRequest, 0, len(edges))
	for _, e := range edges {
		// A missing joined user (deleted account, dangling reference) skips
		// the row; one bad row must not break the whole list.
		if e.Requester.ID == 0 {
			continue
		}
		requests = append(requests, IncomingRequest{
			EdgeID:    e.ID,
			Category:  e.Category,
			CreatedAt: e.CreatedAt.Format(timeLayout),
			UserID:    e.Requester.ID,
			Name:      e.Requester.Name,
			Account:   e.Requester.Account,
		})
	}
	return requests, nil
}

// ListOutgoingResults returns the user's sent requests that still need
// attention: anything unresolved, plus resolved outcomes not yet marked
// read. Newest first.
func (s *Service) ListOutgoingResults(ctx context.Context, userEmail string) ([]OutgoingResult, error) {
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	edges, err := s.store.ListOutgoingResults(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	results := make([]OutgoingResult, 0, len(edges))
	for _, e := range edges {
		if e.Target.ID == 0 {
			continue
		}
		results = append(results, OutgoingResult{
			EdgeID:    e.ID,
			Category:  e.Category,
			Status:    e.Status,
			Read:      e.Read,
			CreatedAt: e.CreatedAt.Format(timeLayout),
			UpdatedAt: e.UpdatedAt.Format(timeLayout),
			UserID:    e.Target.ID,
			Name:      e.Target.Name,
			Account:   e.Target.Account,
		})
	}
	return results, nil
}

// ListFriends returns the user's accepted relationships with the partner's
// identity, whichever direction the edge runs.
func (s *Service) ListFriends(ctx context.Context, userEmail string) ([]Friend, error) {
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	edges, err := s.store.ListAccepted(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Acceptance stores a mirrored edge, so every friendship shows up as
	// two rows; dedup on (partner, category).
	type pair struct {
		id  uint
		cat models.RelationCategory
	}
	seen := make(map[pair]bool)
	friends := make([]Friend, 0, len(edges))
	for _, e := range edges {
		partner := e.Target
		if e.TargetID == user.ID {
			partner = e.Requester
		}
		if partner.ID == 0 || seen[pair{partner.ID, e.Category}] {
			continue
		}
		seen[pair{partner.ID, e.Category}] = true
		friends = append(friends, Friend{
			EdgeID:   e.ID,
			Category: e.Category,
			UserID:   partner.ID,
			Name:     partner.Name,
			Account:  partner.Account,
		})
	}
	return friends, nil
}

// FriendIDs returns the ids of the user's accepted partners in a category.
func (s *Service) FriendIDs(ctx context.Context, userID uint, cat models.RelationCategory) ([]uint, error) {
	edges, err := s.store.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.Category != cat {
			continue
		}
		partnerID := e.TargetID
		if e.TargetID == userID {
			partnerID = e.RequesterID
		}
		if seen[partnerID] {
			continue
		}
		seen[partnerID] = true
		ids = append(ids, partnerID)
	}
	return ids, nil
}

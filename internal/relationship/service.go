// Package relationship implements the friend-relationship state machine:
// invite-code driven requests, the pending → accepted/rejected lifecycle,
// and the read/unread bookkeeping behind the incoming-request and
// outgoing-result views.
package relationship

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"healthtrack/backend/internal/invite"
	"healthtrack/backend/internal/models"
)

// UserDirectory is the user-lookup collaborator. Finders return (nil, nil)
// when no user matches.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Clock supplies timestamps so transitions are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Notifier delivers best-effort notifications about request activity.
// Implementations must not block for long and must swallow their own errors.
type Notifier interface {
	RequestReceived(ctx context.Context, to, from *models.User, cat models.RelationCategory)
	RequestResolved(ctx context.Context, to, by *models.User, accepted bool)
}

// AcceptOutcome distinguishes a fresh acceptance from an idempotent retry.
type AcceptOutcome int

const (
	OutcomeAccepted AcceptOutcome = iota
	OutcomeAlreadyAccepted
)

// Service orchestrates the relationship operations and is the single place
// the state-machine invariants are enforced.
type Service struct {
	store    Store
	users    UserDirectory
	resolver *invite.Resolver
	clock    Clock
	notifier Notifier
	log      *logrus.Entry
}

// NewService wires a Service. notifier may be nil.
func NewService(store Store, users UserDirectory, clock Clock, notifier Notifier) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		store:    store,
		users:    users,
		resolver: invite.NewResolver(users),
		clock:    clock,
		notifier: notifier,
		log:      logrus.WithField("component", "relationship"),
	}
}

// Send creates a pending edge from the sender to the owner of code.
func (s *Service) Send(ctx context.Context, senderEmail, code string, cat models.RelationCategory) error {
	sender, err := s.users.FindByEmail(ctx, senderEmail)
	if err != nil {
		return err
	}
	if sender == nil {
		return ErrUserNotFound
	}

	// Code shape is checked before the category so a request that is wrong
	// on both counts reports the code problem first.
	code = strings.TrimSpace(code)
	if !invite.WellFormed(code) {
		return ErrInvalidCode
	}
	if !cat.Valid() {
		return ErrInvalidCategory
	}

	target, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		// Malformed and unassigned codes surface identically so callers
		// cannot enumerate users.
		if errors.Is(err, invite.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if sender.ID == target.ID {
		return ErrCannotInviteSelf
	}

	friends, err := s.store.AcceptedBetween(ctx, sender.ID, target.ID, cat)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyFriends
	}

	pending, err := s.store.FindPending(ctx, sender.ID, target.ID, cat)
	if err != nil {
		return err
	}
	if pending != nil {
		return ErrInvitationAlreadySent
	}

	now := s.clock.Now()
	edge := &models.Relationship{
		RequesterID: sender.ID,
		TargetID:    target.ID,
		Category:    cat,
		Status:      models.StatusPending,
		Read:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, edge); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"edge":      edge.ID,
		"requester": sender.ID,
		"target":    target.ID,
		"category":  cat,
	}).Debug("invitation sent")

	if s.notifier != nil {
		s.notifier.RequestReceived(ctx, target, sender, cat)
	}
	return nil
}

// Accept flips a pending edge addressed to the accepter to Accepted and
// inserts the mirrored accepted edge. Repeating the call on an already
// accepted edge succeeds without touching storage.
func (s *Service) Accept(ctx context.Context, accepterEmail string, edgeID uint) (AcceptOutcome, error) {
	accepter, err := s.users.FindByEmail(ctx, accepterEmail)
	if err != nil {
		return 0, err
	}
	if accepter == nil {
		return 0, ErrUserNotFound
	}

	edge, err := s.store.FindForTarget(ctx, edgeID, accepter.ID)
	if err != nil {
		return 0, err
	}
	if edge == nil {
		return 0, ErrInvitationNotFound
	}

	switch edge.Status {
	case models.StatusAccepted:
		return OutcomeAlreadyAccepted, nil
	case models.StatusRejected:
		return 0, ErrAlreadyRejected
	}

	outcome := OutcomeAccepted
	now := s.clock.Now()
	err = s.store.Transaction(ctx, func(tx Store) error {
		flipped, err := tx.UpdateStatusFromPending(ctx, edge.ID, models.StatusAccepted, true, now)
		if err != nil {
			return err
		}
		if !flipped {
			// The edge changed underneath us. Re-read and classify rather
			// than guess: a concurrent accept is an idempotent success, a
			// concurrent refuse is terminal.
			current, err := tx.FindForTarget(ctx, edge.ID, accepter.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrInvitationNotFound
			}
			switch current.Status {
			case models.StatusAccepted:
				outcome = OutcomeAlreadyAccepted
				return nil
			case models.StatusRejected:
				return ErrAlreadyRejected
			}
			return ErrInvitationNotFound
		}

		// Directed dedup: the undirected check would match the edge we just
		// flipped. Only a missing reverse edge gets inserted, so retries
		// after a partial failure never double-insert.
		reverse, err := tx.FindAccepted(ctx, accepter.ID, edge.RequesterID, edge.Category)
		if err != nil {
			return err
		}
		if reverse != nil {
			return nil
		}
		return tx.Insert(ctx, &models.Relationship{
			RequesterID: accepter.ID,
			TargetID:    edge.RequesterID,
			Category:    edge.Category,
			Status:      models.StatusAccepted,
			Read:        true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return 0, err
	}

	if outcome == OutcomeAccepted {
		s.log.WithFields(logrus.Fields{
			"edge":     edge.ID,
			"accepter": accepter.ID,
		}).Debug("invitation accepted")

		if s.notifier != nil {
			if requester, err := s.users.FindByID(ctx, edge.RequesterID); err == nil && requester != nil {
				s.notifier.RequestResolved(ctx, requester, accepter, true)
			}
		}
	}
	return outcome, nil
}

// Refuse flips a pending edge addressed to the refuser to Rejected. Edges
// already in a terminal state report not-found rather than their state, so
// a party who no longer owns an actionable edge learns nothing.
func (s *Service) Refuse(ctx context.Context, refuserEmail string, edgeID uint) error {
	refuser, err := s.users.FindByEmail(ctx, refuserEmail)
	if err != nil {
		return err
	}
	if refuser == nil {
		return ErrUserNotFound
	}

	edge, err := s.store.FindForTarget(ctx, edgeID, refuser.ID)
	if err != nil {
		return err
	}
	if edge == nil || edge.Status != models.StatusPending {
		return ErrInvitationNotFound
	}

	flipped, err := s.store.UpdateStatusFromPending(ctx, edge.ID, models.StatusRejected, true, s.clock.Now())
	if err != nil {
		return err
	}
	if !flipped {
		return ErrInvitationNotFound
	}

	s.log.WithFields(logrus.Fields{
		"edge":    edge.ID,
		"refuser": refuser.ID,
	}).Debug("invitation refused")

	if s.notifier != nil {
		if requester, err := s.users.FindByID(ctx, edge.RequesterID); err == nil && requester != nil {
			s.notifier.RequestResolved(ctx, requester, refuser, false)
		}
	}
	return nil
}

// MarkResultRead marks an outgoing edge's outcome as seen. Only the
// original requester may do so, and only once an outcome exists: the read
// flag never flips on a pending edge.
func (s *Service) MarkResultRead(ctx context.Context, userEmail string, edgeID uint) error {
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	edge, err := s.store.FindForRequester(ctx, edgeID, user.ID)
	if err != nil {
		return err
	}
	if edge == nil || edge.Status == models.StatusPending {
		return ErrResultNotFound
	}
	if edge.Read {
		return nil
	}
	return s.store.SetRead(ctx, edge.ID, s.clock.Now())
}

// IsAlreadyFriend reports whether an accepted edge exists between the pair
// for the category, in either direction.
func (s *Service) IsAlreadyFriend(ctx context.Context, userA, userB uint, cat models.RelationCategory) (bool, error) {
	return s.store.AcceptedBetween(ctx, userA, userB, cat)
}

// HasFriendInCategory reports whether the user has at least one accepted
// relationship in the category. Sharing is gated on it.
func (s *Service) HasFriendInCategory(ctx context.Context, userID uint, cat models.RelationCategory) (bool, error) {
	count, err := s.store.CountAccepted(ctx, userID, cat)
	return count > 0, err
}

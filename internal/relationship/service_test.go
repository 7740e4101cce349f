package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/backend/internal/invite"
	"healthtrack/backend/internal/models"
)

type fixture struct {
	dir      *memDirectory
	store    *memStore
	clock    *fakeClock
	notifier *recordingNotifier
	svc      *Service

	alice *models.User // id 42
	bob   *models.User // id 7
	carol *models.User // id 3
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := newMemDirectory()
	f := &fixture{
		dir:      dir,
		store:    newMemStore(dir),
		clock:    newFakeClock(),
		notifier: &recordingNotifier{},
	}
	f.alice = dir.addUser(42, "alice@example.com", "Alice")
	f.bob = dir.addUser(7, "bob@example.com", "Bob")
	f.carol = dir.addUser(3, "carol@example.com", "Carol")
	f.svc = NewService(f.store, dir, f.clock, f.notifier)
	return f
}

func (f *fixture) sendAliceToBob(t *testing.T, cat models.RelationCategory) uint {
	t.Helper()
	require.NoError(t, f.svc.Send(context.Background(), f.alice.Email, invite.Issue(f.bob.ID), cat))
	incoming, err := f.svc.ListIncoming(context.Background(), f.bob.Email)
	require.NoError(t, err)
	require.NotEmpty(t, incoming)
	return incoming[0].EdgeID
}

func TestSendCreatesPendingEdge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	incoming, err := f.svc.ListIncoming(ctx, f.bob.Email)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, edgeID, incoming[0].EdgeID)
	assert.Equal(t, models.CategoryFamily, incoming[0].Category)
	assert.Equal(t, f.alice.ID, incoming[0].UserID)
	assert.Equal(t, "Alice", incoming[0].Name)

	assert.Equal(t, []uint{f.bob.ID}, f.notifier.received)
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		email   string
		code    string
		cat     models.RelationCategory
		wantErr error
	}{
		{"unknown sender", "nobody@example.com", invite.Issue(7), models.CategoryFamily, ErrUserNotFound},
		{"empty code", f.alice.Email, "", models.CategoryFamily, ErrInvalidCode},
		{"blank code", f.alice.Email, "   ", models.CategoryFamily, ErrInvalidCode},
		{"malformed code", f.alice.Email, "12ab", models.CategoryFamily, ErrInvalidCode},
		{"malformed code and bad category", f.alice.Email, "12ab", models.RelationCategory(9), ErrInvalidCode},
		{"unassigned code", f.alice.Email, invite.Issue(500), models.CategoryFamily, ErrInvalidCode},
		{"tampered suffix", f.alice.Email, "00070000", models.CategoryFamily, ErrInvalidCode},
		{"category too high", f.alice.Email, invite.Issue(7), models.RelationCategory(3), ErrInvalidCategory},
		{"category negative", f.alice.Email, invite.Issue(7), models.RelationCategory(-1), ErrInvalidCategory},
		{"self invite", f.alice.Email, invite.Issue(42), models.CategoryFamily, ErrCannotInviteSelf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Send(ctx, tt.email, tt.code, tt.cat)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was persisted by any failed send.
	assert.Zero(t, f.store.countEdges(func(*models.Relationship) bool { return true }))
}

func TestSendDuplicatePendingFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sendAliceToBob(t, models.CategoryFamily)

	err := f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryFamily)
	assert.ErrorIs(t, err, ErrInvitationAlreadySent)

	// A different category is an independent edge.
	assert.NoError(t, f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryMedical))

	// The reverse direction is also independent while pending.
	assert.NoError(t, f.svc.Send(ctx, f.bob.Email, invite.Issue(f.alice.ID), models.CategoryFamily))
}

func TestAcceptFlipsEdgeAndMirrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	outcome, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, outcome)

	// Forward edge flipped in place, read set.
	forward := f.store.edges[edgeID]
	require.NotNil(t, forward)
	assert.Equal(t, models.StatusAccepted, forward.Status)
	assert.True(t, forward.Read)

	// Exactly one mirrored accepted edge.
	reverse := f.store.countEdges(func(e *models.Relationship) bool {
		return e.RequesterID == f.bob.ID && e.TargetID == f.alice.ID &&
			e.Category == models.CategoryFamily && e.Status == models.StatusAccepted
	})
	assert.Equal(t, 1, reverse)

	assert.Equal(t, []uint{f.alice.ID}, f.notifier.resolved)
}

func TestAcceptIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	outcome, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, outcome)

	outcome, err = f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAccepted, outcome)

	// The retry must not duplicate the mirrored edge.
	reverse := f.store.countEdges(func(e *models.Relationship) bool {
		return e.RequesterID == f.bob.ID && e.TargetID == f.alice.ID && e.Status == models.StatusAccepted
	})
	assert.Equal(t, 1, reverse)

	// The retry resolves nothing new either.
	assert.Len(t, f.notifier.resolved, 1)
}

func TestAcceptOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	// The sender cannot accept their own outgoing edge, and a stranger
	// cannot accept an edge addressed to someone else. Both read as
	// not-found so edge existence never leaks.
	_, err := f.svc.Accept(ctx, f.alice.Email, edgeID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	_, err = f.svc.Accept(ctx, f.carol.Email, edgeID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	_, err = f.svc.Accept(ctx, f.bob.Email, edgeID+100)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

// raceService returns a Service whose store runs beforeFlip just ahead of
// every guarded status update, so a competing write can land between an
// operation's pre-check and its transaction.
func (f *fixture) raceService(beforeFlip func()) *Service {
	return NewService(&interceptStore{memStore: f.store, beforeFlip: beforeFlip}, f.dir, f.clock, f.notifier)
}

func TestAcceptClassifiesCompetingAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	svc := f.raceService(func() {
		f.store.edges[edgeID].Status = models.StatusAccepted
	})
	outcome, err := svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAccepted, outcome)

	// The losing call adds no mirrored edge and resolves nothing.
	assert.Zero(t, f.store.countEdges(func(e *models.Relationship) bool {
		return e.RequesterID == f.bob.ID
	}))
	assert.Empty(t, f.notifier.resolved)
}

func TestAcceptClassifiesCompetingRefuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	svc := f.raceService(func() {
		f.store.edges[edgeID].Status = models.StatusRejected
	})
	_, err := svc.Accept(ctx, f.bob.Email, edgeID)
	assert.ErrorIs(t, err, ErrAlreadyRejected)
}

func TestAcceptClassifiesCompetingDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	svc := f.raceService(func() {
		delete(f.store.edges, edgeID)
	})
	_, err := svc.Accept(ctx, f.bob.Email, edgeID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRefuseCompetingResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	svc := f.raceService(func() {
		f.store.edges[edgeID].Status = models.StatusAccepted
	})
	err := svc.Refuse(ctx, f.bob.Email, edgeID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRejectionIsSticky(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	require.NoError(t, f.svc.Refuse(ctx, f.bob.Email, edgeID))

	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	assert.ErrorIs(t, err, ErrAlreadyRejected)

	// Refusing again reads as already processed.
	err = f.svc.Refuse(ctx, f.bob.Email, edgeID)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	// No mirrored edge ever appears for a rejected invitation.
	reverse := f.store.countEdges(func(e *models.Relationship) bool {
		return e.RequesterID == f.bob.ID && e.TargetID == f.alice.ID
	})
	assert.Zero(t, reverse)
}

func TestFriendshipIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)
	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)

	ab, err := f.svc.IsAlreadyFriend(ctx, f.alice.ID, f.bob.ID, models.CategoryFamily)
	require.NoError(t, err)
	ba, err := f.svc.IsAlreadyFriend(ctx, f.bob.ID, f.alice.ID, models.CategoryFamily)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.True(t, ba)

	// Friendship is per category.
	other, err := f.svc.IsAlreadyFriend(ctx, f.alice.ID, f.bob.ID, models.CategoryMedical)
	require.NoError(t, err)
	assert.False(t, other)

	// Both directions of send now fail with AlreadyFriends.
	assert.ErrorIs(t, f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryFamily), ErrAlreadyFriends)
	assert.ErrorIs(t, f.svc.Send(ctx, f.bob.Email, invite.Issue(f.alice.ID), models.CategoryFamily), ErrAlreadyFriends)
}

func TestOutgoingResultsFiltering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)
	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)

	// Accepted and unread: visible to the requester.
	results, err := f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, edgeID, results[0].EdgeID)
	assert.Equal(t, models.StatusAccepted, results[0].Status)
	assert.False(t, results[0].Read)
	assert.Equal(t, f.bob.ID, results[0].UserID)

	// Once past Pending the edge is gone from both incoming views.
	incoming, err := f.svc.ListIncoming(ctx, f.bob.Email)
	require.NoError(t, err)
	assert.Empty(t, incoming)
	incoming, err = f.svc.ListIncoming(ctx, f.alice.Email)
	require.NoError(t, err)
	assert.Empty(t, incoming)

	// Marking read removes it from the results view.
	require.NoError(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID))
	results, err = f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMarkResultReadOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)

	// An outcome does not exist yet; pending edges cannot be marked read.
	assert.ErrorIs(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID), ErrResultNotFound)

	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)

	// Only the original requester may mark the outcome.
	assert.ErrorIs(t, f.svc.MarkResultRead(ctx, f.bob.Email, edgeID), ErrResultNotFound)
	assert.ErrorIs(t, f.svc.MarkResultRead(ctx, f.carol.Email, edgeID), ErrResultNotFound)

	require.NoError(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID))
	// Marking twice is harmless.
	require.NoError(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID))
}

func TestRefusedResultVisibleUntilRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)
	require.NoError(t, f.svc.Refuse(ctx, f.bob.Email, edgeID))

	results, err := f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusRejected, results[0].Status)

	require.NoError(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID))
	results, err = f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListsAreNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryMedical))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.svc.Send(ctx, f.carol.Email, invite.Issue(f.bob.ID), models.CategoryFamily))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryPeerSupport))

	incoming, err := f.svc.ListIncoming(ctx, f.bob.Email)
	require.NoError(t, err)
	require.Len(t, incoming, 3)
	assert.Equal(t, models.CategoryPeerSupport, incoming[0].Category)
	assert.Equal(t, models.CategoryFamily, incoming[1].Category)
	assert.Equal(t, models.CategoryMedical, incoming[2].Category)
}

func TestViewsSkipMissingUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sendAliceToBob(t, models.CategoryFamily)
	require.NoError(t, f.svc.Send(ctx, f.carol.Email, invite.Issue(f.bob.ID), models.CategoryFamily))

	// Carol's account disappears; her request row must be skipped, not
	// break the whole list.
	f.dir.removeUser(f.carol.ID)

	incoming, err := f.svc.ListIncoming(ctx, f.bob.Email)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, f.alice.ID, incoming[0].UserID)
}

func TestListFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)
	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)

	// Each side sees the other exactly once despite the mirrored edges.
	friends, err := f.svc.ListFriends(ctx, f.alice.Email)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, f.bob.ID, friends[0].UserID)

	friends, err = f.svc.ListFriends(ctx, f.bob.Email)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, f.alice.ID, friends[0].UserID)

	ids, err := f.svc.FriendIDs(ctx, f.alice.ID, models.CategoryFamily)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.bob.ID}, ids)

	ids, err = f.svc.FriendIDs(ctx, f.alice.ID, models.CategoryMedical)
	require.NoError(t, err)
	assert.Empty(t, ids)

	has, err := f.svc.HasFriendInCategory(ctx, f.alice.ID, models.CategoryFamily)
	require.NoError(t, err)
	assert.True(t, has)
}

// TestInvitationScenario walks the full lifecycle from spec'd client flows:
// send, incoming list, accept, unread result, mark read.
func TestInvitationScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A sends to B (family).
	require.NoError(t, f.svc.Send(ctx, f.alice.Email, invite.Issue(f.bob.ID), models.CategoryFamily))

	incoming, err := f.svc.ListIncoming(ctx, f.bob.Email)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, models.CategoryFamily, incoming[0].Category)
	edgeID := incoming[0].EdgeID

	// The unresolved invitation shows in A's results view as pending and
	// unread; there is no outcome to act on yet.
	results, err := f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusPending, results[0].Status)

	// B accepts.
	outcome, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, outcome)

	results, err = f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusAccepted, results[0].Status)
	assert.False(t, results[0].Read)

	friends, err := f.svc.IsAlreadyFriend(ctx, f.alice.ID, f.bob.ID, models.CategoryFamily)
	require.NoError(t, err)
	assert.True(t, friends)

	// A marks the outcome read; the results view empties.
	require.NoError(t, f.svc.MarkResultRead(ctx, f.alice.Email, edgeID))
	results, err = f.svc.ListOutgoingResults(ctx, f.alice.Email)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNilNotifierIsSafe(t *testing.T) {
	f := newFixture(t)
	f.svc = NewService(f.store, f.dir, f.clock, nil)
	ctx := context.Background()

	edgeID := f.sendAliceToBob(t, models.CategoryFamily)
	_, err := f.svc.Accept(ctx, f.bob.Email, edgeID)
	require.NoError(t, err)
}

func TestErrorClassification(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrUserNotFound))
	assert.Equal(t, KindNotFound, KindOf(ErrInvitationNotFound))
	assert.Equal(t, KindValidation, KindOf(ErrInvalidCode))
	assert.Equal(t, KindValidation, KindOf(ErrCannotInviteSelf))
	assert.Equal(t, KindConflict, KindOf(ErrAlreadyFriends))
	assert.Equal(t, KindConflict, KindOf(ErrAlreadyRejected))
	assert.Equal(t, KindStorage, KindOf(assert.AnError))

	assert.Equal(t, "INVITATION_ALREADY_SENT", CodeOf(ErrInvitationAlreadySent))
	assert.Equal(t, "STORAGE_ERROR", CodeOf(assert.AnError))
}

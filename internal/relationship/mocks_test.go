package relationship

import (
	"context"
	"sort"
	"time"

	"healthtrack/backend/internal/models"
)

// fakeClock hands out a controllable time.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// memDirectory is an in-memory UserDirectory.
type memDirectory struct {
	byID map[uint]*models.User
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byID: make(map[uint]*models.User)}
}

func (d *memDirectory) addUser(id uint, email, name string) *models.User {
	u := &models.User{Email: email, Name: name, Account: name}
	u.ID = id
	d.byID[id] = u
	return u
}

func (d *memDirectory) removeUser(id uint) { delete(d.byID, id) }

func (d *memDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range d.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return d.byID[id], nil
}

// memStore is an in-memory Store. It joins users through the directory the
// same way the gorm store preloads them.
type memStore struct {
	dir    *memDirectory
	edges  map[uint]*models.Relationship
	nextID uint
}

func newMemStore(dir *memDirectory) *memStore {
	return &memStore{dir: dir, edges: make(map[uint]*models.Relationship), nextID: 1}
}

func (s *memStore) Insert(ctx context.Context, edge *models.Relationship) error {
	edge.ID = s.nextID
	s.nextID++
	stored := *edge
	s.edges[edge.ID] = &stored
	return nil
}

// withUsers returns a copy of the edge with Requester/Target joined.
func (s *memStore) withUsers(e *models.Relationship) *models.Relationship {
	out := *e
	if u := s.dir.byID[e.RequesterID]; u != nil {
		out.Requester = *u
	}
	if u := s.dir.byID[e.TargetID]; u != nil {
		out.Target = *u
	}
	return &out
}

func (s *memStore) FindForTarget(ctx context.Context, id, targetID uint) (*models.Relationship, error) {
	e := s.edges[id]
	if e == nil || e.TargetID != targetID {
		return nil, nil
	}
	return s.withUsers(e), nil
}

func (s *memStore) FindForRequester(ctx context.Context, id, requesterID uint) (*models.Relationship, error) {
	e := s.edges[id]
	if e == nil || e.RequesterID != requesterID {
		return nil, nil
	}
	return s.withUsers(e), nil
}

func (s *memStore) FindPending(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error) {
	for _, e := range s.edges {
		if e.RequesterID == requesterID && e.TargetID == targetID && e.Category == cat && e.Status == models.StatusPending {
			return s.withUsers(e), nil
		}
	}
	return nil, nil
}

func (s *memStore) FindAccepted(ctx context.Context, requesterID, targetID uint, cat models.RelationCategory) (*models.Relationship, error) {
	for _, e := range s.edges {
		if e.RequesterID == requesterID && e.TargetID == targetID && e.Category == cat && e.Status == models.StatusAccepted {
			return s.withUsers(e), nil
		}
	}
	return nil, nil
}

func (s *memStore) AcceptedBetween(ctx context.Context, userA, userB uint, cat models.RelationCategory) (bool, error) {
	for _, e := range s.edges {
		if e.Category != cat || e.Status != models.StatusAccepted {
			continue
		}
		if (e.RequesterID == userA && e.TargetID == userB) || (e.RequesterID == userB && e.TargetID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CountAccepted(ctx context.Context, userID uint, cat models.RelationCategory) (int64, error) {
	var count int64
	for _, e := range s.edges {
		if e.Category == cat && e.Status == models.StatusAccepted && (e.RequesterID == userID || e.TargetID == userID) {
			count++
		}
	}
	return count, nil
}

func sortNewestFirst(edges []models.Relationship) {
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].CreatedAt.Equal(edges[j].CreatedAt) {
			return edges[i].CreatedAt.After(edges[j].CreatedAt)
		}
		return edges[i].ID > edges[j].ID
	})
}

func (s *memStore) ListIncoming(ctx context.Context, targetID uint) ([]models.Relationship, error) {
	var out []models.Relationship
	for _, e := range s.edges {
		if e.TargetID == targetID && e.Status == models.StatusPending {
			out = append(out, *s.withUsers(e))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) ListOutgoingResults(ctx context.Context, requesterID uint) ([]models.Relationship, error) {
	var out []models.Relationship
	for _, e := range s.edges {
		if e.RequesterID == requesterID && (e.Status != models.StatusPending || !e.Read) {
			out = append(out, *s.withUsers(e))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) ListAccepted(ctx context.Context, userID uint) ([]models.Relationship, error) {
	var out []models.Relationship
	for _, e := range s.edges {
		if e.Status == models.StatusAccepted && (e.RequesterID == userID || e.TargetID == userID) {
			out = append(out, *s.withUsers(e))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) UpdateStatusFromPending(ctx context.Context, id uint, to models.RelationStatus, read bool, at time.Time) (bool, error) {
	e := s.edges[id]
	if e == nil || e.Status != models.StatusPending {
		return false, nil
	}
	e.Status = to
	e.Read = read
	e.UpdatedAt = at
	return true, nil
}

func (s *memStore) SetRead(ctx context.Context, id uint, at time.Time) error {
	if e := s.edges[id]; e != nil {
		e.Read = true
		e.UpdatedAt = at
	}
	return nil
}

func (s *memStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

// countEdges reports how many stored edges match the predicate.
func (s *memStore) countEdges(match func(*models.Relationship) bool) int {
	n := 0
	for _, e := range s.edges {
		if match(e) {
			n++
		}
	}
	return n
}

// interceptStore wraps memStore and runs a hook right before each guarded
// status update, standing in for a writer that got there first.
type interceptStore struct {
	*memStore
	beforeFlip func()
}

func (s *interceptStore) UpdateStatusFromPending(ctx context.Context, id uint, to models.RelationStatus, read bool, at time.Time) (bool, error) {
	if s.beforeFlip != nil {
		s.beforeFlip()
	}
	return s.memStore.UpdateStatusFromPending(ctx, id, to, read, at)
}

func (s *interceptStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

// recordingNotifier captures notification calls.
type recordingNotifier struct {
	received []uint // target user ids
	resolved []uint // requester user ids
}

func (n *recordingNotifier) RequestReceived(ctx context.Context, to, from *models.User, cat models.RelationCategory) {
	n.received = append(n.received, to.ID)
}

func (n *recordingNotifier) RequestResolved(ctx context.Context, to, by *models.User, accepted bool) {
	n.resolved = append(n.resolved, to.ID)
}

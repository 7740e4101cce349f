package invite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/backend/internal/models"
)

type stubFinder struct {
	users map[uint]*models.User
}

func (f *stubFinder) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return f.users[id], nil
}

func newStubFinder(ids ...uint) *stubFinder {
	f := &stubFinder{users: make(map[uint]*models.User)}
	for _, id := range ids {
		u := &models.User{}
		u.ID = id
		f.users[id] = u
	}
	return f
}

func TestIssueFormat(t *testing.T) {
	for _, id := range []uint{1, 42, 999, 9999} {
		code := Issue(id)
		assert.Len(t, code, 8, "code for id %d", id)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit in code %q", code)
		}
	}
}

func TestIssueDeterministic(t *testing.T) {
	assert.Equal(t, Issue(42), Issue(42))
	assert.NotEqual(t, Issue(42), Issue(43))
}

func TestIssueKnownValue(t *testing.T) {
	// id 42: suffix = (42*7 + 1000) % 9000 + 1000 = 2294
	assert.Equal(t, "00422294", Issue(42))
}

func TestWellFormed(t *testing.T) {
	assert.True(t, WellFormed("00422294"))
	assert.True(t, WellFormed("99999999"))

	for _, code := range []string{"", "0042", "004222940", "0042a294", "0042 294"} {
		assert.False(t, WellFormed(code), "code %q", code)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	finder := newStubFinder(1, 42, 999, 9999)
	resolver := NewResolver(finder)

	for id := range finder.users {
		user, err := resolver.Resolve(context.Background(), Issue(id))
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, id, user.ID)
	}
}

func TestResolveRejectsMalformed(t *testing.T) {
	resolver := NewResolver(newStubFinder(42))

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"too short", "0042"},
		{"too long", "004222940"},
		{"non-digit", "0042a294"},
		{"whitespace", "0042 294"},
		{"zero id", "00002294"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.code)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestResolveRejectsTamperedSuffix(t *testing.T) {
	resolver := NewResolver(newStubFinder(42))

	// The user-id prefix is valid, but the suffix does not match a fresh
	// issue of id 42; a forged code must not resolve.
	good := Issue(42)
	for _, forged := range []string{"00420000", "00421234", "00429999"} {
		require.NotEqual(t, good, forged)
		_, err := resolver.Resolve(context.Background(), forged)
		assert.ErrorIs(t, err, ErrNotFound, "forged code %q", forged)
	}
}

func TestResolveUnknownUser(t *testing.T) {
	resolver := NewResolver(newStubFinder())
	_, err := resolver.Resolve(context.Background(), Issue(42))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueTruncatesLargeIDs(t *testing.T) {
	code := Issue(12345)
	assert.Len(t, code, 8)
	assert.Equal(t, "2345", code[:4])

	// The full id is unrecoverable from the truncated prefix, so the code
	// no longer verifies even when user 2345 exists.
	resolver := NewResolver(newStubFinder(2345, 12345))
	_, err := resolver.Resolve(context.Background(), code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueNoCollisionsBelowTenThousand(t *testing.T) {
	seen := make(map[string]uint)
	for id := uint(1); id < 10000; id++ {
		code := Issue(id)
		if prev, ok := seen[code]; ok {
			t.Fatalf("ids %d and %d collide on code %s", prev, id, code)
		}
		seen[code] = id
	}
}

// Package invite derives and verifies the 8-digit codes users hand out to
// be added as friends. A code is a pure function of the user id, so no
// lookup table is needed: the first four digits carry the id and the last
// four are a checksum-like suffix that stops people from guessing codes
// from ids alone.
package invite

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"healthtrack/backend/internal/models"
)

// ErrNotFound is returned by Resolve for any code that does not map to an
// existing user, whether it is malformed, unassigned, or tampered with.
// Callers must not be able to tell these cases apart.
var ErrNotFound = errors.New("invite: code does not resolve to a user")

const codeLen = 8

// Issue returns the invite code for a user id. Ids of 10000 and above have
// their high-order digits truncated, so only their low four digits are
// recoverable; such codes cannot be resolved.
func Issue(userID uint) string {
	suffix := (userID*7+1000)%9000 + 1000
	return fmt.Sprintf("%04d%04d", userID%10000, suffix)
}

// WellFormed reports whether code has the shape of an invite code: exactly
// eight ASCII digits. It says nothing about whether the code resolves.
func WellFormed(code string) bool {
	if len(code) != codeLen {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// UserFinder is the user-lookup collaborator Resolve needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Resolver recovers the owning user from an invite code.
type Resolver struct {
	users UserFinder
}

func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// Resolve parses the candidate user id out of code, looks the user up, and
// verifies the full code against a fresh Issue of that id. The recompute
// step is required: the suffix digits are never trusted on their own.
func (r *Resolver) Resolve(ctx context.Context, code string) (*models.User, error) {
	if !WellFormed(code) {
		return nil, ErrNotFound
	}

	id, err := strconv.Atoi(code[:4])
	if err != nil || id <= 0 {
		return nil, ErrNotFound
	}

	user, err := r.users.FindByID(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if Issue(user.ID) != code {
		return nil, ErrNotFound
	}
	return user, nil
}

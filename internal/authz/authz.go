// Package authz is the single place access decisions are made. Handlers never
// compare principals or check ownership themselves; they describe the
// operation and let Authorize accept or reject it with a typed reason.
package authz

import (
	"errors"

	"github.com/google/uuid"
)

// Principal is an authenticated actor. A nil *Principal means anonymous.
type Principal struct {
	ID       uuid.UUID
	Username string
}

// Operation classifies what the caller is trying to do.
type Operation int

const (
	// OpCatalogRead covers list/detail on books, authors and posts.
	OpCatalogRead Operation = iota
	// OpCatalogWrite covers create/update/delete on catalog resources.
	// The catalog tracks no per-object owner, so any authenticated user
	// may mutate any catalog resource.
	OpCatalogWrite
	// OpProfileRead is viewing another user's profile or follow lists.
	OpProfileRead
	// OpFollowToggle is the follow/unfollow flip against a target user.
	OpFollowToggle
	// OpEngage covers like/unlike on posts.
	OpEngage
)

// Target carries the resource-side facts a decision may need.
// For OpFollowToggle, TargetUsername identifies the user being followed.
type Target struct {
	TargetUsername string
}

// Deny reasons. These are the only failures Authorize produces; the HTTP
// layer maps them to status codes in exactly one place.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted")
	ErrSelfRelation    = errors.New("cannot follow yourself")
)

// Authorize decides whether the principal (nil = anonymous) may perform op
// against target. Rules are checked in precedence order; the first matching
// rule wins.
func Authorize(p *Principal, op Operation, target Target) error {
	switch op {
	case OpCatalogRead:
		// Catalog reads are public, authenticated or not.
		return nil
	case OpCatalogWrite, OpProfileRead, OpEngage:
		if p == nil {
			return ErrUnauthenticated
		}
		return nil
	case OpFollowToggle:
		if p == nil {
			return ErrUnauthenticated
		}
		if target.TargetUsername == p.Username {
			return ErrSelfRelation
		}
		return nil
	}
	return ErrForbidden
}

// Package graph owns the directed follow relation between users. All writes
// go through ToggleFollow, which resolves follow-vs-unfollow and the edge
// mutation in single-statement round-trips so the (follower, followee)
// invariant holds under concurrent requests.
package graph

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	databasepkg "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
)

var (
	// ErrSelfFollow is returned when a user tries to follow themself.
	ErrSelfFollow = errors.New("users cannot follow themselves")
	// ErrUserNotFound is returned when the followee username does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// ToggleResult reports which direction a toggle flipped.
type ToggleResult string

const (
	Followed   ToggleResult = "followed"
	Unfollowed ToggleResult = "unfollowed"
)

// ToggleFollow flips the follow edge from the authenticated follower to the
// user named followeeUsername.
//
// The flip is atomic per ordered pair: each toggle takes a pair-scoped
// advisory lock inside one transaction before checking membership, so
// concurrent toggles on the same pair execute one after another and N
// toggles from not-following always land on the parity of N. The INSERT
// still carries ON CONFLICT DO NOTHING against the (follower_id,
// followee_id) primary key, so the edge set never holds more than one row
// for the pair; a toggle whose insert touches zero rows removes the edge
// instead.
func ToggleFollow(ctx context.Context, followerID uuid.UUID, followerUsername, followeeUsername string) (ToggleResult, error) {
	if followeeUsername == followerUsername {
		return "", ErrSelfFollow
	}

	var followeeID uuid.UUID
	err := databasepkg.DB.GetContext(ctx, &followeeID,
		`SELECT id FROM users WHERE username=$1`, followeeUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if followeeID == followerID {
		// Usernames are unique so this only triggers on a stale token edge
		// case, but the invariant is on ids, so check ids too.
		return "", ErrSelfFollow
	}

	tx, err := databasepkg.DB.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// Serialize toggles on this ordered pair for the rest of the
	// transaction, so the membership check and the flip happen as one
	// critical section and N concurrent toggles land on the parity a
	// sequential run would produce. Unrelated pairs hash to their own
	// locks and never contend; the lock releases at commit or rollback.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text || '->' || $2::text, 0))`,
		followerID, followeeID); err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n > 0 {
		return Followed, tx.Commit()
	}

	// The edge existed while we held the lock, so this toggle removes it.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id=$1 AND followee_id=$2`,
		followerID, followeeID); err != nil {
		return "", err
	}
	return Unfollowed, tx.Commit()
}

// IsFollowing reports whether a currently follows b.
func IsFollowing(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var n int
	err := databasepkg.DB.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM follows WHERE follower_id=$1 AND followee_id=$2`, a, b)
	return n > 0, err
}

// Followers returns the usernames of everyone following the given user,
// sorted for a stable response.
func Followers(ctx context.Context, of uuid.UUID) ([]string, error) {
	names := []string{}
	err := databasepkg.DB.SelectContext(ctx, &names,
		`SELECT u.username FROM follows f
		 JOIN users u ON u.id = f.follower_id
		 WHERE f.followee_id = $1
		 ORDER BY u.username`, of)
	return names, err
}

// Following returns the usernames the given user follows, sorted.
func Following(ctx context.Context, of uuid.UUID) ([]string, error) {
	names := []string{}
	err := databasepkg.DB.SelectContext(ctx, &names,
		`SELECT u.username FROM follows f
		 JOIN users u ON u.id = f.followee_id
		 WHERE f.follower_id = $1
		 ORDER BY u.username`, of)
	return names, err
}

// Counts returns follower and following totals in one round-trip.
func Counts(ctx context.Context, of uuid.UUID) (followers int, following int, err error) {
	var row struct {
		Followers int `db:"followers"`
		Following int `db:"following"`
	}
	err = databasepkg.DB.GetContext(ctx, &row,
		`SELECT
		   (SELECT COUNT(1) FROM follows WHERE followee_id=$1) AS followers,
		   (SELECT COUNT(1) FROM follows WHERE follower_id=$1) AS following`, of)
	return row.Followers, row.Following, err
}

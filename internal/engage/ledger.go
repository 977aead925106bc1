// Package engage records likes, at most one per (user, post) pair. The
// uniqueness lives in the likes primary key; the INSERT's ON CONFLICT clause
// is how a racing duplicate observes AlreadyLiked instead of corrupting the
// ledger.
package engage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	databasepkg "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
)

var (
	// ErrAlreadyLiked is returned when the (user, post) record already exists.
	ErrAlreadyLiked = errors.New("post already liked")
	// ErrNotLiked is returned when unlike finds no record to remove.
	ErrNotLiked = errors.New("post not liked")
	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// Like inserts the (user, post) record. Exactly one of N concurrent calls for
// the same pair succeeds; the rest get ErrAlreadyLiked from the constraint,
// never a duplicate row.
func Like(ctx context.Context, userID, postID uuid.UUID) error {
	if err := postExists(ctx, postID); err != nil {
		return err
	}
	res, err := databasepkg.DB.ExecContext(ctx,
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyLiked
	}
	return nil
}

// Unlike removes the (user, post) record.
func Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	if err := postExists(ctx, postID); err != nil {
		return err
	}
	res, err := databasepkg.DB.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id=$1 AND post_id=$2`, userID, postID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotLiked
	}
	return nil
}

// Count returns the number of likes on a post.
func Count(ctx context.Context, postID uuid.UUID) (int, error) {
	var n int
	err := databasepkg.DB.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM likes WHERE post_id=$1`, postID)
	return n, err
}

func postExists(ctx context.Context, postID uuid.UUID) error {
	var one int
	err := databasepkg.DB.GetContext(ctx, &one,
		`SELECT 1 FROM posts WHERE id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

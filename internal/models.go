package database

import (
	"time"

	"github.com/google/uuid"
)

// User represents the 'users' table. Usernames are unique; the password is
// stored only as a bcrypt hash.
type User struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Author represents the 'authors' table
type Author struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Book represents the 'books' table. Books carry no owner column: any
// authenticated user may edit or delete any book (shared-editing catalog).
type Book struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	AuthorID        uuid.UUID `db:"author_id"`
	PublicationYear int       `db:"publication_year"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Post represents the 'posts' table
type Post struct {
	ID        uuid.UUID  `db:"id"`
	AuthorID  *uuid.UUID `db:"author_id"` // nullable: posts survive user deletion
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Follow represents one directed edge in the 'follows' table.
// The primary key (follower_id, followee_id) caps the table at one edge per
// ordered pair; a CHECK constraint rejects follower_id = followee_id.
type Follow struct {
	FollowerID uuid.UUID `db:"follower_id"`
	FolloweeID uuid.UUID `db:"followee_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Like represents the 'likes' table. The primary key (user_id, post_id) is
// the authoritative uniqueness constraint: concurrent double-likes resolve to
// exactly one row at the store, not in application code.
type Like struct {
	UserID    uuid.UUID `db:"user_id"`
	PostID    uuid.UUID `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`
}

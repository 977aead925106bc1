package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest defines the expected JSON body for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAuthorRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateAuthorRequest struct {
	Name *string `json:"name,omitempty"`
}

// AuthorResponse is the public shape of an author
type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBookRequest struct {
	Title           string    `json:"title" binding:"required"`
	Author          uuid.UUID `json:"author" binding:"required"`
	PublicationYear int       `json:"publication_year" binding:"required"`
}

// UpdateBookRequest allows partial updates; nil fields are left untouched
type UpdateBookRequest struct {
	Title           *string    `json:"title,omitempty"`
	Author          *uuid.UUID `json:"author,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
}

// BookResponse includes the denormalized author name used by search results
type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          uuid.UUID `json:"author"`
	AuthorName      string    `json:"author_name"`
	PublicationYear int       `json:"publication_year"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	Author    *string   `json:"author,omitempty"` // username, absent for orphaned posts
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse is returned by GET /api/profile/:username
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	IsFollowing bool      `json:"is_following"`
	JoinedAt    time.Time `json:"joined_at"`
}

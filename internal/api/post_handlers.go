package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/bus"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/engage"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/query"
)

var postsCollection = query.Collection{
	Table: "posts",
	Columns: []string{
		"posts.id", "posts.title", "posts.content",
		"users.username AS author_username", "posts.created_at",
	},
	Joins: []string{"users ON users.id = posts.author_id"},
	FilterColumns: map[string]string{
		"title":  "posts.title",
		"author": "posts.author_id",
	},
	SearchColumns: []string{"posts.title", "posts.content"},
	OrderColumns: map[string]string{
		"title":      "posts.title",
		"created_at": "posts.created_at",
	},
	DefaultOrder: "created_at",
	TieBreak:     "posts.id",
}

type postRow struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Content        string    `db:"content"`
	AuthorUsername *string   `db:"author_username"`
	CreatedAt      time.Time `db:"created_at"`
}

// ListPosts handles GET /api/posts
func ListPosts(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		respondError(c, err)
		return
	}

	sqlStr, args, err := postsCollection.Build(listSpec(c, "title", "author"))
	if err != nil {
		respondError(c, err)
		return
	}

	var rows []postRow
	if err := database.DB.Select(&rows, sqlStr, args...); err != nil {
		respondError(c, err)
		return
	}

	out := make([]PostResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, PostResponse{
			ID: r.ID, Author: r.AuthorUsername, Title: r.Title,
			Content: r.Content, CreatedAt: r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetPost handles GET /api/posts/:id, including the live like count
func GetPost(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	var row postRow
	err = database.DB.Get(&row, `SELECT posts.id, posts.title, posts.content,
	        users.username AS author_username, posts.created_at
	        FROM posts LEFT JOIN users ON users.id = posts.author_id
	        WHERE posts.id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := engage.Count(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PostResponse{
		ID: row.ID, Author: row.AuthorUsername, Title: row.Title,
		Content: row.Content, Likes: likes, CreatedAt: row.CreatedAt,
	})
}

// CreatePost handles POST /api/posts (authenticated); the caller becomes the author
func CreatePost(c *gin.Context) {
	p := currentPrincipal(c)
	if err := authz.Authorize(p, authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("post.create", err.Error())
		respondError(c, err)
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	newPost := database.Post{
		ID:        uuid.New(),
		AuthorID:  &p.ID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	insert := `INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
	           VALUES (:id, :author_id, :title, :content, :created_at, :updated_at)`
	if _, err := database.DB.NamedExec(insert, newPost); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PostResponse{
		ID: newPost.ID, Author: &p.Username, Title: newPost.Title,
		Content: newPost.Content, CreatedAt: newPost.CreatedAt,
	})
}

// UpdatePost handles PUT /api/posts/:id (authenticated, partial)
func UpdatePost(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("post.update", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var existing database.Post
	err = database.DB.Get(&existing, `SELECT id, author_id, title, content, created_at, updated_at
	        FROM posts WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Content != nil {
		existing.Content = *req.Content
	}
	existing.UpdatedAt = time.Now()

	_, err = database.DB.NamedExec(`UPDATE posts SET title=:title, content=:content,
	        updated_at=:updated_at WHERE id=:id`, existing)
	if err != nil {
		respondError(c, err)
		return
	}
	GetPost(c)
}

// DeletePost handles DELETE /api/posts/:id -> 204
func DeletePost(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("post.delete", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like -> 201, or 409 when the
// (user, post) record already exists
func LikePost(c *gin.Context) {
	p := currentPrincipal(c)
	if err := authz.Authorize(p, authz.OpEngage, authz.Target{}); err != nil {
		recordDenial("post.like", err.Error())
		respondError(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	if err := engage.Like(c.Request.Context(), p.ID, postID); err != nil {
		if err == engage.ErrAlreadyLiked {
			likeConflictTotal.Inc()
		}
		respondError(c, err)
		return
	}

	publishEngagement(c, bus.TopicPostLiked, p.Username, postID)
	c.JSON(http.StatusCreated, gin.H{"status": "liked"})
}

// UnlikePost handles DELETE /api/posts/:id/like -> 204, or 404 when there is
// no record to remove
func UnlikePost(c *gin.Context) {
	p := currentPrincipal(c)
	if err := authz.Authorize(p, authz.OpEngage, authz.Target{}); err != nil {
		recordDenial("post.unlike", err.Error())
		respondError(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	if err := engage.Unlike(c.Request.Context(), p.ID, postID); err != nil {
		respondError(c, err)
		return
	}

	publishEngagement(c, bus.TopicPostUnliked, p.Username, postID)
	c.Status(http.StatusNoContent)
}

func publishEngagement(c *gin.Context, topic, actor string, postID uuid.UUID) {
	payload, _ := json.Marshal(gin.H{"post_id": postID})
	_ = EventBus.Publish(c.Request.Context(), bus.Event{
		Topic:   topic,
		Actor:   actor,
		Subject: postID.String(),
		Payload: payload,
	})
}

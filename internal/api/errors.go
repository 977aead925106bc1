package api

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/engage"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/graph"
)

// respondError is the only place component failures become HTTP statuses.
// Handlers below this function return typed errors and never talk statuses;
// anything unrecognized is a server fault and must not leak store internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Operation not permitted"})
	case errors.Is(err, authz.ErrSelfRelation), errors.Is(err, graph.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
	case errors.Is(err, graph.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, engage.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, engage.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, gin.H{"error": "Post already liked"})
	case errors.Is(err, engage.ErrNotLiked):
		c.JSON(http.StatusNotFound, gin.H{"error": "Like not found"})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

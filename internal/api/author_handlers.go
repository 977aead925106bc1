package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/query"
)

var authorsCollection = query.Collection{
	Table:   "authors",
	Columns: []string{"authors.id", "authors.name", "authors.created_at", "authors.updated_at"},
	FilterColumns: map[string]string{
		"name": "authors.name",
	},
	SearchColumns: []string{"authors.name"},
	OrderColumns: map[string]string{
		"name": "authors.name",
	},
	DefaultOrder: "name",
	TieBreak:     "authors.id",
}

// ListAuthors handles GET /api/authors
func ListAuthors(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		respondError(c, err)
		return
	}

	sqlStr, args, err := authorsCollection.Build(listSpec(c, "name"))
	if err != nil {
		respondError(c, err)
		return
	}

	var authors []database.Author
	if err := database.DB.Select(&authors, sqlStr, args...); err != nil {
		respondError(c, err)
		return
	}

	out := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, AuthorResponse{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

// GetAuthor handles GET /api/authors/:id
func GetAuthor(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID format"})
		return
	}

	var author database.Author
	err = database.DB.Get(&author, `SELECT id, name, created_at, updated_at FROM authors WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthorResponse{ID: author.ID, Name: author.Name, CreatedAt: author.CreatedAt})
}

// CreateAuthor handles POST /api/authors (authenticated)
func CreateAuthor(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("author.create", err.Error())
		respondError(c, err)
		return
	}

	var req CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	newAuthor := database.Author{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	insert := `INSERT INTO authors (id, name, created_at, updated_at)
	           VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := database.DB.NamedExec(insert, newAuthor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthorResponse{ID: newAuthor.ID, Name: newAuthor.Name, CreatedAt: newAuthor.CreatedAt})
}

// UpdateAuthor handles PUT /api/authors/:id (authenticated, partial)
func UpdateAuthor(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("author.update", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID format"})
		return
	}

	var req UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name == nil || *req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	res, err := database.DB.Exec(`UPDATE authors SET name=$1, updated_at=NOW() WHERE id=$2`, *req.Name, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}
	GetAuthor(c)
}

// DeleteAuthor handles DELETE /api/authors/:id -> 204
func DeleteAuthor(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("author.delete", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID format"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM authors WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/query"
)

// booksCollection describes which book attributes may be filtered, searched
// and ordered on. Search spans the title and the joined author name.
var booksCollection = query.Collection{
	Table: "books",
	Columns: []string{
		"books.id", "books.title", "books.author_id",
		"authors.name AS author_name", "books.publication_year", "books.created_at",
	},
	Joins: []string{"authors ON authors.id = books.author_id"},
	FilterColumns: map[string]string{
		"title":            "books.title",
		"author":           "books.author_id",
		"publication_year": "books.publication_year",
	},
	SearchColumns: []string{"books.title", "authors.name"},
	OrderColumns: map[string]string{
		"title":            "books.title",
		"publication_year": "books.publication_year",
	},
	DefaultOrder: "title",
	TieBreak:     "books.id",
}

type bookRow struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	AuthorID        uuid.UUID `db:"author_id"`
	AuthorName      string    `db:"author_name"`
	PublicationYear int       `db:"publication_year"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r bookRow) toResponse() BookResponse {
	return BookResponse{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.AuthorID,
		AuthorName:      r.AuthorName,
		PublicationYear: r.PublicationYear,
		CreatedAt:       r.CreatedAt,
	}
}

// listSpec pulls the standard filter/search/ordering params off the URL.
func listSpec(c *gin.Context, filterAttrs ...string) query.Spec {
	filters := map[string]string{}
	for _, attr := range filterAttrs {
		if v := c.Query(attr); v != "" {
			filters[attr] = v
		}
	}
	return query.Spec{
		Filters:  filters,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
}

// ListBooks handles GET /api/books with filtering, search and ordering
func ListBooks(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		recordDenial("book.list", err.Error())
		respondError(c, err)
		return
	}

	spec := listSpec(c, "title", "author", "publication_year")
	sqlStr, args, err := booksCollection.Build(spec)
	if err != nil {
		respondError(c, err)
		return
	}

	var rows []bookRow
	if err := database.DB.Select(&rows, sqlStr, args...); err != nil {
		respondError(c, err)
		return
	}

	out := make([]BookResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toResponse())
	}
	c.JSON(http.StatusOK, out)
}

// GetBook handles GET /api/books/:id
func GetBook(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogRead, authz.Target{}); err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	var row bookRow
	err = database.DB.Get(&row, `SELECT books.id, books.title, books.author_id,
	        authors.name AS author_name, books.publication_year, books.created_at
	        FROM books JOIN authors ON authors.id = books.author_id
	        WHERE books.id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row.toResponse())
}

// CreateBook handles POST /api/books (authenticated)
func CreateBook(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("book.create", err.Error())
		respondError(c, err)
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var authorName string
	err := database.DB.Get(&authorName, `SELECT name FROM authors WHERE id=$1`, req.Author)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown author"})
			return
		}
		respondError(c, err)
		return
	}

	newBook := database.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		AuthorID:        req.Author,
		PublicationYear: req.PublicationYear,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	insert := `INSERT INTO books (id, title, author_id, publication_year, created_at, updated_at)
	           VALUES (:id, :title, :author_id, :publication_year, :created_at, :updated_at)`
	if _, err := database.DB.NamedExec(insert, newBook); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, BookResponse{
		ID:              newBook.ID,
		Title:           newBook.Title,
		Author:          newBook.AuthorID,
		AuthorName:      authorName,
		PublicationYear: newBook.PublicationYear,
		CreatedAt:       newBook.CreatedAt,
	})
}

// UpdateBook handles PUT /api/books/:id with partial semantics: absent
// fields keep their current values. Last write wins; the catalog carries no
// revision tokens.
func UpdateBook(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("book.update", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var existing database.Book
	err = database.DB.Get(&existing, `SELECT id, title, author_id, publication_year, created_at, updated_at
	        FROM books WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Author != nil {
		existing.AuthorID = *req.Author
	}
	if req.PublicationYear != nil {
		existing.PublicationYear = *req.PublicationYear
	}
	existing.UpdatedAt = time.Now()

	_, err = database.DB.NamedExec(`UPDATE books SET title=:title, author_id=:author_id,
	        publication_year=:publication_year, updated_at=:updated_at WHERE id=:id`, existing)
	if err != nil {
		respondError(c, err)
		return
	}

	var authorName string
	if err := database.DB.Get(&authorName, `SELECT name FROM authors WHERE id=$1`, existing.AuthorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BookResponse{
		ID:              existing.ID,
		Title:           existing.Title,
		Author:          existing.AuthorID,
		AuthorName:      authorName,
		PublicationYear: existing.PublicationYear,
		CreatedAt:       existing.CreatedAt,
	})
}

// DeleteBook handles DELETE /api/books/:id -> 204 with an empty body
func DeleteBook(c *gin.Context) {
	if err := authz.Authorize(currentPrincipal(c), authz.OpCatalogWrite, authz.Target{}); err != nil {
		recordDenial("book.delete", err.Error())
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func expectPostExists(mock sqlmock.Sqlmock, postID uuid.UUID) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM posts WHERE id=$1`)).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
}

func TestLikePost_Created(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)
	userID, postID := uuid.New(), uuid.New()

	expectPostExists(mock, postID)
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tok := testToken(t, userID, "alice")
	w := doJSON(t, apiRouter(), http.MethodPost, "/api/posts/"+postID.String()+"/like", "", tok)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"liked"`) {
		t.Fatalf("expected liked status, got %s", w.Body.String())
	}
}

func TestLikePost_SecondLikeIsConflict(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)
	userID, postID := uuid.New(), uuid.New()

	// The record already exists; the conditional insert touches zero rows.
	expectPostExists(mock, postID)
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tok := testToken(t, userID, "alice")
	w := doJSON(t, apiRouter(), http.MethodPost, "/api/posts/"+postID.String()+"/like", "", tok)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLikePost_UnknownPostIs404(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)
	postID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM posts WHERE id=$1`)).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	tok := testToken(t, uuid.New(), "alice")
	w := doJSON(t, apiRouter(), http.MethodPost, "/api/posts/"+postID.String()+"/like", "", tok)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLikePost_RequiresAuth(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)

	w := doJSON(t, apiRouter(), http.MethodPost, "/api/posts/"+uuid.NewString()+"/like", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("store touched on unauthenticated like: %v", err)
	}
}

func TestUnlikePost_NoContent(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)
	userID, postID := uuid.New(), uuid.New()

	expectPostExists(mock, postID)
	mock.ExpectExec("DELETE FROM likes").
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tok := testToken(t, userID, "alice")
	w := doJSON(t, apiRouter(), http.MethodDelete, "/api/posts/"+postID.String()+"/like", "", tok)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Fatalf("unlike body must be empty, got %q", w.Body.String())
	}
}

func TestUnlikePost_NothingToRemoveIs404(t *testing.T) {
	setTestSecret(t)
	mock := installMockDB(t)
	userID, postID := uuid.New(), uuid.New()

	expectPostExists(mock, postID)
	mock.ExpectExec("DELETE FROM likes").
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tok := testToken(t, userID, "alice")
	w := doJSON(t, apiRouter(), http.MethodDelete, "/api/posts/"+postID.String()+"/like", "", tok)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetPost_IncludesLikeCount(t *testing.T) {
	mock := installMockDB(t)
	postID := uuid.New()

	mock.ExpectQuery("FROM posts LEFT JOIN users").
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "author_username", "created_at"}).
			AddRow(postID, "hello", "first post", "alice", testNow()))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	w := doJSON(t, apiRouter(), http.MethodGet, "/api/posts/"+postID.String(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"likes":5`) {
		t.Fatalf("missing like count: %s", w.Body.String())
	}
}

func TestGetPost_OrphanedAuthorOmitted(t *testing.T) {
	mock := installMockDB(t)
	postID := uuid.New()

	mock.ExpectQuery("FROM posts LEFT JOIN users").
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "author_username", "created_at"}).
			AddRow(postID, "hello", "first post", nil, testNow()))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := doJSON(t, apiRouter(), http.MethodGet, "/api/posts/"+postID.String(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"author"`) {
		t.Fatalf("deleted author should be omitted: %s", w.Body.String())
	}
}

package query

import (
	"strings"
	"testing"
)

func booksCollection() Collection {
	return Collection{
		Table:   "books",
		Columns: []string{"books.id", "books.title", "books.author_id", "books.publication_year"},
		Joins:   []string{"authors ON authors.id = books.author_id"},
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
}

func TestBuild_FilterSearchOrderComposition(t *testing.T) {
	c := booksCollection()
	sql, args, err := c.Build(Spec{
		Filters:  map[string]string{"author": "a-1"},
		Search:   "django",
		Ordering: "-publication_year",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(sql, "books.author_id = $1") {
		t.Errorf("missing filter predicate: %s", sql)
	}
	if !strings.Contains(sql, "books.title ILIKE $2") || !strings.Contains(sql, "authors.name ILIKE $3") {
		t.Errorf("missing search predicates: %s", sql)
	}
	// ORDER BY must come after the WHERE clause, descending with id tie-break
	if !strings.Contains(sql, "ORDER BY books.publication_year DESC, books.id ASC") {
		t.Errorf("wrong ordering clause: %s", sql)
	}
	if strings.Index(sql, "WHERE") > strings.Index(sql, "ORDER BY") {
		t.Errorf("ORDER BY must be applied last: %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
	if args[1] != "%django%" || args[2] != "%django%" {
		t.Errorf("search pattern not applied: %v", args)
	}
}

func TestBuild_UnknownFilterIgnored(t *testing.T) {
	c := booksCollection()
	sql, args, err := c.Build(Spec{Filters: map[string]string{"isbn": "123"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(sql, "isbn") {
		t.Errorf("unknown filter leaked into SQL: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("unknown filter produced args: %v", args)
	}
}

func TestBuild_EmptySearchIsNoOp(t *testing.T) {
	c := booksCollection()
	sql, _, err := c.Build(Spec{Search: "   "})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(sql, "ILIKE") {
		t.Errorf("blank search produced predicates: %s", sql)
	}
}

func TestBuild_UnknownOrderingFallsBackToDefault(t *testing.T) {
	c := booksCollection()
	sql, _, err := c.Build(Spec{Ordering: "-price"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(sql, "ORDER BY books.title ASC, books.id ASC") {
		t.Errorf("expected default ascending order with tie-break: %s", sql)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	c := booksCollection()
	spec := Spec{
		Filters:  map[string]string{"title": "TDD", "publication_year": "2000"},
		Search:   "kent",
		Ordering: "title",
	}
	first, args1, err := c.Build(spec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < 20; i++ {
		sql, args, err := c.Build(spec)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		// Map iteration order must not leak into the generated statement.
		if sql != first || len(args) != len(args1) {
			t.Fatalf("same spec produced different SQL:\n%s\n%s", first, sql)
		}
	}
}

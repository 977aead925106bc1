// Package query builds the list queries shared by every catalog resource:
// exact-match filters, a case-insensitive substring search, and an ordering
// with a stable tie-break. Filters and search both narrow the candidate set
// inside a single WHERE clause, so their relative order cannot change the
// result; ORDER BY is always applied last.
package query

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Spec is what the caller asked for, straight from the URL query string.
type Spec struct {
	Filters  map[string]string // attribute name -> exact-match value
	Search   string            // substring searched across the collection's text columns
	Ordering string            // attribute name, "-" prefix for descending
}

// Collection describes one listable resource type. Only attributes named
// here are queryable; anything else in a Spec is silently ignored.
type Collection struct {
	Table         string
	Columns       []string
	Joins         []string          // e.g. "authors ON authors.id = books.author_id"
	FilterColumns map[string]string // exposed attribute -> qualified SQL column
	SearchColumns []string          // qualified text columns searched with ILIKE
	OrderColumns  map[string]string // exposed attribute -> qualified SQL column
	DefaultOrder  string            // exposed attribute used when Ordering is empty/unknown
	TieBreak      string            // qualified column appended to every ORDER BY
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Build composes filter -> search -> order into one SELECT. The same Spec
// always yields the same SQL and args, so re-running a query without
// intervening writes returns an identical sequence.
func (c Collection) Build(s Spec) (string, []any, error) {
	b := psql.Select(c.Columns...).From(c.Table)
	for _, j := range c.Joins {
		b = b.LeftJoin(j)
	}

	// Filters compose with AND. Unknown attribute names are not errors;
	// permissive querying means they just don't constrain anything.
	// Keys are applied in sorted order so the same Spec always produces
	// the same statement regardless of map iteration order.
	attrs := make([]string, 0, len(s.Filters))
	for attr := range s.Filters {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		col, ok := c.FilterColumns[attr]
		if !ok {
			continue
		}
		b = b.Where(sq.Eq{col: s.Filters[attr]})
	}

	// Empty search is a no-op, not an error.
	if term := strings.TrimSpace(s.Search); term != "" {
		pattern := "%" + term + "%"
		or := make(sq.Or, 0, len(c.SearchColumns))
		for _, col := range c.SearchColumns {
			or = append(or, sq.ILike{col: pattern})
		}
		if len(or) > 0 {
			b = b.Where(or)
		}
	}

	b = b.OrderBy(c.orderBy(s.Ordering)...)
	return b.ToSql()
}

// orderBy resolves the requested ordering, falling back to the default when
// the attribute is unknown, and always appends the tie-break column so that
// equal keys sort deterministically.
func (c Collection) orderBy(ordering string) []string {
	attr := strings.TrimSpace(ordering)
	desc := strings.HasPrefix(attr, "-")
	if desc {
		attr = attr[1:]
	}
	col, ok := c.OrderColumns[attr]
	if !ok {
		col = c.OrderColumns[c.DefaultOrder]
		desc = false
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	clauses := []string{col + dir}
	if c.TieBreak != "" && c.TieBreak != col {
		clauses = append(clauses, c.TieBreak+" ASC")
	}
	return clauses
}

// Package filter assembles parameterized list queries from an optional
// search term and optional exact-match values.
//
// User input only ever reaches the query as bound arguments. Column names
// come from code and are checked against an identifier pattern.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultOrderColumn = "created_at"
	likeEscape         = "!"
)

var (
	ErrInvalidColumn   = errors.New("filter: invalid column identifier")
	ErrNoSearchColumns = errors.New("filter: search requires at least one column")

	identifier  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	likeEscaper = strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
)

// Optional maps an absent or blank value to nil so that an empty string
// never means "match the empty string".
func Optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// OptionalPtr is Optional for values that are already pointers.
func OptionalPtr(v *string) *string {
	if v == nil {
		return nil
	}
	return Optional(*v)
}

type equality struct {
	column string
	value  string
}

type Builder struct {
	term          *string
	searchColumns []string
	equals        []equality
	orderColumn   string
}

func NewBuilder() *Builder {
	return &Builder{orderColumn: DefaultOrderColumn}
}

// Search matches term as a case-insensitive substring of any of columns.
func (b *Builder) Search(term *string, columns ...string) *Builder {
	b.term = OptionalPtr(term)
	b.searchColumns = columns
	return b
}

// Equal adds "column = value" when value is present.
func (b *Builder) Equal(column string, value *string) *Builder {
	if v := OptionalPtr(value); v != nil {
		b.equals = append(b.equals, equality{column: column, value: *v})
	}
	return b
}

// OrderByDesc sets the creation-time column. Results are always newest first.
func (b *Builder) OrderByDesc(column string) *Builder {
	b.orderColumn = column
	return b
}

// Query is the built predicate set, ready to run against the store.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
}

func (b *Builder) Build() (Query, error) {
	var (
		clauses []string
		args    []any
	)

	if b.term != nil {
		if len(b.searchColumns) == 0 {
			return Query{}, ErrNoSearchColumns
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(*b.term)) + "%"
		ors := make([]string, 0, len(b.searchColumns))
		for _, col := range b.searchColumns {
			if !identifier.MatchString(col) {
				return Query{}, fmt.Errorf("%w: %q", ErrInvalidColumn, col)
			}
			ors = append(ors, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", col, likeEscape))
			args = append(args, pattern)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	for _, eq := range b.equals {
		if !identifier.MatchString(eq.column) {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidColumn, eq.column)
		}
		clauses = append(clauses, eq.column+" = ?")
		args = append(args, eq.value)
	}

	if !identifier.MatchString(b.orderColumn) {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidColumn, b.orderColumn)
	}

	return Query{
		Where:   strings.Join(clauses, " AND "),
		Args:    args,
		OrderBy: b.orderColumn + " DESC",
	}, nil
}

// Scope applies the query to a gorm chain.
func (q Query) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Where != "" {
			db = db.Where(q.Where, q.Args...)
		}
		if q.OrderBy != "" {
			db = db.Order(q.OrderBy)
		}
		return db
	}
}

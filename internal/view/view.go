// Package view builds denormalized read models in a single SQL statement:
// a base table, lateral lookups that attach related rows or fold them into
// derived fields, a projection, filters and ordering.
package view

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cond is a SQL fragment with its positional arguments
type Cond struct {
	SQL  string
	Args []interface{}
}

// On builds a Cond
func On(sql string, args ...interface{}) Cond {
	return Cond{SQL: sql, Args: args}
}

// Field is a derived column computed inside an Aggregate lookup
type Field struct {
	name string
	expr string
	args []interface{}
}

// Count counts the related rows
func Count(name string) Field {
	return Field{name: name, expr: "COUNT(*)"}
}

// Sum adds up the integer column col over the related rows, 0 when there
// are none
func Sum(name, col string) Field {
	return Field{name: name, expr: "COALESCE(SUM(" + col + "), 0)::bigint"}
}

// Contains reports whether any related row has col = actor.
// An anonymous actor (uuid.Nil) always yields FALSE.
func Contains(name, col string, actor uuid.UUID) Field {
	if actor == uuid.Nil {
		return Field{name: name, expr: "FALSE"}
	}
	return Field{name: name, expr: "COALESCE(BOOL_OR(" + col + " = ?), FALSE)", args: []interface{}{actor}}
}

// Lookup is a LEFT JOIN LATERAL against related rows. Base rows are never
// dropped by a lookup: with no related rows a First lookup yields NULLs and
// an Aggregate lookup yields its zero values.
type Lookup struct {
	sql  string
	args []interface{}
}

// First attaches at most one related row (the first by orderBy).
// columns are the inner select list, e.g. "u.username".
func First(alias, from string, match Cond, orderBy string, columns ...string) Lookup {
	var b strings.Builder
	b.WriteString("LEFT JOIN LATERAL (SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)
	b.WriteString(" WHERE ")
	b.WriteString(match.SQL)
	if orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(orderBy)
	}
	b.WriteString(" LIMIT 1) AS ")
	b.WriteString(alias)
	b.WriteString(" ON TRUE")
	return Lookup{sql: b.String(), args: append([]interface{}{}, match.Args...)}
}

// Aggregate folds the related rows matching match into fields
func Aggregate(alias, from string, match Cond, fields ...Field) Lookup {
	var (
		b    strings.Builder
		args []interface{}
	)
	b.WriteString("LEFT JOIN LATERAL (SELECT ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.expr)
		b.WriteString(" AS ")
		b.WriteString(f.name)
		args = append(args, f.args...)
	}
	b.WriteString(" FROM ")
	b.WriteString(from)
	b.WriteString(" WHERE ")
	b.WriteString(match.SQL)
	b.WriteString(") AS ")
	b.WriteString(alias)
	b.WriteString(" ON TRUE")
	args = append(args, match.Args...)
	return Lookup{sql: b.String(), args: args}
}

// Query is one read model.
// Join holds inner joins that restrict the base rows; they take part in
// Count. Lookups only add columns and are left out of Count. Where may
// reference the base alias and Join aliases only.
type Query struct {
	From    string
	Alias   string
	Join    []Cond
	Lookups []Lookup
	Select  []string
	Where   []Cond
	Order   []string
}

func (q Query) writeFrom(b *strings.Builder, args *[]interface{}, withLookups bool) {
	b.WriteString(" FROM ")
	b.WriteString(q.From)
	b.WriteString(" AS ")
	b.WriteString(q.Alias)
	for _, j := range q.Join {
		b.WriteString(" ")
		b.WriteString(j.SQL)
		*args = append(*args, j.Args...)
	}
	if withLookups {
		for _, l := range q.Lookups {
			b.WriteString(" ")
			b.WriteString(l.sql)
			*args = append(*args, l.args...)
		}
	}
	if len(q.Where) > 0 {
		b.WriteString(" WHERE ")
		for i, w := range q.Where {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString("(")
			b.WriteString(w.SQL)
			b.WriteString(")")
			*args = append(*args, w.Args...)
		}
	}
}

// SQL compiles the full select with an optional window (limit <= 0 means none)
func (q Query) SQL(limit, offset int) (string, []interface{}) {
	var (
		b    strings.Builder
		args []interface{}
	)
	b.WriteString("SELECT ")
	if len(q.Select) == 0 {
		b.WriteString(q.Alias + ".*")
	} else {
		b.WriteString(strings.Join(q.Select, ", "))
	}
	q.writeFrom(&b, &args, true)
	if len(q.Order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.Order, ", "))
	}
	if limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, offset)
	}
	return b.String(), args
}

// CountSQL compiles the count of base rows
func (q Query) CountSQL() (string, []interface{}) {
	var (
		b    strings.Builder
		args []interface{}
	)
	b.WriteString("SELECT COUNT(*)")
	q.writeFrom(&b, &args, false)
	return b.String(), args
}

// Find scans every row into dest
func (q Query) Find(ctx context.Context, db *gorm.DB, dest interface{}) error {
	sql, args := q.SQL(0, 0)
	return db.WithContext(ctx).Raw(sql, args...).Scan(dest).Error
}

// Window scans one slice of rows into dest
func (q Query) Window(ctx context.Context, db *gorm.DB, limit, offset int, dest interface{}) error {
	sql, args := q.SQL(limit, offset)
	return db.WithContext(ctx).Raw(sql, args...).Scan(dest).Error
}

// Count returns the number of base rows
func (q Query) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	sql, args := q.CountSQL()
	var total int64
	err := db.WithContext(ctx).Raw(sql, args...).Scan(&total).Error
	return total, err
}

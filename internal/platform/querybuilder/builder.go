// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering $n placeholders in the order values are bound.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder collects bound values and hands out their placeholders.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

type Condition interface {
	render(b *binder) string
}

type condFunc func(b *binder) string

func (f condFunc) render(b *binder) string { return f(b) }

func Eq(column string, value any) Condition {
	return condFunc(func(b *binder) string {
		return column + " = " + b.bind(value)
	})
}

func IsNull(column string) Condition {
	return condFunc(func(*binder) string {
		return column + " IS NULL"
	})
}

// InStrings renders a false predicate for an empty set so the statement
// still parses.
func InStrings(column string, values []string) Condition {
	return condFunc(func(b *binder) string {
		if len(values) == 0 {
			return "1=0"
		}
		marks := make([]string, len(values))
		for i, v := range values {
			marks[i] = b.bind(v)
		}
		return column + " IN (" + strings.Join(marks, ", ") + ")"
	})
}

func renderWhere(sb *strings.Builder, b *binder, conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.render(b))
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, parts...)
	return s
}

func (s *SelectBuilder) Limit(limit int) *SelectBuilder {
	s.limit = limit
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(s.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(s.table) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.table)
	renderWhere(&sb, &b, s.where)
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(s.limit))
	}
	return sb.String(), b.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append([]string(nil), columns...)
	return i
}

func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append([]any(nil), values...)
	return i
}

// Suffix is appended verbatim, typically an ON CONFLICT or RETURNING clause.
func (i *InsertBuilder) Suffix(sql string) *InsertBuilder {
	i.suffix = strings.TrimSpace(sql)
	return i
}

func (i *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(i.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(i.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(i.values) != len(i.columns):
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(i.values), len(i.columns))
	}

	var b binder
	marks := make([]string, len(i.values))
	for n, v := range i.values {
		marks[n] = b.bind(v)
	}

	query := "INSERT INTO " + i.table + " (" + strings.Join(i.columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if i.suffix != "" {
		query += " " + i.suffix
	}
	return query, b.args, nil
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, value: value})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(u.table) == "":
		return "", nil, fmt.Errorf("update table is required")
	case len(u.sets) == 0:
		return "", nil, fmt.Errorf("update sets are required")
	case len(u.where) == 0:
		return "", nil, fmt.Errorf("update without where is not allowed")
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("UPDATE " + u.table + " SET ")
	for n, s := range u.sets {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.column + " = " + b.bind(s.value))
	}
	renderWhere(&sb, &b, u.where)
	return sb.String(), b.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (d *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	d.where = append(d.where, conditions...)
	return d
}

func (d *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(d.table) == "":
		return "", nil, fmt.Errorf("delete table is required")
	case len(d.where) == 0:
		return "", nil, fmt.Errorf("delete without where is not allowed")
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("DELETE FROM " + d.table)
	renderWhere(&sb, &b, d.where)
	return sb.String(), b.args, nil
}

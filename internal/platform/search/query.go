package search

import (
	"fmt"
	"strings"
)

// Query builds SQL WHERE clauses with positional ($n) placeholders.
// Clauses are AND-ed together; OR groups and correlated EXISTS
// sub-predicates are added as single clauses.
type Query struct {
	table   string
	cols    string
	clauses []string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a new Query for the given table expression and columns.
func NewQuery(table, cols string) *Query {
	return &Query{
		table: table,
		cols:  cols,
		idx:   1,
	}
}

// Idx returns the next available parameter index.
func (q *Query) Idx() int { return q.idx }

// Add appends a raw WHERE clause fragment (without leading "AND").
// Placeholders in clause must start at Idx().
func (q *Query) Add(clause string, args ...interface{}) {
	q.clauses = append(q.clauses, clause)
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddEq adds an exact-match clause.
func (q *Query) AddEq(column string, value interface{}) {
	q.Add(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// AddGte adds an inclusive lower bound.
func (q *Query) AddGte(column string, value interface{}) {
	q.Add(fmt.Sprintf("%s >= $%d", column, q.idx), value)
}

// AddLte adds an inclusive upper bound.
func (q *Query) AddLte(column string, value interface{}) {
	q.Add(fmt.Sprintf("%s <= $%d", column, q.idx), value)
}

// AddContainsAny adds a case-insensitive substring match that succeeds when
// any of the columns contains value. A single placeholder is shared by all
// columns.
func (q *Query) AddContainsAny(value string, columns ...string) {
	if len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, q.idx)
	}
	q.Add("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(value)+"%")
}

// AddExists adds a correlated EXISTS over table. correlation joins the
// sub-table to the outer row; build adds the conditions one nested row
// must satisfy jointly. Placeholder numbering continues from the outer query.
func (q *Query) AddExists(table, correlation string, build func(sub *Query)) {
	sub := &Query{idx: q.idx}
	if build != nil {
		build(sub)
	}
	where := correlation
	if len(sub.clauses) > 0 {
		where += " AND " + strings.Join(sub.clauses, " AND ")
	}
	q.Add(fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", table, where), sub.args...)
}

// Clauses returns the accumulated clauses in insertion order.
func (q *Query) Clauses() []string {
	out := make([]string, len(q.clauses))
	copy(out, q.clauses)
	return out
}

// Args returns the bind arguments for the WHERE clause.
func (q *Query) Args() []interface{} {
	return q.args
}

// Where renders the WHERE body. An empty query matches every row.
func (q *Query) Where() string {
	if len(q.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(q.clauses, " AND ")
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// CountSQL returns the count query SQL.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", q.table, q.Where())
}

// CountArgs returns the arguments for the count query.
func (q *Query) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (q *Query) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s", q.cols, q.table, q.Where())
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments for the data query (search args + limit + offset).
func (q *Query) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package database

import (
	"database/sql"
	"errors"
)

// Row is one result row keyed by column name. TEXT columns come back as
// string, INTEGER columns as int64 and NULL as nil.
type Row map[string]any

// ErrCursorClosed is returned by Err after Close.
var ErrCursorClosed = errors.New("cursor is closed")

// Cursor is a finite, forward-only sequence of rows. The rows are read while
// the query statement runs, so the cursor does not hold the store open.
// Iterating again requires a new query.
type Cursor struct {
	columns []string
	rows    []Row
	pos     int
	closed  bool
}

// NewCursor returns a cursor over rows with the given column order.
func NewCursor(columns []string, rows []Row) *Cursor {
	return &Cursor{columns: columns, rows: rows, pos: -1}
}

func readCursor(rows *sql.Rows) (*Cursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewCursor(columns, out), nil
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Columns returns the projected column names in result order.
func (c *Cursor) Columns() []string {
	return c.columns
}

// Count returns the total number of rows in the result.
func (c *Cursor) Count() int {
	return len(c.rows)
}

// Next advances to the next row and reports whether there is one.
func (c *Cursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

// Row returns the current row. It is nil before the first Next and after the
// last one.
func (c *Cursor) Row() Row {
	if c.closed || c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}
	return c.rows[c.pos]
}

// All drains the remaining rows.
func (c *Cursor) All() []Row {
	var out []Row
	for c.Next() {
		out = append(out, c.Row())
	}
	return out
}

// Err reports ErrCursorClosed once the cursor was closed.
func (c *Cursor) Err() error {
	if c.closed {
		return ErrCursorClosed
	}
	return nil
}

func (c *Cursor) Close() error {
	c.closed = true
	c.rows = nil
	return nil
}

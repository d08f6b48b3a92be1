package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookstore/internal/contract"
)

// QueryOptions selects and orders rows of the books table. Selection is a
// WHERE clause with "?" placeholders bound from SelectionArgs.
type QueryOptions struct {
	Columns       []string
	Selection     string
	SelectionArgs []any
	SortOrder     string
}

// Query returns the rows matching opts, projected to opts.Columns or to every
// column when none are given.
func (d *Database) Query(ctx context.Context, opts QueryOptions) (*Cursor, error) {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = contract.Columns()
	}
	for _, col := range columns {
		if !contract.IsColumn(col) {
			return nil, &StorageError{Op: "query", Err: fmt.Errorf("%w %q", contract.ErrUnknownColumn, col)}
		}
	}

	q := d.DB.WithContext(ctx).Table(contract.TableName).Select(columns)
	if opts.Selection != "" {
		q = q.Where(where(opts.Selection, opts.SelectionArgs))
	}
	if opts.SortOrder != "" {
		q = q.Order(opts.SortOrder)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	cursor, err := readCursor(rows)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	return cursor, nil
}

// Insert writes one row and returns its id. On failure the id is
// InsertFailed and the error is a *StorageError.
func (d *Database) Insert(ctx context.Context, values contract.Values) (int64, error) {
	if err := values.CheckColumns(); err != nil {
		return InsertFailed, &StorageError{Op: "insert", Err: err}
	}

	keys := values.Keys()
	args := make([]any, 0, len(keys))
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, quote(k))
		args = append(args, values[k])
	}

	var stmt string
	if len(keys) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s",
			quote(contract.TableName), quote(contract.ColumnID))
	} else {
		stmt = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			quote(contract.TableName),
			strings.Join(quoted, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", "),
			quote(contract.ColumnID))
	}

	var id int64
	res := d.DB.WithContext(ctx).Raw(stmt, args...).Scan(&id)
	if res.Error != nil {
		return InsertFailed, &StorageError{Op: "insert", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return InsertFailed, &StorageError{Op: "insert", Err: fmt.Errorf("no row id returned")}
	}
	return id, nil
}

// Update applies values to every row matching selection and returns the
// number of rows changed. An empty selection matches every row.
func (d *Database) Update(ctx context.Context, values contract.Values, selection string, args []any) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	if err := values.CheckColumns(); err != nil {
		return 0, &StorageError{Op: "update", Err: err}
	}

	q := d.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Table(contract.TableName)
	if selection != "" {
		q = q.Where(where(selection, args))
	}

	// gorm only accepts the unnamed map type for column updates.
	res := q.Updates(map[string]any(values))
	if res.Error != nil {
		return 0, &StorageError{Op: "update", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// Delete removes every row matching selection and returns how many went. An
// empty selection removes every row.
func (d *Database) Delete(ctx context.Context, selection string, args []any) (int64, error) {
	stmt := "DELETE FROM " + quote(contract.TableName)
	var res *gorm.DB
	if selection != "" {
		res = d.DB.WithContext(ctx).Exec(stmt+" WHERE "+selection, args...)
	} else {
		res = d.DB.WithContext(ctx).Exec(stmt)
	}
	if res.Error != nil {
		return 0, &StorageError{Op: "delete", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// where keeps selection verbatim, as Delete's raw statement does. gorm's
// Where(string) reads "1" as a primary key and "@x" as a named parameter.
func where(selection string, args []any) clause.Expr {
	return clause.Expr{SQL: selection, Vars: args}
}

func quote(ident string) string {
	return `"` + ident + `"`
}

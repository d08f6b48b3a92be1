package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/contract"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := Open(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
	return db, cleanup
}

func giver() contract.Values {
	return contract.Values{
		contract.ColumnProductName:         "The Giver",
		contract.ColumnPrice:               "9",
		contract.ColumnQuantity:            4,
		contract.ColumnSupplierName:        "Penguin House",
		contract.ColumnSupplierPhoneNumber: "999-555-5555",
	}
}

func byID(id int64) (string, []any) {
	return contract.ColumnID + " = ?", []any{id}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("creates schema on first open", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		version, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, Version, version)
		assert.True(t, db.DB.Migrator().HasTable(contract.TableName))
		assert.NoError(t, db.Ping(ctx))
	})

	t.Run("reopen keeps existing rows", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "bookstore.db")

		db, err := Open(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		id, err := db.Insert(ctx, giver())
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = Open(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db.Close()

		sel, args := byID(id)
		cursor, err := db.Query(ctx, QueryOptions{Selection: sel, SelectionArgs: args})
		require.NoError(t, err)
		assert.Equal(t, 1, cursor.Count())
		assert.Equal(t, dbPath, db.Path())
	})

	t.Run("refuses newer schema", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "future.db")

		db, err := Open(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		require.NoError(t, db.DB.Exec("PRAGMA user_version = 99").Error)
		require.NoError(t, db.Close())

		_, err = Open(dbPath, WithLogLevel(logger.Silent))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("in-memory store", func(t *testing.T) {
		db, err := Open(MemoryPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db.Close()

		id, err := db.Insert(ctx, giver())
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})
}

func TestUpgrade(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	assert.NoError(t, db.Upgrade(ctx, 1, 1))
	assert.ErrorIs(t, db.Upgrade(ctx, 1, 2), ErrUnsupportedVersion)
	assert.ErrorIs(t, db.Upgrade(ctx, 2, 1), ErrUnsupportedVersion)
}

func TestInsertAndQuery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		id, err := db.Insert(ctx, giver())
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		sel, args := byID(id)
		cursor, err := db.Query(ctx, QueryOptions{Selection: sel, SelectionArgs: args})
		require.NoError(t, err)
		defer cursor.Close()

		assert.Equal(t, contract.Columns(), cursor.Columns())
		require.True(t, cursor.Next())
		row := cursor.Row()
		assert.Equal(t, Row{
			contract.ColumnID:                  int64(1),
			contract.ColumnProductName:         "The Giver",
			contract.ColumnPrice:               "9",
			contract.ColumnQuantity:            int64(4),
			contract.ColumnSupplierName:        "Penguin House",
			contract.ColumnSupplierPhoneNumber: "999-555-5555",
		}, row)
		assert.False(t, cursor.Next())
		assert.Nil(t, cursor.Row())
	})

	t.Run("quantity defaults to zero and numeric price is stored as text", func(t *testing.T) {
		values := giver()
		delete(values, contract.ColumnQuantity)
		values[contract.ColumnPrice] = 12

		id, err := db.Insert(ctx, values)
		require.NoError(t, err)

		sel, args := byID(id)
		cursor, err := db.Query(ctx, QueryOptions{
			Columns:       []string{contract.ColumnQuantity, contract.ColumnPrice},
			Selection:     sel,
			SelectionArgs: args,
		})
		require.NoError(t, err)
		rows := cursor.All()
		require.Len(t, rows, 1)
		assert.Equal(t, Row{contract.ColumnQuantity: int64(0), contract.ColumnPrice: "12"}, rows[0])
	})

	t.Run("not null violation returns sentinel", func(t *testing.T) {
		values := giver()
		delete(values, contract.ColumnProductName)

		id, err := db.Insert(ctx, values)
		assert.Equal(t, InsertFailed, id)
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, ErrConstraint)
		assert.NotErrorIs(t, err, ErrBusy)
	})

	t.Run("unknown column returns sentinel", func(t *testing.T) {
		values := giver()
		values["colour"] = "red"

		id, err := db.Insert(ctx, values)
		assert.Equal(t, InsertFailed, id)
		assert.ErrorIs(t, err, contract.ErrUnknownColumn)
	})

	t.Run("sort order and selection pass through", func(t *testing.T) {
		cursor, err := db.Query(ctx, QueryOptions{
			Columns:       []string{contract.ColumnID},
			Selection:     contract.ColumnSupplierName + " = ?",
			SelectionArgs: []any{"Penguin House"},
			SortOrder:     contract.ColumnID + " DESC",
		})
		require.NoError(t, err)
		rows := cursor.All()
		require.Len(t, rows, 2)
		assert.Equal(t, int64(2), rows[0][contract.ColumnID])
		assert.Equal(t, int64(1), rows[1][contract.ColumnID])
	})

	t.Run("unknown projection column", func(t *testing.T) {
		_, err := db.Query(ctx, QueryOptions{Columns: []string{"colour"}})
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, contract.ErrUnknownColumn)
	})

	t.Run("malformed selection", func(t *testing.T) {
		_, err := db.Query(ctx, QueryOptions{Selection: "id = = ?", SelectionArgs: []any{1}})
		assert.ErrorIs(t, err, ErrStorage)
		assert.NotErrorIs(t, err, ErrConstraint)
	})
}

func TestUpdate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	first, err := db.Insert(ctx, giver())
	require.NoError(t, err)
	_, err = db.Insert(ctx, giver())
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		sel, args := byID(first)
		n, err := db.Update(ctx, contract.Values{contract.ColumnQuantity: 3}, sel, args)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		cursor, err := db.Query(ctx, QueryOptions{Selection: sel, SelectionArgs: args})
		require.NoError(t, err)
		require.True(t, cursor.Next())
		assert.Equal(t, int64(3), cursor.Row()[contract.ColumnQuantity])
		assert.Equal(t, "The Giver", cursor.Row()[contract.ColumnProductName])
	})

	t.Run("no match", func(t *testing.T) {
		sel, args := byID(999)
		n, err := db.Update(ctx, contract.Values{contract.ColumnQuantity: 1}, sel, args)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("whole table", func(t *testing.T) {
		n, err := db.Update(ctx, contract.Values{contract.ColumnSupplierName: "Vintage"}, "", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("empty values", func(t *testing.T) {
		n, err := db.Update(ctx, contract.Values{}, "", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("constraint violation", func(t *testing.T) {
		sel, args := byID(first)
		_, err := db.Update(ctx, contract.Values{contract.ColumnProductName: nil}, sel, args)
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := db.Insert(ctx, giver())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	sel, args := byID(ids[2])
	n, err := db.Delete(ctx, sel, args)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.Delete(ctx, sel, args)
	require.NoError(t, err)
	assert.Zero(t, n)

	t.Run("ids are not reused", func(t *testing.T) {
		id, err := db.Insert(ctx, giver())
		require.NoError(t, err)
		assert.Equal(t, ids[2]+1, id)
	})

	t.Run("empty selection removes everything", func(t *testing.T) {
		n, err := db.Delete(ctx, "", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		cursor, err := db.Query(ctx, QueryOptions{})
		require.NoError(t, err)
		assert.Zero(t, cursor.Count())
	})
}

func TestSelectionMatchesSameRowsForEveryOperation(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		args      []any
		want      int64
	}{
		{"constant true", "1", nil, 3},
		{"constant false", "0", nil, 0},
		{"placeholder", contract.ColumnQuantity + " > ?", []any{0}, 2},
		{"at sign in literal", contract.ColumnSupplierName + " = 'orders@penguin'", nil, 1},
		{"or without parentheses", contract.ColumnQuantity + " = ? OR " + contract.ColumnQuantity + " = ?", []any{0, 7}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()
			ctx := context.Background()

			for _, row := range []contract.Values{
				{contract.ColumnQuantity: 4},
				{contract.ColumnQuantity: 0, contract.ColumnSupplierName: "orders@penguin"},
				{contract.ColumnQuantity: 7},
			} {
				values := giver()
				for k, v := range row {
					values[k] = v
				}
				_, err := db.Insert(ctx, values)
				require.NoError(t, err)
			}

			cursor, err := db.Query(ctx, QueryOptions{Selection: tt.selection, SelectionArgs: tt.args})
			require.NoError(t, err)
			assert.Equal(t, int(tt.want), cursor.Count(), "query")

			n, err := db.Update(ctx, contract.Values{contract.ColumnPrice: "12"}, tt.selection, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n, "update")

			n, err = db.Delete(ctx, tt.selection, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n, "delete")
		})
	}
}

func TestOptimize(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Optimize(context.Background()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Error, ParseLogLevel("ERROR"))
	assert.Equal(t, logger.Info, ParseLogLevel(" info "))
	assert.Equal(t, logger.Warn, ParseLogLevel("whatever"))
}

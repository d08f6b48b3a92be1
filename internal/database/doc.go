// Package database is the storage engine of the books table.
//
// # Architecture
//
// The store is a single SQLite file opened through gorm and the
// gorm.io/driver/sqlite dialector:
//
//	database/
//	├── database.go  # Open, schema creation, version hook, housekeeping
//	├── books.go     # Query / Insert / Update / Delete on the books table
//	├── cursor.go    # Forward-only result cursor
//	└── errors.go    # StorageError and sentinels
//
// # Usage
//
//	db, err := database.Open("./bookstore.db")
//	defer db.Close()
//
//	id, err := db.Insert(ctx, contract.Values{...})
//	cursor, err := db.Query(ctx, database.QueryOptions{
//		Selection:     "id = ?",
//		SelectionArgs: []any{id},
//	})
//
// # Schema versions
//
// The schema version lives in PRAGMA user_version. A fresh file is created
// at Version; an older file goes through Upgrade; a newer one is refused with
// ErrUnsupportedVersion.
//
// # Concurrency
//
// The pool holds a single connection, so statements never interleave. Every
// mutation is one statement and therefore atomic. Cursors are filled while
// the query runs, so a reader sees the table either before or after any
// given write.
package database

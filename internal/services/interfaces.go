package services

import (
	"context"

	"github.com/mrlokans/bookstore/internal/contract"
	"github.com/mrlokans/bookstore/internal/database"
)

// BookProvider is the subset of the provider facade the services build on.
// *provider.Provider satisfies it.
type BookProvider interface {
	Query(ctx context.Context, identifier string, columns []string, selection string, args []any, sortOrder string) (*database.Cursor, error)
	Insert(ctx context.Context, identifier string, values contract.Values) (string, error)
	Update(ctx context.Context, identifier string, values contract.Values, selection string, args []any) (int64, error)
	Delete(ctx context.Context, identifier string, selection string, args []any) (int64, error)
}

// ListOptions filters and orders a listing.
type ListOptions struct {
	// Supplier restricts the listing to one supplier name when set.
	Supplier string
	// Sort is a column name, prefixed with "-" for descending order.
	Sort string
}

// PurgeResult contains the outcome of removing every book.
type PurgeResult struct {
	BooksDeleted int64
}

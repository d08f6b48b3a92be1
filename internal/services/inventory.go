package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/mrlokans/bookstore/internal/contract"
	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	ErrNotFound    = errors.New("book not found")
	ErrOutOfStock  = errors.New("book is out of stock")
	ErrConflict    = errors.New("book changed concurrently, try again")
	ErrInvalidSort = errors.New("invalid sort column")
	ErrInvalidQty  = errors.New("restock amount must be positive")
)

// maxAttempts bounds the read-then-conditional-update loop of Sell and Restock.
const maxAttempts = 5

// DemoBook is the book inserted by SeedDemo.
var DemoBook = entities.Book{
	ProductName:         "The Giver",
	Price:               "9",
	Quantity:            4,
	SupplierName:        "Penguin House",
	SupplierPhoneNumber: "999-555-5555",
}

// InventoryService implements stock operations on top of the provider.
type InventoryService struct {
	provider   BookProvider
	collection string
}

// NewInventoryService creates a service addressing the collection identifier.
// An empty collection defaults to contract.ContentURI.
func NewInventoryService(provider BookProvider, collection string) *InventoryService {
	if collection == "" {
		collection = contract.ContentURI
	}
	return &InventoryService{
		provider:   provider,
		collection: collection,
	}
}

// Collection returns the collection identifier the service writes through.
func (s *InventoryService) Collection() string {
	return s.collection
}

func (s *InventoryService) item(id int64) string {
	return contract.ItemURI(s.collection, id)
}

// List returns books matching opts.
func (s *InventoryService) List(ctx context.Context, opts ListOptions) ([]entities.Book, error) {
	order, err := sortOrder(opts.Sort)
	if err != nil {
		return nil, err
	}

	var selection string
	var args []any
	if opts.Supplier != "" {
		selection = contract.ColumnSupplierName + " = ?"
		args = []any{opts.Supplier}
	}

	cursor, err := s.provider.Query(ctx, s.collection, nil, selection, args, order)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer cursor.Close()

	books := make([]entities.Book, 0, cursor.Count())
	for cursor.Next() {
		books = append(books, entities.BookFromRow(cursor.Row()))
	}
	return books, nil
}

// Get returns one book or ErrNotFound.
func (s *InventoryService) Get(ctx context.Context, id int64) (*entities.Book, error) {
	cursor, err := s.provider.Query(ctx, s.item(id), nil, "", nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	defer cursor.Close()

	if !cursor.Next() {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	book := entities.BookFromRow(cursor.Row())
	return &book, nil
}

// Create inserts values and returns the stored book.
func (s *InventoryService) Create(ctx context.Context, values contract.Values) (*entities.Book, error) {
	uri, err := s.provider.Insert(ctx, s.collection, values)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(path.Base(uri), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected item identifier %q: %w", uri, err)
	}
	return s.Get(ctx, id)
}

// Edit applies values to one book and returns the result.
func (s *InventoryService) Edit(ctx context.Context, id int64, values contract.Values) (*entities.Book, error) {
	n, err := s.provider.Update(ctx, s.item(id), values, "", nil)
	if err != nil {
		return nil, err
	}
	// An empty payload changes nothing but the book may still exist.
	if n == 0 && len(values) > 0 {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Remove deletes one book.
func (s *InventoryService) Remove(ctx context.Context, id int64) error {
	n, err := s.provider.Delete(ctx, s.item(id), "", nil)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// Sell takes one copy off the shelf. Quantity never drops below zero.
func (s *InventoryService) Sell(ctx context.Context, id int64) (*entities.Book, error) {
	return s.adjust(ctx, id, func(q int64) (int64, error) {
		if q <= 0 {
			return 0, fmt.Errorf("book %d: %w", id, ErrOutOfStock)
		}
		return q - 1, nil
	})
}

// Restock adds n copies.
func (s *InventoryService) Restock(ctx context.Context, id int64, n int64) (*entities.Book, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQty, n)
	}
	return s.adjust(ctx, id, func(q int64) (int64, error) {
		if n > math.MaxInt64-q {
			return 0, fmt.Errorf("%w: book %d cannot hold %d more", ErrInvalidQty, id, n)
		}
		return q + n, nil
	})
}

// adjust reads the quantity and writes the new one only if nobody changed it
// in between, retrying a few times when somebody did.
func (s *InventoryService) adjust(ctx context.Context, id int64, next func(int64) (int64, error)) (*entities.Book, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		book, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		quantity, err := next(book.Quantity)
		if err != nil {
			return nil, err
		}

		n, err := s.provider.Update(ctx, s.collection,
			contract.Values{contract.ColumnQuantity: quantity},
			contract.ColumnID+" = ? AND "+contract.ColumnQuantity+" = ?",
			[]any{id, book.Quantity})
		if err != nil {
			return nil, fmt.Errorf("failed to update quantity of book %d: %w", id, err)
		}
		if n == 1 {
			book.Quantity = quantity
			return book, nil
		}

		log.Printf("Quantity of book %d changed concurrently (attempt %d/%d)", id, attempt, maxAttempts)
	}
	return nil, fmt.Errorf("book %d: %w", id, ErrConflict)
}

// SeedDemo inserts DemoBook and returns its item identifier.
func (s *InventoryService) SeedDemo(ctx context.Context) (string, error) {
	uri, err := s.provider.Insert(ctx, s.collection, DemoBook.Values())
	if err != nil {
		return "", fmt.Errorf("failed to seed demo book: %w", err)
	}
	log.Printf("Seeded demo book at %s", uri)
	return uri, nil
}

// PurgeAll deletes every book.
func (s *InventoryService) PurgeAll(ctx context.Context) (PurgeResult, error) {
	n, err := s.provider.Delete(ctx, s.collection, "", nil)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("failed to purge books: %w", err)
	}
	log.Printf("Purged %d books", n)
	return PurgeResult{BooksDeleted: n}, nil
}

// sortOrder turns "quantity" or "-quantity" into an ORDER BY clause. Only
// column names are accepted so the clause never carries caller text.
func sortOrder(sort string) (string, error) {
	if sort == "" {
		return "", nil
	}
	dir := "ASC"
	col := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		col = strings.TrimPrefix(sort, "-")
	}
	if !contract.IsColumn(col) {
		return "", fmt.Errorf("%w %q", ErrInvalidSort, col)
	}
	return fmt.Sprintf("%q %s", col, dir), nil
}

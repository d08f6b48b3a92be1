// Package provider is the single entry point for reading and writing books.
//
// A Provider routes an identifier, validates write payloads, runs the
// statement on the store and, after a successful mutation, signals a change
// for the identifier:
//
//	p := provider.New(router.Default(), db, provider.WithNotifier(hub))
//	uri, err := p.Insert(ctx, contract.ContentURI, values)
//	cursor, err := p.Query(ctx, uri, nil, "", nil, "")
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mrlokans/bookstore/internal/contract"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/router"
	"github.com/mrlokans/bookstore/internal/validator"
)

// Store is the storage engine the provider delegates to.
type Store interface {
	Query(ctx context.Context, opts database.QueryOptions) (*database.Cursor, error)
	Insert(ctx context.Context, values contract.Values) (int64, error)
	Update(ctx context.Context, values contract.Values, selection string, args []any) (int64, error)
	Delete(ctx context.Context, selection string, args []any) (int64, error)
}

var _ Store = (*database.Database)(nil)

// ChangeNotifier receives the identifier whose data changed. Calls are
// fire-and-forget; implementations must not block.
type ChangeNotifier interface {
	NotifyChange(identifier string)
}

// NotifierFunc adapts a function to ChangeNotifier.
type NotifierFunc func(identifier string)

func (f NotifierFunc) NotifyChange(identifier string) { f(identifier) }

type noopNotifier struct{}

func (noopNotifier) NotifyChange(string) {}

// Option configures a Provider.
type Option func(*Provider)

// WithNotifier sets where change notifications go.
func WithNotifier(n ChangeNotifier) Option {
	return func(p *Provider) {
		if n != nil {
			p.notifier = n
		}
	}
}

type Provider struct {
	router   *router.Router
	store    Store
	notifier ChangeNotifier
}

func New(r *router.Router, store Store, opts ...Option) *Provider {
	p := &Provider{
		router:   r,
		store:    store,
		notifier: noopNotifier{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Close closes the store when it supports closing.
func (p *Provider) Close() error {
	if c, ok := p.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Query returns the rows behind identifier. For an item identifier the
// caller's selection is replaced by the embedded id.
func (p *Provider) Query(ctx context.Context, identifier string, columns []string, selection string, args []any, sortOrder string) (*database.Cursor, error) {
	m := p.router.Route(identifier)
	switch m.Kind {
	case router.Collection:
	case router.Item:
		selection, args = itemSelection(m.ID)
	default:
		return nil, fmt.Errorf("cannot query %q: %w", identifier, ErrUnroutable)
	}

	return p.store.Query(ctx, database.QueryOptions{
		Columns:       columns,
		Selection:     selection,
		SelectionArgs: args,
		SortOrder:     sortOrder,
	})
}

// Insert adds a book to the collection and returns its item identifier.
func (p *Provider) Insert(ctx context.Context, identifier string, values contract.Values) (string, error) {
	m := p.router.Route(identifier)
	switch m.Kind {
	case router.Collection:
	case router.Item:
		return "", fmt.Errorf("insertion is not supported for %q: %w", identifier, ErrUnsupported)
	default:
		return "", fmt.Errorf("insertion is not supported for %q: %w", identifier, ErrUnroutable)
	}

	if err := validator.Validate(values, validator.Insert); err != nil {
		return "", err
	}

	id, err := p.store.Insert(ctx, values)
	if err == nil && id == database.InsertFailed {
		err = errors.New("store returned no row id")
	}
	if err != nil {
		log.Printf("Failed to insert book into %s: %v", identifier, err)
		return "", fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}

	p.notifier.NotifyChange(identifier)

	return contract.ItemURI(identifier, id), nil
}

// Update changes the rows behind identifier and returns how many changed.
// An empty payload is a no-op.
func (p *Provider) Update(ctx context.Context, identifier string, values contract.Values, selection string, args []any) (int64, error) {
	m := p.router.Route(identifier)
	switch m.Kind {
	case router.Collection:
	case router.Item:
		selection, args = itemSelection(m.ID)
	default:
		return 0, fmt.Errorf("update is not supported for %q: %w", identifier, ErrUnroutable)
	}

	if err := validator.Validate(values, validator.Update); err != nil {
		return 0, err
	}

	if len(values) == 0 {
		return 0, nil
	}

	n, err := p.store.Update(ctx, values, selection, args)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.notifier.NotifyChange(identifier)
	}
	return n, nil
}

// Delete removes the rows behind identifier and returns how many went.
func (p *Provider) Delete(ctx context.Context, identifier string, selection string, args []any) (int64, error) {
	m := p.router.Route(identifier)
	switch m.Kind {
	case router.Collection:
	case router.Item:
		selection, args = itemSelection(m.ID)
	default:
		return 0, fmt.Errorf("deletion is not supported for %q: %w", identifier, ErrUnroutable)
	}

	n, err := p.store.Delete(ctx, selection, args)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.notifier.NotifyChange(identifier)
	}
	return n, nil
}

// ResourceKind returns the list or item kind tag of identifier.
func (p *Provider) ResourceKind(identifier string) (string, error) {
	switch p.router.Route(identifier).Kind {
	case router.Collection:
		return contract.ContentListType, nil
	case router.Item:
		return contract.ContentItemType, nil
	default:
		return "", fmt.Errorf("unknown identifier %q: %w", identifier, ErrUnroutable)
	}
}

func itemSelection(id int64) (string, []any) {
	return contract.ColumnID + " = ?", []any{id}
}

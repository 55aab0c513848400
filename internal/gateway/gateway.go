// Package gateway defines the client's view of the remote relational store.
package gateway

import (
	"context"
	"errors"

	"github.com/khuan/tripmate/internal/models"
)

// ErrNotFound is returned when an update or delete names a row the remote
// store does not have.
var ErrNotFound = errors.New("row not found")

// Gateway is the row-level CRUD surface the state layer consumes. The
// remote store is the sole authority on existence, identifiers and
// created_at values; implementations populate those on insert.
//
// List ordering contract: items newest first, stores by plan day ascending
// with unscheduled stores last, expenses newest first. Item rows come
// joined with the suggested store's name, measurement rows with the
// member's profile fields.
//
// All methods honor the caller's context; the gateway imposes no timeout
// or retry policy of its own.
type Gateway interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	ListMeasurements(ctx context.Context) ([]models.Measurement, error)
	ListStores(ctx context.Context) ([]models.Store, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// InsertItem persists a new item, populating ID and CreatedAt.
	InsertItem(ctx context.Context, item *models.Item) error

	// UpdateItem replaces all mutable fields of the item row, including
	// the requester set.
	UpdateItem(ctx context.Context, item models.Item) error

	// SetItemPurchased is the partial update behind the purchase toggle.
	SetItemPurchased(ctx context.Context, id string, purchased bool) error

	DeleteItem(ctx context.Context, id string) error

	// InsertStore persists a new store, populating ID.
	InsertStore(ctx context.Context, store *models.Store) error

	// UpdateStore replaces all mutable fields of the store row.
	UpdateStore(ctx context.Context, store models.Store) error

	// SetStoreDay is the partial update behind day-bucket assignment.
	// A nil day clears the assignment.
	SetStoreDay(ctx context.Context, id string, day *string) error

	DeleteStore(ctx context.Context, id string) error

	// InsertExpense persists a new expense, populating ID and CreatedAt.
	InsertExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, id string) error

	// UpdateMeasurement replaces all six sizing fields and the notes of
	// the measurement row in one write.
	UpdateMeasurement(ctx context.Context, m models.Measurement) error

	// Close releases any resources held by the gateway.
	Close() error
}

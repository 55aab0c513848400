package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/khuan/tripmate/internal/metrics"
	"github.com/khuan/tripmate/internal/models"
	"github.com/khuan/tripmate/internal/schedule"
	"github.com/khuan/tripmate/internal/upload"
)

// ErrUploadInFlight rejects a form submit while a photo upload has not
// resolved yet. The image field must be fully uploaded or intentionally
// absent before save.
var ErrUploadInFlight = errors.New("an image upload is still in flight")

// Mutator applies every mutating action optimistically: the snapshot
// changes synchronously, the gateway call follows, and a rejection rolls
// the snapshot back to remote truth by refetching. The UI never keeps an
// optimistic change the remote store refused.
//
// Simple point updates (toggles, day assignment, deletes) accept the local
// guess once the remote confirms; inserts and multi-field updates
// reconcile by refetching, because the canonical row may differ from the
// guess (server-assigned IDs, timestamps, join fields).
type Mutator struct {
	store   *Store
	uploads *upload.Tracker
}

// NewMutator creates a Mutator over the store. uploads may be nil when no
// photo uploads are configured.
func NewMutator(store *Store, uploads *upload.Tracker) *Mutator {
	return &Mutator{store: store, uploads: uploads}
}

// ToggleItemPurchased flips an item's purchased flag. The local guess is
// final on success; no refetch.
func (m *Mutator) ToggleItemPurchased(ctx context.Context, id string) error {
	const action = "toggle-purchased"

	item, ok := m.store.ItemByID(id)
	if !ok {
		return fmt.Errorf("%s: item %s not in snapshot", action, id)
	}
	next := !item.IsPurchased

	m.store.mutate(func(c *collections) {
		for i := range *c.items {
			if (*c.items)[i].ID == id {
				(*c.items)[i].IsPurchased = next
				return
			}
		}
	})

	err := m.store.gw.SetItemPurchased(ctx, id, next)
	metrics.ObserveGatewayCall("item", "set_purchased", err)
	if err != nil {
		return m.rollback(ctx, action, err)
	}
	slog.Info("Item purchase toggled", "item_id", id, "purchased", next)
	return nil
}

// AddItem validates the draft, shows the item immediately, then persists
// it and reconciles to pick up the server-assigned fields.
func (m *Mutator) AddItem(ctx context.Context, draft models.ItemDraft) error {
	const action = "add-item"

	if m.uploadPending() {
		return fmt.Errorf("%s: %w", action, ErrUploadInFlight)
	}
	item, err := draft.ToItem()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	local := item
	local.ID = "pending-" + uuid.New().String()
	local.CreatedAt = time.Now().Unix()
	local.StoreSuggestionName = m.suggestionName(item.StoreSuggestionID)
	m.store.mutate(func(c *collections) {
		*c.items = append([]models.Item{local}, *c.items...)
	})

	insertErr := m.store.gw.InsertItem(ctx, &item)
	metrics.ObserveGatewayCall("item", "insert", insertErr)
	if insertErr != nil {
		return m.rollback(ctx, action, insertErr)
	}
	slog.Info("Item added", "item_id", item.ID, "name", item.Name)
	m.reconcile(ctx)
	return nil
}

// UpdateItem replaces an item's editable fields from the draft, then
// reconciles: a multi-field update trusts the refetched row, not the guess.
func (m *Mutator) UpdateItem(ctx context.Context, id string, draft models.ItemDraft) error {
	const action = "update-item"

	if m.uploadPending() {
		return fmt.Errorf("%s: %w", action, ErrUploadInFlight)
	}
	current, ok := m.store.ItemByID(id)
	if !ok {
		return fmt.Errorf("%s: item %s not in snapshot", action, id)
	}
	item, err := draft.ToItem()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	item.ID = id
	item.IsPurchased = current.IsPurchased
	item.CreatedAt = current.CreatedAt
	item.StoreSuggestionName = m.suggestionName(item.StoreSuggestionID)

	m.store.mutate(func(c *collections) {
		for i := range *c.items {
			if (*c.items)[i].ID == id {
				(*c.items)[i] = item
				return
			}
		}
	})

	updateErr := m.store.gw.UpdateItem(ctx, item)
	metrics.ObserveGatewayCall("item", "update", updateErr)
	if updateErr != nil {
		return m.rollback(ctx, action, updateErr)
	}
	slog.Info("Item updated", "item_id", id)
	m.reconcile(ctx)
	return nil
}

// DeleteItem removes an item. The local removal is final on success.
func (m *Mutator) DeleteItem(ctx context.Context, id string) error {
	const action = "delete-item"

	m.store.mutate(func(c *collections) {
		for i := range *c.items {
			if (*c.items)[i].ID == id {
				*c.items = append((*c.items)[:i], (*c.items)[i+1:]...)
				return
			}
		}
	})

	err := m.store.gw.DeleteItem(ctx, id)
	metrics.ObserveGatewayCall("item", "delete", err)
	if err != nil {
		return m.rollback(ctx, action, err)
	}
	slog.Info("Item deleted", "item_id", id)
	return nil
}

// AddStore validates the draft (including the day bucket against the trip
// configuration), shows the store immediately, persists, reconciles.
func (m *Mutator) AddStore(ctx context.Context, draft models.StoreDraft) error {
	const action = "add-store"

	store, err := draft.ToStore()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if store.PlanDay != nil && !schedule.ValidDay(*store.PlanDay) {
		return fmt.Errorf("%s: unknown trip day %q", action, *store.PlanDay)
	}

	local := store
	local.ID = "pending-" + uuid.New().String()
	m.store.mutate(func(c *collections) {
		*c.stores = append(*c.stores, local)
	})

	insertErr := m.store.gw.InsertStore(ctx, &store)
	metrics.ObserveGatewayCall("store", "insert", insertErr)
	if insertErr != nil {
		return m.rollback(ctx, action, insertErr)
	}
	slog.Info("Store added", "store_id", store.ID, "name", store.Name)
	m.reconcile(ctx)
	return nil
}

// UpdateStore replaces a store's fields from the draft, then reconciles.
func (m *Mutator) UpdateStore(ctx context.Context, id string, draft models.StoreDraft) error {
	const action = "update-store"

	if _, ok := m.store.StoreByID(id); !ok {
		return fmt.Errorf("%s: store %s not in snapshot", action, id)
	}
	store, err := draft.ToStore()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if store.PlanDay != nil && !schedule.ValidDay(*store.PlanDay) {
		return fmt.Errorf("%s: unknown trip day %q", action, *store.PlanDay)
	}
	store.ID = id

	m.store.mutate(func(c *collections) {
		for i := range *c.stores {
			if (*c.stores)[i].ID == id {
				(*c.stores)[i] = store
				return
			}
		}
	})

	updateErr := m.store.gw.UpdateStore(ctx, store)
	metrics.ObserveGatewayCall("store", "update", updateErr)
	if updateErr != nil {
		return m.rollback(ctx, action, updateErr)
	}
	slog.Info("Store updated", "store_id", id)
	m.reconcile(ctx)
	return nil
}

// AssignStoreDay sets one store's day bucket; an empty dayID clears it.
// A point update: all other stores keep their assignment, and moving a
// store to a new day implicitly vacates the old one. The local guess is
// final on success.
func (m *Mutator) AssignStoreDay(ctx context.Context, storeID, dayID string) error {
	const action = "assign-store-day"

	var day *string
	if dayID != "" {
		if !schedule.ValidDay(dayID) {
			return fmt.Errorf("%s: unknown trip day %q", action, dayID)
		}
		day = &dayID
	}
	if _, ok := m.store.StoreByID(storeID); !ok {
		return fmt.Errorf("%s: store %s not in snapshot", action, storeID)
	}

	m.store.mutate(func(c *collections) {
		for i := range *c.stores {
			if (*c.stores)[i].ID == storeID {
				(*c.stores)[i].PlanDay = day
				return
			}
		}
	})

	err := m.store.gw.SetStoreDay(ctx, storeID, day)
	metrics.ObserveGatewayCall("store", "set_day", err)
	if err != nil {
		return m.rollback(ctx, action, err)
	}
	slog.Info("Store day assigned", "store_id", storeID, "day", dayID)
	return nil
}

// DeleteStore removes a store; items suggesting it lose the reference
// locally, matching what the remote foreign key does.
func (m *Mutator) DeleteStore(ctx context.Context, id string) error {
	const action = "delete-store"

	m.store.mutate(func(c *collections) {
		for i := range *c.stores {
			if (*c.stores)[i].ID == id {
				*c.stores = append((*c.stores)[:i], (*c.stores)[i+1:]...)
				break
			}
		}
		for i := range *c.items {
			it := &(*c.items)[i]
			if it.StoreSuggestionID != nil && *it.StoreSuggestionID == id {
				it.StoreSuggestionID = nil
				it.StoreSuggestionName = ""
			}
		}
	})

	err := m.store.gw.DeleteStore(ctx, id)
	metrics.ObserveGatewayCall("store", "delete", err)
	if err != nil {
		return m.rollback(ctx, action, err)
	}
	slog.Info("Store deleted", "store_id", id)
	return nil
}

// AddExpense validates the draft, shows the entry immediately, persists,
// reconciles.
func (m *Mutator) AddExpense(ctx context.Context, draft models.ExpenseDraft) error {
	const action = "add-expense"

	if m.uploadPending() {
		return fmt.Errorf("%s: %w", action, ErrUploadInFlight)
	}
	expense, err := draft.ToExpense()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	local := expense
	local.ID = "pending-" + uuid.New().String()
	local.CreatedAt = time.Now().Unix()
	m.store.mutate(func(c *collections) {
		*c.expenses = append([]models.Expense{local}, *c.expenses...)
	})

	insertErr := m.store.gw.InsertExpense(ctx, &expense)
	metrics.ObserveGatewayCall("expense", "insert", insertErr)
	if insertErr != nil {
		return m.rollback(ctx, action, insertErr)
	}
	slog.Info("Expense added", "expense_id", expense.ID, "amount", expense.Amount)
	m.reconcile(ctx)
	return nil
}

// DeleteExpense removes a ledger entry. The local removal is final on
// success.
func (m *Mutator) DeleteExpense(ctx context.Context, id string) error {
	const action = "delete-expense"

	m.store.mutate(func(c *collections) {
		for i := range *c.expenses {
			if (*c.expenses)[i].ID == id {
				*c.expenses = append((*c.expenses)[:i], (*c.expenses)[i+1:]...)
				return
			}
		}
	})

	err := m.store.gw.DeleteExpense(ctx, id)
	metrics.ObserveGatewayCall("expense", "delete", err)
	if err != nil {
		return m.rollback(ctx, action, err)
	}
	slog.Info("Expense deleted", "expense_id", id)
	return nil
}

// UpdateMeasurement replaces all six sizing fields and notes for one
// member, then reconciles.
func (m *Mutator) UpdateMeasurement(ctx context.Context, id string, draft models.MeasurementDraft) error {
	const action = "update-measurement"

	current, ok := m.store.MeasurementByID(id)
	if !ok {
		return fmt.Errorf("%s: measurement %s not in snapshot", action, id)
	}
	updated, err := draft.Apply(current)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	m.store.mutate(func(c *collections) {
		for i := range *c.measurements {
			if (*c.measurements)[i].ID == id {
				(*c.measurements)[i] = updated
				return
			}
		}
	})

	updateErr := m.store.gw.UpdateMeasurement(ctx, updated)
	metrics.ObserveGatewayCall("measurement", "update", updateErr)
	if updateErr != nil {
		return m.rollback(ctx, action, updateErr)
	}
	slog.Info("Measurement updated", "measurement_id", id, "profile_id", updated.ProfileID)
	m.reconcile(ctx)
	return nil
}

// UploadImage sends a photo through the tracked uploader and returns the
// durable URL for the draft's image field. On failure the field stays
// unset, an upload notice is raised, and the form remains open for retry.
func (m *Mutator) UploadImage(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if m.uploads == nil {
		return "", fmt.Errorf("upload-image: no uploader configured")
	}
	url, err := m.uploads.Upload(ctx, r, suggestedName)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		m.store.addNotice(NoticeUpload, "upload-image", err)
		slog.Error("Upload failed", "name", suggestedName, "error", err)
		return "", fmt.Errorf("upload-image: %w", err)
	}
	metrics.Uploads.WithLabelValues("ok").Inc()
	slog.Info("Upload finished", "name", suggestedName, "url", url)
	return url, nil
}

func (m *Mutator) uploadPending() bool {
	return m.uploads != nil && m.uploads.InFlight()
}

// suggestionName resolves a suggested store's display name from the
// current snapshot for the local guess; the refetch supplies the
// authoritative join.
func (m *Mutator) suggestionName(storeID *string) string {
	if storeID == nil {
		return ""
	}
	if st, ok := m.store.StoreByID(*storeID); ok {
		return st.Name
	}
	return ""
}

// rollback restores remote truth after a rejected write and records the
// user-visible notice naming the attempted action.
func (m *Mutator) rollback(ctx context.Context, action string, err error) error {
	slog.Error("Write rejected, rolling back", "action", action, "error", err)
	metrics.Rollbacks.WithLabelValues(action).Inc()
	m.store.addNotice(NoticeWrite, action, err)
	m.store.LoadAll(ctx)
	return fmt.Errorf("%s: %w", action, err)
}

// reconcile refreshes the snapshot after a confirmed write whose canonical
// row may differ from the local guess. A failed refetch raises its own
// read notices; the write itself already succeeded.
func (m *Mutator) reconcile(ctx context.Context) {
	m.store.LoadAll(ctx)
}

// Package memory provides an in-memory Gateway: the dev-mode backend and
// the test double for the state layer. Rows are copied on every read so
// callers can never alias the gateway's own slices.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khuan/tripmate/internal/gateway"
	"github.com/khuan/tripmate/internal/models"
)

// Ensure Store implements gateway.Gateway.
var _ gateway.Gateway = (*Store)(nil)

// Store is an in-memory gateway with per-operation failure injection.
type Store struct {
	mu           sync.Mutex
	profiles     []models.Profile
	measurements []models.Measurement
	stores       []models.Store
	items        []models.Item
	expenses     []models.Expense

	failures map[string]error
	now      func() int64
}

// New returns an empty in-memory gateway.
func New() *Store {
	return &Store{
		failures: make(map[string]error),
		now:      func() int64 { return time.Now().Unix() },
	}
}

// Seed replaces all five collections. Intended for test and dev setup;
// rows keep the IDs they arrive with.
func (s *Store) Seed(profiles []models.Profile, measurements []models.Measurement, stores []models.Store, items []models.Item, expenses []models.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append([]models.Profile(nil), profiles...)
	s.measurements = append([]models.Measurement(nil), measurements...)
	s.stores = append([]models.Store(nil), stores...)
	s.items = append([]models.Item(nil), items...)
	s.expenses = append([]models.Expense(nil), expenses...)
}

// FailNext makes the named operation fail once with err. Operation names
// match the Gateway method names in snake case, e.g. "list_items",
// "insert_expense", "set_item_purchased".
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// SetClock overrides the timestamp source for created_at values.
func (s *Store) SetClock(now func() int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) takeFailure(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// ListProfiles returns all profiles in insertion order.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list_profiles"); err != nil {
		return nil, err
	}
	return append([]models.Profile(nil), s.profiles...), nil
}

// ListMeasurements returns all measurements joined with their profile.
func (s *Store) ListMeasurements(ctx context.Context) ([]models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list_measurements"); err != nil {
		return nil, err
	}
	out := make([]models.Measurement, 0, len(s.measurements))
	for _, m := range s.measurements {
		m.Profile = nil
		for i := range s.profiles {
			if s.profiles[i].ID == m.ProfileID {
				p := s.profiles[i]
				m.Profile = &p
				break
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// ListStores returns all stores ordered by plan day ascending, with
// unscheduled stores last.
func (s *Store) ListStores(ctx context.Context) ([]models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list_stores"); err != nil {
		return nil, err
	}
	out := append([]models.Store(nil), s.stores...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PlanDay, out[j].PlanDay
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out, nil
}

// ListItems returns all items newest first, joined with the suggested
// store's name.
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list_items"); err != nil {
		return nil, err
	}
	out := make([]models.Item, 0, len(s.items))
	for _, it := range s.items {
		it.RequesterIDs = append([]string(nil), it.RequesterIDs...)
		it.StoreSuggestionName = ""
		if it.StoreSuggestionID != nil {
			for i := range s.stores {
				if s.stores[i].ID == *it.StoreSuggestionID {
					it.StoreSuggestionName = s.stores[i].Name
					break
				}
			}
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// ListExpenses returns all expenses newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list_expenses"); err != nil {
		return nil, err
	}
	out := append([]models.Expense(nil), s.expenses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// InsertItem assigns an ID and created_at and stores the item.
func (s *Store) InsertItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("insert_item"); err != nil {
		return err
	}
	item.ID = uuid.New().String()
	item.CreatedAt = s.now()
	stored := *item
	stored.RequesterIDs = append([]string(nil), item.RequesterIDs...)
	s.items = append(s.items, stored)
	return nil
}

// UpdateItem replaces all mutable fields of the item row.
func (s *Store) UpdateItem(ctx context.Context, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("update_item"); err != nil {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == item.ID {
			item.CreatedAt = s.items[i].CreatedAt
			item.IsPurchased = s.items[i].IsPurchased
			item.RequesterIDs = append([]string(nil), item.RequesterIDs...)
			s.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("update item %s: %w", item.ID, gateway.ErrNotFound)
}

// SetItemPurchased flips the purchase flag on one item.
func (s *Store) SetItemPurchased(ctx context.Context, id string, purchased bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("set_item_purchased"); err != nil {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsPurchased = purchased
			return nil
		}
	}
	return fmt.Errorf("set item purchased %s: %w", id, gateway.ErrNotFound)
}

// DeleteItem removes one item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("delete_item"); err != nil {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete item %s: %w", id, gateway.ErrNotFound)
}

// InsertStore assigns an ID and stores the store row.
func (s *Store) InsertStore(ctx context.Context, store *models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("insert_store"); err != nil {
		return err
	}
	store.ID = uuid.New().String()
	s.stores = append(s.stores, *store)
	return nil
}

// UpdateStore replaces all mutable fields of the store row.
func (s *Store) UpdateStore(ctx context.Context, store models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("update_store"); err != nil {
		return err
	}
	for i := range s.stores {
		if s.stores[i].ID == store.ID {
			s.stores[i] = store
			return nil
		}
	}
	return fmt.Errorf("update store %s: %w", store.ID, gateway.ErrNotFound)
}

// SetStoreDay assigns or clears one store's day bucket.
func (s *Store) SetStoreDay(ctx context.Context, id string, day *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("set_store_day"); err != nil {
		return err
	}
	for i := range s.stores {
		if s.stores[i].ID == id {
			s.stores[i].PlanDay = day
			return nil
		}
	}
	return fmt.Errorf("set store day %s: %w", id, gateway.ErrNotFound)
}

// DeleteStore removes one store.
func (s *Store) DeleteStore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("delete_store"); err != nil {
		return err
	}
	for i := range s.stores {
		if s.stores[i].ID == id {
			s.stores = append(s.stores[:i], s.stores[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete store %s: %w", id, gateway.ErrNotFound)
}

// InsertExpense assigns an ID and created_at and stores the expense.
func (s *Store) InsertExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("insert_expense"); err != nil {
		return err
	}
	expense.ID = uuid.New().String()
	expense.CreatedAt = s.now()
	s.expenses = append(s.expenses, *expense)
	return nil
}

// DeleteExpense removes one expense.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("delete_expense"); err != nil {
		return err
	}
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete expense %s: %w", id, gateway.ErrNotFound)
}

// UpdateMeasurement replaces the six sizing fields and notes of one row.
func (s *Store) UpdateMeasurement(ctx context.Context, m models.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("update_measurement"); err != nil {
		return err
	}
	for i := range s.measurements {
		if s.measurements[i].ID == m.ID {
			row := &s.measurements[i]
			row.Height = m.Height
			row.Waist = m.Waist
			row.Hip = m.Hip
			row.FootLength = m.FootLength
			row.LegLength = m.LegLength
			row.ArmLength = m.ArmLength
			row.Notes = m.Notes
			return nil
		}
	}
	return fmt.Errorf("update measurement %s: %w", m.ID, gateway.ErrNotFound)
}

// Close is a no-op for the in-memory gateway.
func (s *Store) Close() error { return nil }

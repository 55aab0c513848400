// Package state keeps the in-memory mirror of the five remote collections
// and applies user mutations optimistically against it.
//
// The Store owns the snapshot: every accessor returns copies, and only
// LoadAll and the Mutator write to it. Correctness is re-anchored to the
// remote store after every write by refetching, rather than by merging
// speculative state.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/khuan/tripmate/internal/gateway"
	"github.com/khuan/tripmate/internal/metrics"
	"github.com/khuan/tripmate/internal/models"
)

// DefaultSeedCategories is the starting category list for the add-item
// form; observed item categories extend it.
var DefaultSeedCategories = []string{"clothing", "shoes", "bags", "cosmetics", "snacks", "electronics"}

// NoticeKind classifies a user-visible failure notice.
type NoticeKind string

const (
	NoticeRead   NoticeKind = "read"
	NoticeWrite  NoticeKind = "write"
	NoticeUpload NoticeKind = "upload"
)

// Notice is a user-visible failure report. Notices identify the attempted
// action so the presentation layer can word the retry hint.
type Notice struct {
	Kind   NoticeKind
	Action string
	Err    error
}

// LoadReport records the outcome of one LoadAll: which sub-reads failed.
// A failed sub-read leaves its collection empty without aborting the rest.
type LoadReport struct {
	Errors map[string]error
}

// OK reports whether every sub-read succeeded.
func (r LoadReport) OK() bool { return len(r.Errors) == 0 }

// Store holds the last-known-good snapshot of all five collections.
type Store struct {
	gw             gateway.Gateway
	seedCategories []string

	mu           sync.Mutex
	profiles     []models.Profile
	measurements []models.Measurement
	stores       []models.Store
	items        []models.Item
	expenses     []models.Expense

	selectedMemberID   string
	defaultRequesterID string

	notices []Notice
}

// New creates a Store over the given gateway with the default seed
// categories.
func New(gw gateway.Gateway) *Store {
	return NewWithSeed(gw, DefaultSeedCategories)
}

// NewWithSeed creates a Store with a custom seed category list.
func NewWithSeed(gw gateway.Gateway, seedCategories []string) *Store {
	return &Store{
		gw:             gw,
		seedCategories: append([]string(nil), seedCategories...),
	}
}

// LoadAll replaces every collection with a fresh authoritative read. The
// five reads run in parallel; a failed read empties its collection and
// raises a read notice, the others still populate.
func (s *Store) LoadAll(ctx context.Context) LoadReport {
	var (
		wg           sync.WaitGroup
		profiles     []models.Profile
		measurements []models.Measurement
		stores       []models.Store
		items        []models.Item
		expenses     []models.Expense
		errs         [5]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		profiles, errs[0] = s.gw.ListProfiles(ctx)
		metrics.ObserveGatewayCall("profile", "list", errs[0])
	}()
	go func() {
		defer wg.Done()
		measurements, errs[1] = s.gw.ListMeasurements(ctx)
		metrics.ObserveGatewayCall("measurement", "list", errs[1])
	}()
	go func() {
		defer wg.Done()
		stores, errs[2] = s.gw.ListStores(ctx)
		metrics.ObserveGatewayCall("store", "list", errs[2])
	}()
	go func() {
		defer wg.Done()
		items, errs[3] = s.gw.ListItems(ctx)
		metrics.ObserveGatewayCall("item", "list", errs[3])
	}()
	go func() {
		defer wg.Done()
		expenses, errs[4] = s.gw.ListExpenses(ctx)
		metrics.ObserveGatewayCall("expense", "list", errs[4])
	}()
	wg.Wait()

	kinds := []string{"profiles", "measurements", "stores", "items", "expenses"}
	report := LoadReport{Errors: make(map[string]error)}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, kind := range kinds {
		if errs[i] == nil {
			continue
		}
		report.Errors[kind] = errs[i]
		slog.Error("Load failed", "collection", kind, "error", errs[i])
		s.notices = append(s.notices, Notice{
			Kind:   NoticeRead,
			Action: fmt.Sprintf("load-%s", kind),
			Err:    errs[i],
		})
	}

	// A failed sub-read leaves that collection empty rather than stale.
	s.profiles = profiles
	s.measurements = measurements
	s.stores = stores
	s.items = items
	s.expenses = expenses

	// Default selections, only where nothing is selected yet.
	if s.selectedMemberID == "" && len(s.measurements) > 0 {
		s.selectedMemberID = s.measurements[0].ProfileID
	}
	if s.defaultRequesterID == "" && len(s.profiles) > 0 {
		s.defaultRequesterID = s.profiles[0].ID
	}

	slog.Info("Snapshot loaded",
		"profiles", len(s.profiles),
		"measurements", len(s.measurements),
		"stores", len(s.stores),
		"items", len(s.items),
		"expenses", len(s.expenses),
		"failed", len(report.Errors),
	)
	return report
}

// Profiles returns a copy of the profile collection.
func (s *Store) Profiles() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Profile(nil), s.profiles...)
}

// Measurements returns a copy of the measurement collection.
func (s *Store) Measurements() []models.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Measurement(nil), s.measurements...)
}

// Stores returns a copy of the store collection in fetch order.
func (s *Store) Stores() []models.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Store(nil), s.stores...)
}

// Items returns a copy of the item collection, newest first.
func (s *Store) Items() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Item, len(s.items))
	for i, it := range s.items {
		it.RequesterIDs = append([]string(nil), it.RequesterIDs...)
		out[i] = it
	}
	return out
}

// Expenses returns a copy of the expense collection, newest first.
func (s *Store) Expenses() []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Expense(nil), s.expenses...)
}

// ItemByID looks up one item in the current snapshot.
func (s *Store) ItemByID(id string) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			it.RequesterIDs = append([]string(nil), it.RequesterIDs...)
			return it, true
		}
	}
	return models.Item{}, false
}

// StoreByID looks up one store in the current snapshot.
func (s *Store) StoreByID(id string) (models.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stores {
		if st.ID == id {
			return st, true
		}
	}
	return models.Store{}, false
}

// MeasurementByID looks up one measurement in the current snapshot.
func (s *Store) MeasurementByID(id string) (models.Measurement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.measurements {
		if m.ID == id {
			return m, true
		}
	}
	return models.Measurement{}, false
}

// CategoryList returns the seed categories union the distinct categories
// observed in loaded items: seed order first, observed order after,
// de-duplicated. Idempotent for an unchanged item collection.
func (s *Store) CategoryList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.seedCategories))
	out := make([]string, 0, len(s.seedCategories))
	for _, c := range s.seedCategories {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, it := range s.items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// SelectedMemberID is the profile whose measurements the size card shows.
func (s *Store) SelectedMemberID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedMemberID
}

// SelectMember changes the size card subject.
func (s *Store) SelectMember(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedMemberID = profileID
}

// DefaultRequesterID is the profile preselected in the add-item form.
func (s *Store) DefaultRequesterID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultRequesterID
}

// Notices returns the pending user-visible failure notices.
func (s *Store) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

// ClearNotices drops all pending notices, typically after display.
func (s *Store) ClearNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = nil
}

func (s *Store) addNotice(kind NoticeKind, action string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Kind: kind, Action: action, Err: err})
}

// mutate runs fn with exclusive access to the raw collections.
func (s *Store) mutate(fn func(c *collections)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := collections{
		profiles:     &s.profiles,
		measurements: &s.measurements,
		stores:       &s.stores,
		items:        &s.items,
		expenses:     &s.expenses,
	}
	fn(&c)
}

// collections exposes the raw slices to the Mutator's local-apply steps.
type collections struct {
	profiles     *[]models.Profile
	measurements *[]models.Measurement
	stores       *[]models.Store
	items        *[]models.Item
	expenses     *[]models.Expense
}

package state

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/khuan/tripmate/internal/gateway/memory"
	"github.com/khuan/tripmate/internal/ledger"
	"github.com/khuan/tripmate/internal/models"
	"github.com/khuan/tripmate/internal/schedule"
	"github.com/khuan/tripmate/internal/upload"
)

func newLoadedMutator(t *testing.T) (*Mutator, *Store, *memory.Store) {
	t.Helper()
	gw := seedGateway()
	store := New(gw)
	if report := store.LoadAll(context.Background()); !report.OK() {
		t.Fatalf("LoadAll failed: %v", report.Errors)
	}
	return NewMutator(store, nil), store, gw
}

func TestTogglePurchasedParity(t *testing.T) {
	m, store, _ := newLoadedMutator(t)
	ctx := context.Background()

	original, _ := store.ItemByID("i1")

	// The final value equals the parity of the number of toggles.
	for _, toggles := range []int{1, 2, 3, 4} {
		for i := 0; i < toggles; i++ {
			if err := m.ToggleItemPurchased(ctx, "i1"); err != nil {
				t.Fatalf("toggle %d/%d failed: %v", i+1, toggles, err)
			}
		}
		item, ok := store.ItemByID("i1")
		if !ok {
			t.Fatal("item i1 disappeared")
		}
		want := original.IsPurchased != (toggles%2 == 1)
		if item.IsPurchased != want {
			t.Errorf("after %d toggles purchased = %v, want %v", toggles, item.IsPurchased, want)
		}
		// Reset for the next round.
		if toggles%2 == 1 {
			if err := m.ToggleItemPurchased(ctx, "i1"); err != nil {
				t.Fatalf("reset toggle failed: %v", err)
			}
		}
	}
}

func TestToggleFailureRollsBack(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	gw.FailNext("set_item_purchased", errors.New("rejected"))
	err := m.ToggleItemPurchased(ctx, "i1")
	if err == nil {
		t.Fatal("expected toggle to fail")
	}

	item, _ := store.ItemByID("i1")
	if item.IsPurchased {
		t.Error("optimistic flip survived a rejected write")
	}

	notices := store.Notices()
	if len(notices) != 1 || notices[0].Kind != NoticeWrite || notices[0].Action != "toggle-purchased" {
		t.Errorf("notices = %+v, want one write notice for toggle-purchased", notices)
	}
}

func TestUpdateItemFailureRestoresConfirmedState(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	before, _ := store.ItemByID("i1")

	gw.FailNext("update_item", errors.New("constraint violation"))
	err := m.UpdateItem(ctx, "i1", models.ItemDraft{
		Name:     "Cashmere sweater",
		Quantity: "5",
		MaxPrice: "99999",
	})
	if err == nil {
		t.Fatal("expected update to fail")
	}

	// No partial optimistic leakage: every field matches the last state
	// the remote store confirmed.
	after, ok := store.ItemByID("i1")
	if !ok {
		t.Fatal("item i1 disappeared")
	}
	if after.Name != before.Name || after.Quantity != before.Quantity {
		t.Errorf("fields leaked: got %q/%d, want %q/%d", after.Name, after.Quantity, before.Name, before.Quantity)
	}
	if (after.MaxPrice == nil) != (before.MaxPrice == nil) {
		t.Errorf("max price leaked: got %v, want %v", after.MaxPrice, before.MaxPrice)
	}
	if after.StoreSuggestionName != before.StoreSuggestionName {
		t.Errorf("join field leaked: got %q, want %q", after.StoreSuggestionName, before.StoreSuggestionName)
	}
}

func TestAddItemReconciles(t *testing.T) {
	m, store, _ := newLoadedMutator(t)
	ctx := context.Background()

	err := m.AddItem(ctx, models.ItemDraft{
		Name:              "Heattech set",
		Category:          "clothing",
		RequesterIDs:      []string{"p1"},
		StoreSuggestionID: "s1",
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for _, it := range items {
		if strings.HasPrefix(it.ID, "pending-") {
			t.Errorf("reconciliation left a pending row: %+v", it)
		}
	}
	// Newest first, with the joined store name from the refetch.
	if items[0].Name != "Heattech set" {
		t.Errorf("newest item = %q, want Heattech set", items[0].Name)
	}
	if items[0].StoreSuggestionName != "Uniqlo Shinjuku" {
		t.Errorf("joined store name = %q", items[0].StoreSuggestionName)
	}
}

func TestAddItemInsertFailureRollsBack(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	gw.FailNext("insert_item", errors.New("quota exceeded"))
	if err := m.AddItem(ctx, models.ItemDraft{Name: "Umbrella"}); err == nil {
		t.Fatal("expected insert to fail")
	}

	items := store.Items()
	if len(items) != 2 {
		t.Errorf("items after rollback = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Name == "Umbrella" {
			t.Error("optimistic row survived a rejected insert")
		}
	}
}

func TestValidationFailureMutatesNothing(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	if err := m.AddItem(ctx, models.ItemDraft{Name: "x", Quantity: "zero"}); err == nil {
		t.Fatal("expected validation error")
	}

	if got := len(store.Items()); got != 2 {
		t.Errorf("items = %d, want 2", got)
	}
	remote, _ := gw.ListItems(ctx)
	if len(remote) != 2 {
		t.Errorf("remote items = %d, want 2: validation must precede the network", len(remote))
	}
	if got := len(store.Notices()); got != 0 {
		t.Errorf("validation failures raise no notices, got %d", got)
	}
}

func TestAssignStoreDay(t *testing.T) {
	m, store, _ := newLoadedMutator(t)
	ctx := context.Background()

	// s1 starts on day2. Move it to day4.
	if err := m.AssignStoreDay(ctx, "s1", "day4"); err != nil {
		t.Fatalf("AssignStoreDay failed: %v", err)
	}

	stores := store.Stores()
	if got := schedule.StoresForDay(stores, "day2"); len(got) != 0 {
		t.Errorf("day2 still has %d stores, want 0", len(got))
	}
	got := schedule.StoresForDay(stores, "day4")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("day4 = %+v, want exactly s1", got)
	}

	t.Run("clearing the assignment", func(t *testing.T) {
		if err := m.AssignStoreDay(ctx, "s1", ""); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		for _, st := range store.Stores() {
			if st.ID == "s1" && st.PlanDay != nil {
				t.Errorf("plan day = %q, want cleared", *st.PlanDay)
			}
		}
	})

	t.Run("unknown day is rejected before the network", func(t *testing.T) {
		if err := m.AssignStoreDay(ctx, "s2", "day9"); err == nil {
			t.Fatal("expected validation error")
		}
		st, _ := store.StoreByID("s2")
		if st.PlanDay != nil {
			t.Errorf("s2 plan day = %q, want untouched nil", *st.PlanDay)
		}
	})
}

func TestAssignStoreDayFailureRollsBack(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	gw.FailNext("set_store_day", errors.New("offline"))
	if err := m.AssignStoreDay(ctx, "s1", "day4"); err == nil {
		t.Fatal("expected assignment to fail")
	}

	st, _ := store.StoreByID("s1")
	if st.PlanDay == nil || *st.PlanDay != "day2" {
		t.Errorf("plan day after rollback = %v, want day2", st.PlanDay)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	m, store, _ := newLoadedMutator(t)
	ctx := context.Background()

	if got := ledger.Total(store.Expenses()); got != 3500 {
		t.Fatalf("initial total = %d, want 3500", got)
	}

	if err := m.DeleteExpense(ctx, "e2"); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if got := ledger.Total(store.Expenses()); got != 1000 {
		t.Errorf("total after delete = %d, want 1000", got)
	}

	if err := m.AddExpense(ctx, models.ExpenseDraft{
		Amount: "4200", StoreName: "ABC Mart", Category: "shopping",
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if got := ledger.Total(store.Expenses()); got != 5200 {
		t.Errorf("total after add = %d, want 5200", got)
	}
}

func TestDeleteStoreClearsSuggestions(t *testing.T) {
	m, store, _ := newLoadedMutator(t)
	ctx := context.Background()

	if err := m.DeleteStore(ctx, "s1"); err != nil {
		t.Fatalf("DeleteStore failed: %v", err)
	}

	if _, ok := store.StoreByID("s1"); ok {
		t.Error("store s1 still in snapshot")
	}
	item, _ := store.ItemByID("i1")
	if item.StoreSuggestionID != nil || item.StoreSuggestionName != "" {
		t.Errorf("item still references the deleted store: %+v", item)
	}
}

func TestUpdateMeasurement(t *testing.T) {
	m, store, gw := newLoadedMutator(t)
	ctx := context.Background()

	draft := models.MeasurementDraft{
		Height: "161", Waist: "71", Hip: "91",
		FootLength: "24.5", LegLength: "96", ArmLength: "56",
		Notes: "likes oversized",
	}
	if err := m.UpdateMeasurement(ctx, "m1", draft); err != nil {
		t.Fatalf("UpdateMeasurement failed: %v", err)
	}

	updated, ok := store.MeasurementByID("m1")
	if !ok {
		t.Fatal("measurement m1 missing")
	}
	if updated.Height != 161 || updated.Notes != "likes oversized" {
		t.Errorf("measurement = %+v", updated)
	}

	t.Run("rejected edit restores all six fields", func(t *testing.T) {
		gw.FailNext("update_measurement", errors.New("rejected"))
		bad := models.MeasurementDraft{
			Height: "999", Waist: "999", Hip: "999",
			FootLength: "999", LegLength: "999", ArmLength: "999",
		}
		if err := m.UpdateMeasurement(ctx, "m1", bad); err == nil {
			t.Fatal("expected update to fail")
		}
		after, _ := store.MeasurementByID("m1")
		if after.Height != 161 || after.Waist != 71 {
			t.Errorf("rollback incomplete: %+v", after)
		}
	})
}

func TestSubmitBlockedWhileUploadInFlight(t *testing.T) {
	gw := seedGateway()
	store := New(gw)
	ctx := context.Background()
	if report := store.LoadAll(ctx); !report.OK() {
		t.Fatalf("LoadAll failed: %v", report.Errors)
	}

	mem := upload.NewMemory()
	mem.Gate = make(chan struct{})
	tracker := upload.NewTracker(mem)
	m := NewMutator(store, tracker)

	uploadDone := make(chan error, 1)
	go func() {
		_, err := m.UploadImage(ctx, bytes.NewReader([]byte("jpeg bytes")), "receipt.jpg")
		uploadDone <- err
	}()

	// Wait for the upload to be visibly in flight.
	deadline := time.After(2 * time.Second)
	for !tracker.InFlight() {
		select {
		case <-deadline:
			t.Fatal("upload never entered flight")
		case <-time.After(time.Millisecond):
		}
	}

	if err := m.AddItem(ctx, models.ItemDraft{Name: "Jacket"}); !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("AddItem during upload = %v, want ErrUploadInFlight", err)
	}
	if err := m.AddExpense(ctx, models.ExpenseDraft{Amount: "100"}); !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("AddExpense during upload = %v, want ErrUploadInFlight", err)
	}

	// No insert reached the gateway while the upload was pending.
	remoteItems, _ := gw.ListItems(ctx)
	if len(remoteItems) != 2 {
		t.Errorf("remote items = %d, want 2", len(remoteItems))
	}

	close(mem.Gate)
	if err := <-uploadDone; err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	// With the upload resolved the form submits normally.
	if err := m.AddItem(ctx, models.ItemDraft{Name: "Jacket"}); err != nil {
		t.Errorf("AddItem after upload = %v, want success", err)
	}
}

func TestUploadFailureRaisesNotice(t *testing.T) {
	gw := seedGateway()
	store := New(gw)
	if report := store.LoadAll(context.Background()); !report.OK() {
		t.Fatalf("LoadAll failed: %v", report.Errors)
	}

	mem := upload.NewMemory()
	mem.Err = errors.New("storage unavailable")
	m := NewMutator(store, upload.NewTracker(mem))

	url, err := m.UploadImage(context.Background(), bytes.NewReader(nil), "receipt.jpg")
	if err == nil {
		t.Fatal("expected upload to fail")
	}
	if url != "" {
		t.Errorf("url = %q, want empty: the field stays unset", url)
	}

	notices := store.Notices()
	if len(notices) != 1 || notices[0].Kind != NoticeUpload {
		t.Errorf("notices = %+v, want one upload notice", notices)
	}
}

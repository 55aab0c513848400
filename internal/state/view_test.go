package state

import (
	"testing"

	"github.com/khuan/tripmate/internal/models"
)

func TestViewStateTransitions(t *testing.T) {
	t.Run("zero value shows the todo listing", func(t *testing.T) {
		var v ViewState
		if v.Tab() != TabTodo {
			t.Errorf("zero tab = %q, want todo", v.Tab())
		}
		if _, _, open := v.Modal(); open {
			t.Error("zero value has an open modal")
		}
	})

	t.Run("a modal remembers the tab underneath", func(t *testing.T) {
		v := Listing(TabDone).OpenModal(ModalSizeCard, "p2")

		kind, payload, open := v.Modal()
		if !open || kind != ModalSizeCard || payload != "p2" {
			t.Errorf("modal = %q/%q/%v, want sizecard/p2/open", kind, payload, open)
		}
		if v.Tab() != TabDone {
			t.Errorf("tab under modal = %q, want done", v.Tab())
		}

		closed := v.CloseModal()
		if _, _, open := closed.Modal(); open {
			t.Error("modal still open after close")
		}
		if closed.Tab() != TabDone {
			t.Errorf("tab after close = %q, want done", closed.Tab())
		}
	})

	t.Run("switching tab closes any modal", func(t *testing.T) {
		v := Listing(TabTodo).OpenModal(ModalExpense, "").WithTab(TabDone)
		if _, _, open := v.Modal(); open {
			t.Error("modal survived a tab switch")
		}
		if v.Tab() != TabDone {
			t.Errorf("tab = %q, want done", v.Tab())
		}
	})

	t.Run("opening a second modal replaces the first", func(t *testing.T) {
		v := Listing(TabTodo).
			OpenModal(ModalAddItem, "").
			OpenModal(ModalImagePreview, "i1")
		kind, payload, _ := v.Modal()
		if kind != ModalImagePreview || payload != "i1" {
			t.Errorf("modal = %q/%q, want imagepreview/i1: one overlay at a time", kind, payload)
		}
	})

	t.Run("unknown tab falls back to todo", func(t *testing.T) {
		if got := Listing(Tab("archive")).Tab(); got != TabTodo {
			t.Errorf("tab = %q, want todo", got)
		}
	})
}

func TestFilterByTab(t *testing.T) {
	items := []models.Item{
		{ID: "i1", Name: "Sweater"},
		{ID: "i2", Name: "Bread", IsPurchased: true},
		{ID: "i3", Name: "Socks"},
	}

	todo := FilterByTab(items, TabTodo)
	if len(todo) != 2 || todo[0].ID != "i1" || todo[1].ID != "i3" {
		t.Errorf("todo tab = %+v, want i1 then i3", todo)
	}

	done := FilterByTab(items, TabDone)
	if len(done) != 1 || done[0].ID != "i2" {
		t.Errorf("done tab = %+v, want only i2", done)
	}

	if got := FilterByTab(nil, TabTodo); len(got) != 0 {
		t.Errorf("empty collection = %+v, want empty", got)
	}
}

func TestProgress(t *testing.T) {
	items := []models.Item{
		{ID: "i1", IsPurchased: true},
		{ID: "i2"},
		{ID: "i3", IsPurchased: true},
	}
	done, total := Progress(items)
	if done != 2 || total != 3 {
		t.Errorf("Progress = %d/%d, want 2/3", done, total)
	}

	done, total = Progress(nil)
	if done != 0 || total != 0 {
		t.Errorf("Progress of empty list = %d/%d, want 0/0", done, total)
	}
}

func TestRequesterBadges(t *testing.T) {
	profiles := []models.Profile{
		{ID: "p1", Nickname: "Kuan", ColorPref: "gray"},
		{ID: "p2", Nickname: "Han"},
	}
	item := models.Item{RequesterIDs: []string{"p2", "p1", "p9"}}

	badges := RequesterBadges(item, profiles)
	if len(badges) != 3 {
		t.Fatalf("badges = %d, want 3", len(badges))
	}

	// Badges keep the requester set's order.
	if badges[0].Nickname != "Han" || badges[1].Nickname != "Kuan" {
		t.Errorf("badge order = %q, %q; want Han, Kuan", badges[0].Nickname, badges[1].Nickname)
	}
	if badges[0].Color != "blue" {
		t.Errorf("no preference color = %q, want default blue", badges[0].Color)
	}
	if badges[1].Color != "gray" {
		t.Errorf("preference color = %q, want gray", badges[1].Color)
	}

	// An unresolvable requester keeps its membership visible by bare ID.
	if badges[2].Nickname != "p9" || badges[2].Color != "blue" {
		t.Errorf("unknown requester badge = %+v", badges[2])
	}

	if got := RequesterBadges(models.Item{}, profiles); len(got) != 0 {
		t.Errorf("item with no requesters = %+v, want no badges", got)
	}
}

func TestMeasurementFor(t *testing.T) {
	measurements := []models.Measurement{
		{ID: "m1", ProfileID: "p2", Height: 160},
		{ID: "m2", ProfileID: "p1", Height: 175},
	}

	m, ok := MeasurementFor(measurements, "p1")
	if !ok || m.ID != "m2" {
		t.Errorf("MeasurementFor(p1) = %+v/%v, want m2", m, ok)
	}

	if _, ok := MeasurementFor(measurements, "p3"); ok {
		t.Error("member without a size card should report absence")
	}
}

func TestCanEditItem(t *testing.T) {
	if !CanEditItem(models.Item{ID: "i1"}) {
		t.Error("unpurchased item should be editable")
	}
	if CanEditItem(models.Item{ID: "i2", IsPurchased: true}) {
		t.Error("purchased item should not be editable")
	}
}

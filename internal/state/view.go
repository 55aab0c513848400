package state

import "github.com/khuan/tripmate/internal/models"

// Tab selects which slice of the wish list the listing shows.
type Tab string

const (
	TabTodo Tab = "todo"
	TabDone Tab = "done"
)

// ModalKind names the overlays the app can show.
type ModalKind string

const (
	ModalSizeCard     ModalKind = "sizecard"
	ModalAddItem      ModalKind = "additem"
	ModalAddStore     ModalKind = "addstore"
	ModalAssignStore  ModalKind = "assignstore"
	ModalExpense      ModalKind = "expense"
	ModalImagePreview ModalKind = "imagepreview"
)

// ViewState is the single finite view value: the listing with its active
// tab, or exactly one modal over that listing. It replaces independently
// toggled booleans, which can contradict each other; a ViewState cannot.
type ViewState struct {
	tab     Tab
	modal   ModalKind // zero when listing
	payload string    // entity id the modal operates on, if any
}

// Listing returns the plain listing view on the given tab.
func Listing(tab Tab) ViewState {
	if tab != TabDone {
		tab = TabTodo
	}
	return ViewState{tab: tab}
}

// WithTab switches the listing tab, closing any open modal.
func (v ViewState) WithTab(tab Tab) ViewState {
	return Listing(tab)
}

// OpenModal overlays one modal, remembering the tab underneath.
func (v ViewState) OpenModal(kind ModalKind, payload string) ViewState {
	return ViewState{tab: v.tab, modal: kind, payload: payload}
}

// CloseModal returns to the listing on the remembered tab.
func (v ViewState) CloseModal() ViewState {
	return ViewState{tab: v.tab}
}

// Tab reports the active listing tab.
func (v ViewState) Tab() Tab {
	if v.tab == "" {
		return TabTodo
	}
	return v.tab
}

// Modal reports the open modal, if any.
func (v ViewState) Modal() (ModalKind, string, bool) {
	return v.modal, v.payload, v.modal != ""
}

// FilterByTab returns the items the tab shows: todo lists unpurchased
// items, done lists purchased ones. Collection order is preserved.
func FilterByTab(items []models.Item, tab Tab) []models.Item {
	var out []models.Item
	for _, it := range items {
		if (tab == TabDone) == it.IsPurchased {
			out = append(out, it)
		}
	}
	return out
}

// Progress reports how many items are purchased out of the total.
func Progress(items []models.Item) (done, total int) {
	for _, it := range items {
		if it.IsPurchased {
			done++
		}
	}
	return done, len(items)
}

// Badge is one requester chip on an item card.
type Badge struct {
	ProfileID string
	Nickname  string
	Color     string
}

// defaultBadgeColor is used for members with no color preference.
const defaultBadgeColor = "blue"

// RequesterBadges resolves an item's requester set to display badges, in
// the requester set's stable order. Requesters whose profile failed to
// load still get a badge with the bare ID so the membership stays visible.
func RequesterBadges(item models.Item, profiles []models.Profile) []Badge {
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	badges := make([]Badge, 0, len(item.RequesterIDs))
	for _, id := range item.RequesterIDs {
		b := Badge{ProfileID: id, Nickname: id, Color: defaultBadgeColor}
		if p, ok := byID[id]; ok {
			b.Nickname = p.Nickname
			if p.ColorPref != "" {
				b.Color = p.ColorPref
			}
		}
		badges = append(badges, b)
	}
	return badges
}

// MeasurementFor returns the measurement belonging to the selected member.
func MeasurementFor(measurements []models.Measurement, profileID string) (models.Measurement, bool) {
	for _, m := range measurements {
		if m.ProfileID == profileID {
			return m, true
		}
	}
	return models.Measurement{}, false
}

// CanEditItem reports whether an item still offers edit and delete
// affordances. Purchased items only offer the toggle back.
func CanEditItem(item models.Item) bool {
	return !item.IsPurchased
}

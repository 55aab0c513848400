package models

// Item represents a wish-list entry.
//
// Requesters are a many-to-many relationship held as an embedded ID set:
// acceptable for a small bounded group, and persisted through a join table
// by the SQL gateway.
type Item struct {
	// ID is the opaque identifier issued by the remote store.
	ID string

	// Name is the item's display name.
	Name string

	// Category is free-form and grows from the seed category list.
	Category string

	// Quantity is how many to buy (always positive).
	Quantity int64

	// RequesterIDs are the profiles who want this item. Zero or more,
	// duplicate-free; order is not significant.
	RequesterIDs []string

	// Size, Color, PurchaseNote and ProductCode describe what exactly
	// to look for at the shop.
	Size         string
	Color        string
	PurchaseNote string
	ProductCode  string

	// MaxPrice is the optional budget ceiling in whole currency units.
	MaxPrice *int64

	// ImageURL is the optional uploaded reference photo.
	ImageURL *string

	// StoreSuggestionID optionally points at a Store where the item is
	// likely to be found. StoreSuggestionName carries the joined store
	// name for display; it is empty when the row was read without the
	// join or the reference is unset.
	StoreSuggestionID   *string
	StoreSuggestionName string

	// IsPurchased marks the item done. Purchased items are only
	// togglable back; edit and delete affordances are withheld.
	IsPurchased bool

	// CreatedAt is the Unix timestamp assigned by the remote store.
	// Items are listed newest first.
	CreatedAt int64
}

// HasRequester reports whether the profile is in the item's requester set.
func (it Item) HasRequester(profileID string) bool {
	for _, id := range it.RequesterIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// ToggleRequester returns the requester set with the profile added if
// absent or removed if present (set symmetric difference with one element).
// The input slice is never mutated.
func ToggleRequester(requesterIDs []string, profileID string) []string {
	out := make([]string, 0, len(requesterIDs)+1)
	found := false
	for _, id := range requesterIDs {
		if id == profileID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, profileID)
	}
	return out
}

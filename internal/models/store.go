package models

// Store represents a candidate shop for the trip.
//
// A store belongs to at most one day bucket at a time: PlanDay is a single
// nullable field, so assigning a new day implicitly vacates the old one.
type Store struct {
	// ID is the opaque identifier issued by the remote store.
	ID string

	// Name is the shop's display name.
	Name string

	// Category is a free-form grouping (e.g. "clothing", "shoes").
	Category string

	// Address is the street address shown on the store card.
	Address string

	// MapLink is an external map URL for navigation.
	MapLink string

	// BuyingTips is free text: tax-free counters, floor hints, etc.
	BuyingTips string

	// PlanDay is the assigned trip-day identifier, or nil when the store
	// is unscheduled. Valid values come from the fixed day table.
	PlanDay *string

	// Lat and Lng are the optional geocoordinate.
	Lat *float64
	Lng *float64
}

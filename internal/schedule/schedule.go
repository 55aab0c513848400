// Package schedule maps stores onto the fixed set of trip days.
//
// The day table is trip configuration, not data derived from the store
// collection: labels, dates and goals are fixed up front and a day with no
// stores is a normal, displayable state.
package schedule

import "github.com/khuan/tripmate/internal/models"

// Day is one trip day a store can be assigned to.
type Day struct {
	// ID is the stable identifier persisted in Store.PlanDay.
	ID string

	// Label is the short display name.
	Label string

	// Date is the calendar date, for display only.
	Date string

	// Goal is the day's shopping focus.
	Goal string
}

var days = []Day{
	{ID: "day1", Label: "Day 1", Date: "12/19", Goal: "Shinjuku: department stores, first sizing pass"},
	{ID: "day2", Label: "Day 2", Date: "12/20", Goal: "Shibuya & Harajuku: streetwear, sneakers"},
	{ID: "day3", Label: "Day 3", Date: "12/21", Goal: "Ginza: gifts, cosmetics"},
	{ID: "day4", Label: "Day 4", Date: "12/22", Goal: "Ueno & Asakusa: leftovers, souvenirs"},
	{ID: "day5", Label: "Day 5", Date: "12/23", Goal: "Airport run, tax-free pickup"},
}

// Days returns the fixed day table in trip order.
func Days() []Day {
	out := make([]Day, len(days))
	copy(out, days)
	return out
}

// ValidDay reports whether id names one of the fixed trip days.
func ValidDay(id string) bool {
	for _, d := range days {
		if d.ID == id {
			return true
		}
	}
	return false
}

// DayByID looks up one day from the fixed table.
func DayByID(id string) (Day, bool) {
	for _, d := range days {
		if d.ID == id {
			return d, true
		}
	}
	return Day{}, false
}

// StoresForDay returns the stores assigned to the given day, preserving the
// collection's current order. An empty result is a valid empty state.
func StoresForDay(stores []models.Store, dayID string) []models.Store {
	var out []models.Store
	for _, s := range stores {
		if s.PlanDay != nil && *s.PlanDay == dayID {
			out = append(out, s)
		}
	}
	return out
}

// UnscheduledStores returns the stores with no day assignment, preserving
// the collection's current order.
func UnscheduledStores(stores []models.Store) []models.Store {
	var out []models.Store
	for _, s := range stores {
		if s.PlanDay == nil {
			out = append(out, s)
		}
	}
	return out
}

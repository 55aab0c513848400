package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft types carry form input exactly as submitted: every field a raw
// string, empty meaning "left blank". Converting a draft to its entity
// validates required fields and normalizes blanks to real absence, so a
// gateway call never sees an empty string where a number or reference
// belongs.

// ItemDraft is the add/edit item form.
type ItemDraft struct {
	Name              string
	Category          string
	Quantity          string // blank defaults to 1
	RequesterIDs      []string
	Size              string
	Color             string
	PurchaseNote      string
	ProductCode       string
	MaxPrice          string // blank means no ceiling
	ImageURL          string // blank means no photo
	StoreSuggestionID string // blank means no suggested store
}

// ToItem validates the draft and returns the normalized entity.
// ID, IsPurchased and CreatedAt are left zero; the remote store owns them.
func (d ItemDraft) ToItem() (Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Item{}, fmt.Errorf("item name is required")
	}

	qty := int64(1)
	if s := strings.TrimSpace(d.Quantity); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return Item{}, fmt.Errorf("quantity must be a positive integer, got %q", d.Quantity)
		}
		qty = n
	}

	maxPrice, err := optionalNonNegativeInt(d.MaxPrice)
	if err != nil {
		return Item{}, fmt.Errorf("max price: %w", err)
	}

	return Item{
		Name:              name,
		Category:          strings.TrimSpace(d.Category),
		Quantity:          qty,
		RequesterIDs:      dedupe(d.RequesterIDs),
		Size:              strings.TrimSpace(d.Size),
		Color:             strings.TrimSpace(d.Color),
		PurchaseNote:      strings.TrimSpace(d.PurchaseNote),
		ProductCode:       strings.TrimSpace(d.ProductCode),
		MaxPrice:          maxPrice,
		ImageURL:          optionalString(d.ImageURL),
		StoreSuggestionID: optionalString(d.StoreSuggestionID),
	}, nil
}

// StoreDraft is the add/edit store form.
type StoreDraft struct {
	Name       string
	Category   string
	Address    string
	MapLink    string
	BuyingTips string
	PlanDay    string // blank means unscheduled
	Lat        string
	Lng        string
}

// ToStore validates the draft and returns the normalized entity.
// PlanDay is normalized but not checked against the day table here; the
// mutator validates it against the trip configuration.
func (d StoreDraft) ToStore() (Store, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Store{}, fmt.Errorf("store name is required")
	}

	lat, err := optionalFloat(d.Lat)
	if err != nil {
		return Store{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := optionalFloat(d.Lng)
	if err != nil {
		return Store{}, fmt.Errorf("longitude: %w", err)
	}
	if (lat == nil) != (lng == nil) {
		return Store{}, fmt.Errorf("latitude and longitude must be set together")
	}

	return Store{
		Name:       name,
		Category:   strings.TrimSpace(d.Category),
		Address:    strings.TrimSpace(d.Address),
		MapLink:    strings.TrimSpace(d.MapLink),
		BuyingTips: strings.TrimSpace(d.BuyingTips),
		PlanDay:    optionalString(d.PlanDay),
		Lat:        lat,
		Lng:        lng,
	}, nil
}

// ExpenseDraft is the add expense form.
type ExpenseDraft struct {
	Amount     string
	StoreName  string
	Category   string // blank defaults to "other"
	Note       string
	ReceiptURL string // blank means no receipt
}

// ToExpense validates the draft and returns the normalized entity.
func (d ExpenseDraft) ToExpense() (Expense, error) {
	s := strings.TrimSpace(d.Amount)
	if s == "" {
		return Expense{}, fmt.Errorf("amount is required")
	}
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil || amount < 0 {
		return Expense{}, fmt.Errorf("amount must be a non-negative integer, got %q", d.Amount)
	}

	category := ExpenseCategory(strings.TrimSpace(d.Category))
	if category == "" {
		category = ExpenseOther
	}
	if !validExpenseCategory(category) {
		return Expense{}, fmt.Errorf("unknown expense category %q", d.Category)
	}

	return Expense{
		Amount:     amount,
		StoreName:  strings.TrimSpace(d.StoreName),
		Category:   category,
		Note:       strings.TrimSpace(d.Note),
		ReceiptURL: optionalString(d.ReceiptURL),
	}, nil
}

// MeasurementDraft is the edit measurement form. All six sizing fields are
// submitted and replaced together.
type MeasurementDraft struct {
	Height     string
	Waist      string
	Hip        string
	FootLength string
	LegLength  string
	ArmLength  string
	Notes      string
}

// Apply validates the draft and returns a copy of the measurement with all
// six numeric fields and the notes replaced.
func (d MeasurementDraft) Apply(m Measurement) (Measurement, error) {
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"height", d.Height, &m.Height},
		{"waist", d.Waist, &m.Waist},
		{"hip", d.Hip, &m.Hip},
		{"foot length", d.FootLength, &m.FootLength},
		{"leg length", d.LegLength, &m.LegLength},
		{"arm length", d.ArmLength, &m.ArmLength},
	}
	for _, f := range fields {
		s := strings.TrimSpace(f.raw)
		if s == "" {
			return Measurement{}, fmt.Errorf("%s is required", f.name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return Measurement{}, fmt.Errorf("%s must be a non-negative number, got %q", f.name, f.raw)
		}
		*f.dst = v
	}
	m.Notes = strings.TrimSpace(d.Notes)
	return m, nil
}

func validExpenseCategory(c ExpenseCategory) bool {
	for _, known := range ExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// dedupe removes duplicate values, preserving first-seen order.
func dedupe(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// optionalString maps a blank form value to nil.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalNonNegativeInt maps a blank form value to nil, never to zero.
func optionalNonNegativeInt(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("must be a non-negative integer, got %q", s)
	}
	return &n, nil
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("must be a number, got %q", s)
	}
	return &v, nil
}

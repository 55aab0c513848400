package models

// ExpenseCategory classifies a ledger entry.
type ExpenseCategory string

const (
	ExpenseShopping  ExpenseCategory = "shopping"
	ExpenseFood      ExpenseCategory = "food"
	ExpenseTransport ExpenseCategory = "transport"
	ExpenseLodging   ExpenseCategory = "lodging"
	ExpenseOther     ExpenseCategory = "other"
)

// ExpenseCategories lists the categories in display order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseShopping,
		ExpenseFood,
		ExpenseTransport,
		ExpenseLodging,
		ExpenseOther,
	}
}

// Expense represents one ledger entry.
//
// StoreName is deliberately free text rather than a Store reference: a
// logged expense is a historical fact and must survive the store directory
// changing underneath it.
type Expense struct {
	// ID is the opaque identifier issued by the remote store.
	ID string

	// Amount in whole currency units (no minor units), never negative.
	Amount int64

	// StoreName is where the money was spent, as typed by the user.
	StoreName string

	// Category classifies the spend.
	Category ExpenseCategory

	// Note is optional free text.
	Note string

	// ReceiptURL is the optional uploaded receipt photo.
	ReceiptURL *string

	// CreatedAt is the Unix timestamp assigned by the remote store.
	CreatedAt int64
}

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khuan/tripmate/internal/models"
)

// ListExpenses retrieves all ledger entries newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.query(ctx,
		`SELECT id, amount, store_name, category, note, receipt_url, created_at
		 FROM expenses
		 ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var category string
		var receiptURL sql.NullString

		if err := rows.Scan(&e.ID, &e.Amount, &e.StoreName, &category, &e.Note,
			&receiptURL, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		// The remote store is authoritative; unknown categories pass
		// through unchanged.
		e.Category = models.ExpenseCategory(category)
		if receiptURL.Valid {
			e.ReceiptURL = &receiptURL.String
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// InsertExpense persists a new ledger entry, populating ID and CreatedAt.
func (s *Store) InsertExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := s.exec(ctx,
		`INSERT INTO expenses (id, amount, store_name, category, note, receipt_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.StoreName, string(expense.Category),
		expense.Note, expense.ReceiptURL, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// DeleteExpense removes one ledger entry.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete expense", id,
		"DELETE FROM expenses WHERE id = ?", id)
}

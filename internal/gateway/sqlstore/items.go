package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khuan/tripmate/internal/gateway"
	"github.com/khuan/tripmate/internal/models"
)

// ListItems retrieves all items newest first, joined with the suggested
// store's name and each item's requester set.
func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.query(ctx,
		`SELECT i.id, i.name, i.category, i.quantity, i.size, i.color, i.purchase_note,
		        i.product_code, i.max_price, i.image_url, i.store_suggestion_id,
		        COALESCE(st.name, ''), i.is_purchased, i.created_at
		 FROM shopping_items i
		 LEFT JOIN stores st ON st.id = i.store_suggestion_id
		 ORDER BY i.created_at DESC, i.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	index := make(map[string]int)
	for rows.Next() {
		var item models.Item
		var maxPrice sql.NullInt64
		var imageURL, storeID sql.NullString

		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity,
			&item.Size, &item.Color, &item.PurchaseNote, &item.ProductCode,
			&maxPrice, &imageURL, &storeID, &item.StoreSuggestionName,
			&item.IsPurchased, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		if maxPrice.Valid {
			item.MaxPrice = &maxPrice.Int64
		}
		if imageURL.Valid {
			item.ImageURL = &imageURL.String
		}
		if storeID.Valid {
			item.StoreSuggestionID = &storeID.String
		}

		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// Attach requester sets in one pass instead of one query per item.
	reqRows, err := s.query(ctx,
		"SELECT item_id, profile_id FROM item_requesters ORDER BY item_id, profile_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list item requesters: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var itemID, profileID string
		if err := reqRows.Scan(&itemID, &profileID); err != nil {
			return nil, fmt.Errorf("failed to scan item requester: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].RequesterIDs = append(items[i].RequesterIDs, profileID)
		}
	}
	if err := reqRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item requesters: %w", err)
	}

	return items, nil
}

// InsertItem persists a new item and its requester set, populating ID and
// CreatedAt.
func (s *Store) InsertItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO shopping_items (id, name, category, quantity, size, color, purchase_note,
		                             product_code, max_price, image_url, store_suggestion_id,
		                             is_purchased, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID, item.Name, item.Category, item.Quantity, item.Size, item.Color,
		item.PurchaseNote, item.ProductCode, item.MaxPrice, item.ImageURL,
		item.StoreSuggestionID, item.IsPurchased, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if err := insertRequesters(ctx, tx, s, item.ID, item.RequesterIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateItem replaces all mutable fields of the item row and rewrites its
// requester set.
func (s *Store) UpdateItem(ctx context.Context, item models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.rebind(
		`UPDATE shopping_items
		 SET name = ?, category = ?, quantity = ?, size = ?, color = ?, purchase_note = ?,
		     product_code = ?, max_price = ?, image_url = ?, store_suggestion_id = ?
		 WHERE id = ?`),
		item.Name, item.Category, item.Quantity, item.Size, item.Color,
		item.PurchaseNote, item.ProductCode, item.MaxPrice, item.ImageURL,
		item.StoreSuggestionID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	} else if n == 0 {
		return fmt.Errorf("update item %s: %w", item.ID, gateway.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(
		"DELETE FROM item_requesters WHERE item_id = ?"), item.ID); err != nil {
		return fmt.Errorf("failed to clear item requesters: %w", err)
	}
	if err := insertRequesters(ctx, tx, s, item.ID, item.RequesterIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetItemPurchased flips the purchase flag on one item.
func (s *Store) SetItemPurchased(ctx context.Context, id string, purchased bool) error {
	return s.execOne(ctx, "set item purchased", id,
		"UPDATE shopping_items SET is_purchased = ? WHERE id = ?", purchased, id)
}

// DeleteItem removes one item; the requester join rows cascade.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete item", id,
		"DELETE FROM shopping_items WHERE id = ?", id)
}

func insertRequesters(ctx context.Context, tx *sql.Tx, s *Store, itemID string, profileIDs []string) error {
	for _, profileID := range profileIDs {
		if _, err := tx.ExecContext(ctx, s.rebind(
			"INSERT INTO item_requesters (item_id, profile_id) VALUES (?, ?)"),
			itemID, profileID); err != nil {
			return fmt.Errorf("failed to insert item requester: %w", err)
		}
	}
	return nil
}

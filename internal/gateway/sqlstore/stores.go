package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/khuan/tripmate/internal/models"
)

// ListStores retrieves all stores ordered by plan day ascending, with
// unscheduled stores last.
func (s *Store) ListStores(ctx context.Context) ([]models.Store, error) {
	rows, err := s.query(ctx,
		`SELECT id, name, category, address, map_link, buying_tips, plan_day, lat, lng
		 FROM stores
		 ORDER BY plan_day IS NULL, plan_day, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var store models.Store
		var planDay sql.NullString
		var lat, lng sql.NullFloat64

		if err := rows.Scan(&store.ID, &store.Name, &store.Category, &store.Address,
			&store.MapLink, &store.BuyingTips, &planDay, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}

		if planDay.Valid {
			store.PlanDay = &planDay.String
		}
		if lat.Valid {
			store.Lat = &lat.Float64
		}
		if lng.Valid {
			store.Lng = &lng.Float64
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}
	return stores, nil
}

// InsertStore persists a new store, populating ID.
func (s *Store) InsertStore(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	_, err := s.exec(ctx,
		`INSERT INTO stores (id, name, category, address, map_link, buying_tips, plan_day, lat, lng)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		store.ID, store.Name, store.Category, store.Address, store.MapLink,
		store.BuyingTips, store.PlanDay, store.Lat, store.Lng,
	)
	if err != nil {
		return fmt.Errorf("failed to insert store: %w", err)
	}
	return nil
}

// UpdateStore replaces all mutable fields of the store row.
func (s *Store) UpdateStore(ctx context.Context, store models.Store) error {
	return s.execOne(ctx, "update store", store.ID,
		`UPDATE stores
		 SET name = ?, category = ?, address = ?, map_link = ?, buying_tips = ?,
		     plan_day = ?, lat = ?, lng = ?
		 WHERE id = ?`,
		store.Name, store.Category, store.Address, store.MapLink, store.BuyingTips,
		store.PlanDay, store.Lat, store.Lng, store.ID,
	)
}

// SetStoreDay assigns or clears one store's day bucket. A point update:
// every other store's plan_day is untouched.
func (s *Store) SetStoreDay(ctx context.Context, id string, day *string) error {
	return s.execOne(ctx, "set store day", id,
		"UPDATE stores SET plan_day = ? WHERE id = ?", day, id)
}

// DeleteStore removes one store. Items suggesting it keep working: the
// foreign key nulls their suggestion.
func (s *Store) DeleteStore(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete store", id,
		"DELETE FROM stores WHERE id = ?", id)
}

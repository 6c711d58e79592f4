package repository

import (
	"database/sql"
	"fmt"

	"stockroom-api/internal/model"
)

// itemSelect is the shared column list for item queries across the SQL
// backends.
const itemSelect = `SELECT id, owner_id, name, sku, category, quantity, price, description, created_at, updated_at FROM items`

// scanAccount scans a single account row, mapping sql.ErrNoRows to
// ErrNotFound.
func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// scanItem scans a single item row, mapping sql.ErrNoRows to ErrNotFound.
func scanItem(row *sql.Row) (*model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.SKU, &it.Category,
		&it.Quantity, &it.Price, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	return &it, nil
}

// collectItems drains a multi-row item result set.
func collectItems(rows *sql.Rows) ([]model.Item, error) {
	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.SKU, &it.Category,
			&it.Quantity, &it.Price, &it.Description, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

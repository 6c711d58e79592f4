package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"stockroom-api/internal/model"

	"github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using MySQL.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLStore] Initialized")
	return &MySQLStore{db: db}, nil
}

// createMySQLTables creates the accounts and items tables.
func createMySQLTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_accounts_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(128) NOT NULL,
			category VARCHAR(255) NOT NULL,
			quantity BIGINT NOT NULL,
			price DOUBLE NOT NULL,
			description TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_items_owner_sku (owner_id, sku),
			KEY idx_items_owner (owner_id)
		)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// isMySQLDuplicateEntry reports whether err is error 1062 (duplicate entry).
func isMySQLDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// CreateAccount persists a new account.
func (s *MySQLStore) CreateAccount(ctx context.Context, account *model.Account) error {
	query := `INSERT INTO accounts (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail finds an account by its (lowercased) email.
func (s *MySQLStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM accounts WHERE email = ?`
	return scanAccount(s.db.QueryRowContext(ctx, query, email))
}

// GetAccountByID finds an account by its identifier.
func (s *MySQLStore) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM accounts WHERE id = ?`
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// ListItems returns all items owned by ownerID in creation order.
func (s *MySQLStore) ListItems(ctx context.Context, ownerID string) ([]model.Item, error) {
	query := itemSelect + ` WHERE owner_id = ? ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// GetItem returns the item only if it belongs to ownerID.
func (s *MySQLStore) GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	query := itemSelect + ` WHERE id = ? AND owner_id = ?`
	return scanItem(s.db.QueryRowContext(ctx, query, itemID, ownerID))
}

// CreateItem persists a new item.
func (s *MySQLStore) CreateItem(ctx context.Context, item *model.Item) error {
	query := `INSERT INTO items (id, owner_id, name, sku, category, quantity, price, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.Name, item.SKU, item.Category,
		item.Quantity, item.Price, item.Description, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem replaces the mutable fields of an item owned by item.OwnerID.
func (s *MySQLStore) UpdateItem(ctx context.Context, item *model.Item) error {
	query := `UPDATE items SET name = ?, sku = ?, category = ?, quantity = ?, price = ?, description = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		item.Name, item.SKU, item.Category, item.Quantity, item.Price,
		item.Description, item.UpdatedAt, item.ID, item.OwnerID)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if affected == 0 {
		// MySQL reports 0 affected rows for no-op updates too, so check
		// existence before collapsing to not-found.
		if _, getErr := s.GetItem(ctx, item.OwnerID, item.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// DeleteItem removes the item if it belongs to ownerID.
func (s *MySQLStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ? AND owner_id = ?`, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats returns counters about the store.
func (s *MySQLStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var accounts, items int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&accounts); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return nil, err
	}
	stats["accounts"] = accounts
	stats["items"] = items

	return stats, nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// Ensure MySQLStore implements Store
var _ Store = (*MySQLStore)(nil)

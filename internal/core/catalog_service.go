package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages the book catalog. It owns every item field
// except stock consumed by billing: catalog edits change name, author,
// category, and price; Restock is the only stock mutation here and models
// goods intake from a supplier.
type CatalogService interface {
	CreateItem(ctx context.Context, name, author, category string, unitPrice decimal.Decimal, initialStock int) (*Item, error)
	// UpdateItem edits descriptive fields and price. Stock is deliberately
	// not part of the update set.
	UpdateItem(ctx context.Context, itemID int64, name, author, category string, unitPrice decimal.Decimal) (*Item, error)
	// DeactivateItem hides an item from billing and listings. Items are
	// never hard-deleted while bill lines reference them.
	DeactivateItem(ctx context.Context, itemID int64) error
	GetItem(ctx context.Context, itemID int64) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	// SearchItems matches item names case-insensitively by substring.
	SearchItems(ctx context.Context, name string) ([]Item, error)
	// Restock adds qty units to an item's stock (goods intake).
	Restock(ctx context.Context, itemID int64, qty int) (*Item, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

const itemColumns = "id, name, author, category, unit_price, stock, is_active, created_at, updated_at"

func scanItem(row pgx.Row, it *Item) error {
	return row.Scan(
		&it.ID, &it.Name, &it.Author, &it.Category,
		&it.UnitPrice, &it.Stock, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
}

func (s *catalogService) CreateItem(ctx context.Context, name, author, category string, unitPrice decimal.Decimal, initialStock int) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrInvalidArgument)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s: %w", unitPrice, ErrInvalidArgument)
	}
	if initialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative, got %d: %w", initialStock, ErrInvalidArgument)
	}

	var it Item
	err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO items (name, author, category, unit_price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+itemColumns,
		name, author, category, unitPrice, initialStock), &it)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("item %s already exists: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &it, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, itemID int64, name, author, category string, unitPrice decimal.Decimal) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrInvalidArgument)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s: %w", unitPrice, ErrInvalidArgument)
	}

	var it Item
	err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items
		SET name = $1, author = $2, category = $3, unit_price = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+itemColumns,
		name, author, category, unitPrice, itemID), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("item %s already exists: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to update item %d: %w", itemID, err)
	}
	return &it, nil
}

func (s *catalogService) DeactivateItem(ctx context.Context, itemID int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE items SET is_active = FALSE, updated_at = NOW() WHERE id = $1",
		itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

func (s *catalogService) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	var it Item
	err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1", itemID), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch item %d: %w", itemID, err)
	}
	return &it, nil
}

func (s *catalogService) ListItems(ctx context.Context) ([]Item, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE is_active = TRUE ORDER BY name")
}

func (s *catalogService) SearchItems(ctx context.Context, name string) ([]Item, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE is_active = TRUE AND name ILIKE $1 ORDER BY name",
		"%"+name+"%")
}

// Restock locks the item row so the increment cannot race a concurrent
// billing reservation.
func (s *catalogService) Restock(ctx context.Context, itemID int64, qty int) (*Item, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive, got %d: %w", qty, ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var it Item
	err = scanItem(tx.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1 FOR UPDATE", itemID), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock item %d: %w", itemID, err)
	}

	it.Release(qty)
	if _, err := tx.Exec(ctx,
		"UPDATE items SET stock = $1, updated_at = NOW() WHERE id = $2",
		it.Stock, it.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to restock item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit restock", err)
	}
	return &it, nil
}

func (s *catalogService) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Author, &it.Category,
			&it.UnitPrice, &it.Stock, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

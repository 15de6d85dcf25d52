package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a bookshop customer master record. Account is the external
// key billing callers use to open bills.
type Customer struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a catalog entry (a book). Stock is mutated only through
// Reserve/Release by the billing engine and through catalog restock;
// catalog edits touch name, author, category, and price only.
type Item struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Author    string          `json:"author"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasStock reports whether qty units are available.
func (it *Item) HasStock(qty int) bool {
	return it.Stock >= qty
}

// Reserve decrements stock by qty to account for a pending sale.
// Stock never goes negative: an over-ask fails with ErrInsufficientStock
// and leaves the item unchanged.
func (it *Item) Reserve(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d: %w", qty, ErrInvalidArgument)
	}
	if qty > it.Stock {
		return fmt.Errorf("item %d has %d in stock, requested %d: %w", it.ID, it.Stock, qty, ErrInsufficientStock)
	}
	it.Stock -= qty
	return nil
}

// Release increments stock by qty, undoing a prior reservation.
// There is no upper bound check; repeated releases can inflate stock
// above its historical ceiling.
func (it *Item) Release(qty int) {
	if qty <= 0 {
		return
	}
	it.Stock += qty
}

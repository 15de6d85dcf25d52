package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate operations on a Bill. These methods mutate the in-memory
// aggregate only; the billing engine persists the result inside the same
// transaction that adjusts item stock.

// lineFor returns the line for itemID, or nil.
func (b *Bill) lineFor(itemID int64) *BillItem {
	for i := range b.Items {
		if b.Items[i].ItemID == itemID {
			return &b.Items[i]
		}
	}
	return nil
}

// ensurePending rejects line mutations and lifecycle transitions on
// non-Pending bills.
func (b *Bill) ensurePending() error {
	if b.Status != BillStatusPending {
		return fmt.Errorf("bill %d is %s: %w", b.ID, b.Status, ErrIllegalBillState)
	}
	return nil
}

// AddLine merges qty units of item into the bill. If a line for the item
// already exists its quantity grows by qty; otherwise a new line is
// appended at the item's current price. The caller is responsible for
// reserving qty units of stock atomically with this call.
func (b *Bill) AddLine(item *Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d: %w", qty, ErrInvalidArgument)
	}
	if err := b.ensurePending(); err != nil {
		return err
	}

	if line := b.lineFor(item.ID); line != nil {
		line.Quantity += qty
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	} else {
		b.Items = append(b.Items, BillItem{
			BillID:    b.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  qty,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	b.RecalculateTotal()
	return nil
}

// RemoveLine deletes the line for itemID and recomputes the total.
func (b *Bill) RemoveLine(itemID int64) error {
	if err := b.ensurePending(); err != nil {
		return err
	}
	for i := range b.Items {
		if b.Items[i].ItemID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			b.RecalculateTotal()
			return nil
		}
	}
	return fmt.Errorf("bill %d has no line for item %d: %w", b.ID, itemID, ErrNotFound)
}

// SetLineQuantity replaces the quantity of the line for itemID and
// recomputes its line total and the bill total.
func (b *Bill) SetLineQuantity(itemID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d: %w", qty, ErrInvalidArgument)
	}
	if err := b.ensurePending(); err != nil {
		return err
	}
	line := b.lineFor(itemID)
	if line == nil {
		return fmt.Errorf("bill %d has no line for item %d: %w", b.ID, itemID, ErrNotFound)
	}
	line.Quantity = qty
	line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	b.RecalculateTotal()
	return nil
}

// RecalculateTotal sets Total to the sum of all line totals. Idempotent;
// invoked after every structural change rather than kept implicitly in sync.
func (b *Bill) RecalculateTotal() {
	total := decimal.Zero
	for i := range b.Items {
		total = total.Add(b.Items[i].LineTotal)
	}
	b.Total = total
}

// MarkPaid transitions PENDING → PAID. Terminal.
func (b *Bill) MarkPaid() error {
	if err := b.ensurePending(); err != nil {
		return err
	}
	now := time.Now()
	b.Status = BillStatusPaid
	b.PaidAt = &now
	return nil
}

// MarkCancelled transitions PENDING → CANCELLED. Terminal. Releasing the
// stock held by the bill's lines is the billing engine's job.
func (b *Bill) MarkCancelled() error {
	if err := b.ensurePending(); err != nil {
		return err
	}
	now := time.Now()
	b.Status = BillStatusCancelled
	b.CancelledAt = &now
	return nil
}

// TotalItemCount returns the sum of line quantities.
func (b *Bill) TotalItemCount() int {
	n := 0
	for i := range b.Items {
		n += b.Items[i].Quantity
	}
	return n
}

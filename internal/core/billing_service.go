package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillingService orchestrates the bill aggregate and item stock across
// multi-step mutations. Every operation is one database transaction: the
// stock adjustment and the bill change commit together or not at all.
//
// Concurrency: the bill row is locked first, then item rows in ascending
// id order, all with SELECT ... FOR UPDATE, so check-then-decrement on
// stock is atomic and two mutations against the same bill or item are
// serialized.
type BillingService interface {
	// CreateBill opens a PENDING bill with zero total and no lines for the
	// customer identified by account.
	CreateBill(ctx context.Context, account string) (*Bill, error)

	// AddItem merges qty units of an item into a PENDING bill, reserving
	// only the newly requested quantity from stock.
	AddItem(ctx context.Context, billID, itemID int64, qty int) (*Bill, error)

	// RemoveItem deletes the item's line and releases its full quantity
	// back to stock.
	RemoveItem(ctx context.Context, billID, itemID int64) (*Bill, error)

	// UpdateItemQuantity sets the line to newQty, reserving or releasing
	// the difference.
	UpdateItemQuantity(ctx context.Context, billID, itemID int64, newQty int) (*Bill, error)

	// MarkPaid transitions PENDING → PAID. Stock was already reserved at
	// add time and is consumed by the sale; no stock change happens here.
	MarkPaid(ctx context.Context, billID int64) (*Bill, error)

	// Cancel transitions PENDING → CANCELLED, releasing the stock held by
	// every line.
	Cancel(ctx context.Context, billID int64) (*Bill, error)

	// Delete removes a bill and its lines. A PENDING bill has its reserved
	// stock released first; a PAID or CANCELLED bill is deleted without any
	// stock adjustment.
	Delete(ctx context.Context, billID int64) error

	// FindByID returns the bill with its lines.
	FindByID(ctx context.Context, billID int64) (*Bill, error)
}

type billingService struct {
	pool *pgxpool.Pool
}

func NewBillingService(pool *pgxpool.Pool) BillingService {
	return &billingService{pool: pool}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling
// shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// wrapTxErr maps transaction-level failures (deadlock, serialization) to
// ErrConflict so callers know to retry the whole operation.
func wrapTxErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ── Lifecycle operations ──────────────────────────────────────────────────────

func (s *billingService) CreateBill(ctx context.Context, account string) (*Bill, error) {
	if account == "" {
		return nil, fmt.Errorf("customer account is required: %w", ErrInvalidArgument)
	}

	var customerID int64
	err := s.pool.QueryRow(ctx, "SELECT id FROM customers WHERE account = $1", account).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer account %s: %w", account, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve customer %s: %w", account, err)
	}

	var billID int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO bills (customer_id, status, total)
		VALUES ($1, 'PENDING', 0)
		RETURNING id
	`, customerID).Scan(&billID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	return s.FindByID(ctx, billID)
}

func (s *billingService) AddItem(ctx context.Context, billID, itemID int64, qty int) (*Bill, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d: %w", qty, ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}

	item, err := s.lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	// Only the delta is reserved: merging into an existing line grows its
	// quantity by qty, so qty is exactly the newly requested amount.
	if err := item.Reserve(qty); err != nil {
		return nil, err
	}
	if err := bill.AddLine(item, qty); err != nil {
		return nil, err
	}

	if err := s.saveItemStock(ctx, tx, item); err != nil {
		return nil, err
	}
	line := bill.lineFor(itemID)
	if err := s.upsertLine(ctx, tx, line); err != nil {
		return nil, err
	}
	if err := s.saveBillTotal(ctx, tx, bill); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit add item", err)
	}
	return s.FindByID(ctx, billID)
}

func (s *billingService) RemoveItem(ctx context.Context, billID, itemID int64) (*Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	line := bill.lineFor(itemID)
	if line == nil {
		return nil, fmt.Errorf("bill %d has no line for item %d: %w", billID, itemID, ErrNotFound)
	}

	item, err := s.lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	item.Release(line.Quantity)
	if err := bill.RemoveLine(itemID); err != nil {
		return nil, err
	}

	if err := s.saveItemStock(ctx, tx, item); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM bill_items WHERE bill_id = $1 AND item_id = $2",
		billID, itemID,
	); err != nil {
		return nil, fmt.Errorf("failed to delete bill line: %w", err)
	}
	if err := s.saveBillTotal(ctx, tx, bill); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit remove item", err)
	}
	return s.FindByID(ctx, billID)
}

func (s *billingService) UpdateItemQuantity(ctx context.Context, billID, itemID int64, newQty int) (*Bill, error) {
	if newQty <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d: %w", newQty, ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	line := bill.lineFor(itemID)
	if line == nil {
		return nil, fmt.Errorf("bill %d has no line for item %d: %w", billID, itemID, ErrNotFound)
	}

	item, err := s.lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	delta := newQty - line.Quantity
	switch {
	case delta > 0:
		if err := item.Reserve(delta); err != nil {
			return nil, err
		}
	case delta < 0:
		item.Release(-delta)
	}

	if err := bill.SetLineQuantity(itemID, newQty); err != nil {
		return nil, err
	}

	if err := s.saveItemStock(ctx, tx, item); err != nil {
		return nil, err
	}
	if err := s.upsertLine(ctx, tx, bill.lineFor(itemID)); err != nil {
		return nil, err
	}
	if err := s.saveBillTotal(ctx, tx, bill); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit quantity update", err)
	}
	return s.FindByID(ctx, billID)
}

func (s *billingService) MarkPaid(ctx context.Context, billID int64) (*Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	if err := bill.MarkPaid(); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE bills SET status = 'PAID', paid_at = NOW() WHERE id = $1",
		billID,
	); err != nil {
		return nil, fmt.Errorf("failed to mark bill %d paid: %w", billID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit mark paid", err)
	}
	return s.FindByID(ctx, billID)
}

func (s *billingService) Cancel(ctx context.Context, billID int64) (*Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	if err := bill.MarkCancelled(); err != nil {
		return nil, err
	}

	if err := s.releaseLines(ctx, tx, bill.Items); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE bills SET status = 'CANCELLED', cancelled_at = NOW() WHERE id = $1",
		billID,
	); err != nil {
		return nil, fmt.Errorf("failed to cancel bill %d: %w", billID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr("commit cancel", err)
	}
	return s.FindByID(ctx, billID)
}

func (s *billingService) Delete(ctx context.Context, billID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := s.lockBill(ctx, tx, billID)
	if err != nil {
		return err
	}

	// Reserved stock is restored only for PENDING bills. Deleting a PAID or
	// CANCELLED bill leaves stock untouched: the sale was consumed, or the
	// cancellation already released it.
	if bill.Status == BillStatusPending {
		if err := s.releaseLines(ctx, tx, bill.Items); err != nil {
			return err
		}
	}

	// Explicit child delete inside the parent's transaction.
	if _, err := tx.Exec(ctx, "DELETE FROM bill_items WHERE bill_id = $1", billID); err != nil {
		return fmt.Errorf("failed to delete lines of bill %d: %w", billID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM bills WHERE id = $1", billID); err != nil {
		return fmt.Errorf("failed to delete bill %d: %w", billID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapTxErr("commit delete", err)
	}
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *billingService) FindByID(ctx context.Context, billID int64) (*Bill, error) {
	return fetchBill(ctx, s.pool, billID, false)
}

// ── Row locking and persistence helpers ──────────────────────────────────────

// lockBill loads the bill with its lines, holding a FOR UPDATE lock on the
// bill row for the remainder of the transaction.
func (s *billingService) lockBill(ctx context.Context, tx pgx.Tx, billID int64) (*Bill, error) {
	return fetchBill(ctx, tx, billID, true)
}

// lockItem loads an active catalog item, holding a FOR UPDATE lock on its
// row so the stock check-then-decrement is atomic.
func (s *billingService) lockItem(ctx context.Context, tx pgx.Tx, itemID int64) (*Item, error) {
	var it Item
	err := tx.QueryRow(ctx, `
		SELECT id, name, author, category, unit_price, stock, is_active, created_at, updated_at
		FROM items
		WHERE id = $1 AND is_active = TRUE
		FOR UPDATE
	`, itemID).Scan(
		&it.ID, &it.Name, &it.Author, &it.Category,
		&it.UnitPrice, &it.Stock, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock item %d: %w", itemID, err)
	}
	return &it, nil
}

// releaseLines restores the stock held by the given lines. Item rows are
// locked in ascending id order to keep a stable lock order across
// concurrent multi-item operations.
func (s *billingService) releaseLines(ctx context.Context, tx pgx.Tx, lines []BillItem) error {
	ordered := make([]BillItem, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ItemID < ordered[j].ItemID })

	for _, line := range ordered {
		item, err := s.lockItem(ctx, tx, line.ItemID)
		if err != nil {
			return err
		}
		item.Release(line.Quantity)
		if err := s.saveItemStock(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *billingService) saveItemStock(ctx context.Context, tx pgx.Tx, item *Item) error {
	if _, err := tx.Exec(ctx,
		"UPDATE items SET stock = $1, updated_at = NOW() WHERE id = $2",
		item.Stock, item.ID,
	); err != nil {
		return fmt.Errorf("failed to update stock of item %d: %w", item.ID, err)
	}
	return nil
}

func (s *billingService) upsertLine(ctx context.Context, tx pgx.Tx, line *BillItem) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO bill_items (bill_id, item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bill_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, line_total = EXCLUDED.line_total
	`, line.BillID, line.ItemID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
		return fmt.Errorf("failed to upsert line for item %d: %w", line.ItemID, err)
	}
	return nil
}

func (s *billingService) saveBillTotal(ctx context.Context, tx pgx.Tx, bill *Bill) error {
	if _, err := tx.Exec(ctx,
		"UPDATE bills SET total = $1 WHERE id = $2",
		bill.Total, bill.ID,
	); err != nil {
		return fmt.Errorf("failed to update total of bill %d: %w", bill.ID, err)
	}
	return nil
}

// fetchBill loads a bill header with its lines. With forUpdate the bill
// row stays locked until the caller's transaction ends.
func fetchBill(ctx context.Context, q pgxQuerier, billID int64, forUpdate bool) (*Bill, error) {
	query := `
		SELECT b.id, b.customer_id, c.name, c.account, b.status, b.total,
		       b.created_at, b.paid_at, b.cancelled_at
		FROM bills b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.id = $1`
	if forUpdate {
		query += " FOR UPDATE OF b"
	}

	var b Bill
	err := q.QueryRow(ctx, query, billID).Scan(
		&b.ID, &b.CustomerID, &b.CustomerName, &b.Account, &b.Status, &b.Total,
		&b.CreatedAt, &b.PaidAt, &b.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch bill %d: %w", billID, err)
	}

	lines, err := fetchBillLines(ctx, q, billID)
	if err != nil {
		return nil, err
	}
	b.Items = lines
	return &b, nil
}

func fetchBillLines(ctx context.Context, q pgxQuerier, billID int64) ([]BillItem, error) {
	rows, err := q.Query(ctx, `
		SELECT bi.id, bi.bill_id, bi.item_id, i.name, bi.quantity, bi.unit_price, bi.line_total
		FROM bill_items bi
		JOIN items i ON i.id = bi.item_id
		WHERE bi.bill_id = $1
		ORDER BY bi.id
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill lines: %w", err)
	}
	defer rows.Close()

	var lines []BillItem
	for rows.Next() {
		var l BillItem
		if err := rows.Scan(&l.ID, &l.BillID, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan bill line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportingService provides read-only queries and roll-ups over bills.
// Queries never fail on "no results" — they return empty slices.
// Realized revenue counts PAID bills only; Cancelled bills contribute
// nothing.
type ReportingService interface {
	// SearchBills filters bills by customer name (case-insensitive
	// substring), status, creation date range, and total range. Zero-value
	// filter fields are ignored.
	SearchBills(ctx context.Context, filter BillFilter) ([]Bill, error)

	// ListByStatus returns all bills in the given status, newest first.
	ListByStatus(ctx context.Context, status BillStatus) ([]Bill, error)

	// ListByCustomer returns all bills of one customer, newest first.
	ListByCustomer(ctx context.Context, customerID int64) ([]Bill, error)

	// ListToday returns bills created since local midnight.
	ListToday(ctx context.Context) ([]Bill, error)

	// RevenueForPeriod sums the totals of PAID bills created in [from, to).
	RevenueForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// Statistics returns bill counts by status plus realized revenue.
	Statistics(ctx context.Context) (*BillStatistics, error)

	// TopCustomers ranks customers by realized revenue.
	TopCustomers(ctx context.Context, limit int) ([]CustomerRevenue, error)

	// TopItems ranks items by quantity sold on PAID bills.
	TopItems(ctx context.Context, limit int) ([]ItemSales, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

const billSelect = `
	SELECT b.id, b.customer_id, c.name, c.account, b.status, b.total,
	       b.created_at, b.paid_at, b.cancelled_at
	FROM bills b
	JOIN customers c ON c.id = b.customer_id`

func (s *reportingService) SearchBills(ctx context.Context, filter BillFilter) ([]Bill, error) {
	q := billSelect + " WHERE 1=1"
	var args []any

	if filter.CustomerName != "" {
		args = append(args, "%"+filter.CustomerName+"%")
		q += fmt.Sprintf(" AND c.name ILIKE $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		q += fmt.Sprintf(" AND b.created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		q += fmt.Sprintf(" AND b.created_at < $%d", len(args))
	}
	if filter.MinTotal != nil {
		args = append(args, *filter.MinTotal)
		q += fmt.Sprintf(" AND b.total >= $%d", len(args))
	}
	if filter.MaxTotal != nil {
		args = append(args, *filter.MaxTotal)
		q += fmt.Sprintf(" AND b.total <= $%d", len(args))
	}
	q += " ORDER BY b.id DESC"

	return s.queryBills(ctx, q, args...)
}

func (s *reportingService) ListByStatus(ctx context.Context, status BillStatus) ([]Bill, error) {
	return s.queryBills(ctx, billSelect+" WHERE b.status = $1 ORDER BY b.id DESC", status)
}

func (s *reportingService) ListByCustomer(ctx context.Context, customerID int64) ([]Bill, error) {
	return s.queryBills(ctx, billSelect+" WHERE b.customer_id = $1 ORDER BY b.id DESC", customerID)
}

func (s *reportingService) ListToday(ctx context.Context) ([]Bill, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.queryBills(ctx, billSelect+" WHERE b.created_at >= $1 ORDER BY b.id DESC", midnight)
}

func (s *reportingService) RevenueForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM bills
		WHERE status = 'PAID' AND created_at >= $1 AND created_at < $2
	`, from, to).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query revenue: %w", err)
	}
	return revenue, nil
}

func (s *reportingService) Statistics(ctx context.Context) (*BillStatistics, error) {
	var st BillStatistics
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COUNT(*) FILTER (WHERE status = 'PAID'),
		       COUNT(*) FILTER (WHERE status = 'CANCELLED'),
		       COALESCE(SUM(total) FILTER (WHERE status = 'PAID'), 0)
		FROM bills
	`).Scan(&st.Total, &st.Pending, &st.Paid, &st.Cancelled, &st.Revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	return &st, nil
}

func (s *reportingService) TopCustomers(ctx context.Context, limit int) ([]CustomerRevenue, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.account, c.name, COUNT(b.id), COALESCE(SUM(b.total), 0)
		FROM customers c
		JOIN bills b ON b.customer_id = c.id AND b.status = 'PAID'
		GROUP BY c.id, c.account, c.name
		ORDER BY SUM(b.total) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerRevenue
	for rows.Next() {
		var cr CustomerRevenue
		if err := rows.Scan(&cr.CustomerID, &cr.Account, &cr.Name, &cr.BillCount, &cr.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top customer: %w", err)
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func (s *reportingService) TopItems(ctx context.Context, limit int) ([]ItemSales, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.name, COALESCE(SUM(bi.quantity), 0), COALESCE(SUM(bi.line_total), 0)
		FROM items i
		JOIN bill_items bi ON bi.item_id = i.id
		JOIN bills b ON b.id = bi.bill_id AND b.status = 'PAID'
		GROUP BY i.id, i.name
		ORDER BY SUM(bi.quantity) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer rows.Close()

	var out []ItemSales
	for rows.Next() {
		var is ItemSales
		if err := rows.Scan(&is.ItemID, &is.Name, &is.Quantity, &is.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

func (s *reportingService) queryBills(ctx context.Context, query string, args ...any) ([]Bill, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.CustomerName, &b.Account, &b.Status, &b.Total,
			&b.CreatedAt, &b.PaidAt, &b.CancelledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

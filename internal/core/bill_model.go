package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusCancelled BillStatus = "CANCELLED"
)

// Bill is one customer transaction. Status progresses through the state
// machine:
//
//	PENDING → PAID
//	PENDING → CANCELLED
//
// Both end states are terminal; line mutations are legal only while PENDING.
// Total always equals the sum of line totals after any committed mutation.
type Bill struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"` // joined from customers
	Account      string          `json:"account"`       // joined from customers
	Status       BillStatus      `json:"status"`
	Total        decimal.Decimal `json:"total"`
	Items        []BillItem      `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
}

// BillItem is one line within a bill. UnitPrice is snapshotted when the
// item is first added, so later catalog price changes do not reprice
// existing bills. At most one line exists per (bill, item) pair.
type BillItem struct {
	ID        int64           `json:"id"`
	BillID    int64           `json:"bill_id"`
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name"` // joined from items
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// BillFilter narrows a bill search. Zero values mean "no constraint".
type BillFilter struct {
	CustomerName string
	Status       BillStatus
	From         time.Time
	To           time.Time
	MinTotal     *decimal.Decimal
	MaxTotal     *decimal.Decimal
}

// BillStatistics is a read-only roll-up over all bills.
// Revenue counts PAID bills only; Cancelled bills never contribute.
type BillStatistics struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Paid      int             `json:"paid"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CustomerRevenue is one row of the top-customers roll-up.
type CustomerRevenue struct {
	CustomerID int64           `json:"customer_id"`
	Account    string          `json:"account"`
	Name       string          `json:"name"`
	BillCount  int             `json:"bill_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ItemSales is one row of the top-items roll-up.
type ItemSales struct {
	ItemID   int64           `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}
